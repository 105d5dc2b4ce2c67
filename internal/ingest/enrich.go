package ingest

import (
	"context"
	"sync"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// VideoEnricher stores a video and runs the transcription and scene
// description sub-chains over it. Either sub-chain failing degrades the
// result to an empty sub-field; only the initial store can fail the
// video outright.
type VideoEnricher interface {
	Enrich(ctx context.Context, file FileUploadItem) (domain.VideoRef, error)
}

type videoEnricher struct {
	store     MediaStore
	extractor AudioExtractor
	scriber   Transcriber
	sampler   FrameSampler
	describer SceneDescriber
	log       *logger.Logger
}

func NewVideoEnricher(
	store MediaStore,
	extractor AudioExtractor,
	scriber Transcriber,
	sampler FrameSampler,
	describer SceneDescriber,
	baseLog *logger.Logger,
) VideoEnricher {
	return &videoEnricher{
		store:     store,
		extractor: extractor,
		scriber:   scriber,
		sampler:   sampler,
		describer: describer,
		log:       baseLog.With("service", "VideoEnricher"),
	}
}

func (e *videoEnricher) Enrich(ctx context.Context, file FileUploadItem) (domain.VideoRef, error) {
	url, err := e.store.Put(ctx, file.Filename, file.RawBytes, domain.MimeVideo)
	if err != nil {
		return domain.VideoRef{}, err
	}

	ref := domain.VideoRef{
		URL:         url,
		Description: file.Description,
	}

	var wg sync.WaitGroup
	wg.Add(2)

	// The two sub-chains are independent; each swallows its own
	// failure so the video always keeps its stored URL.
	go func() {
		defer wg.Done()
		segments, err := e.transcriptChain(ctx, file.RawBytes)
		if err != nil {
			e.log.Warn("Transcript chain failed, continuing without transcript",
				"file", file.Filename, "error", err.Error())
			return
		}
		ref.TranscriptSegments = segments
	}()

	go func() {
		defer wg.Done()
		scenes, err := e.sceneChain(ctx, file.RawBytes)
		if err != nil {
			e.log.Warn("Scene description chain failed, continuing without description",
				"file", file.Filename, "error", err.Error())
			return
		}
		ref.SceneDescription = scenes
	}()

	wg.Wait()
	return ref, nil
}

func (e *videoEnricher) transcriptChain(ctx context.Context, videoBytes []byte) ([]domain.TranscriptSegment, error) {
	audio, err := e.extractor.ExtractAudio(ctx, videoBytes)
	if err != nil {
		return nil, err
	}
	return e.scriber.Transcribe(ctx, audio)
}

func (e *videoEnricher) sceneChain(ctx context.Context, videoBytes []byte) ([]domain.SceneFrame, error) {
	frames, interval, err := e.sampler.Sample(ctx, videoBytes)
	if err != nil {
		return nil, err
	}
	return e.describer.Describe(ctx, frames, interval)
}
