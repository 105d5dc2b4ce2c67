package ingest

import (
	"context"
	"errors"
	"math"
	"os"
	"sort"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/localmedia"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
	"github.com/sagar803/real-estate-dashboard/internal/platform/openai"
)

var errEmptyAudio = errors.New("empty audio payload")

// AudioExtractor pulls a mono 16kHz WAV track out of a video payload.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoBytes []byte) ([]byte, error)
}

// Transcriber turns an audio payload into ordered timestamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioBytes []byte) ([]domain.TranscriptSegment, error)
}

type ffmpegAudioExtractor struct {
	tools localmedia.Tools
	log   *logger.Logger
}

func NewFFmpegAudioExtractor(tools localmedia.Tools, baseLog *logger.Logger) AudioExtractor {
	return &ffmpegAudioExtractor{
		tools: tools,
		log:   baseLog.With("service", "AudioExtractor"),
	}
}

func (e *ffmpegAudioExtractor) ExtractAudio(ctx context.Context, videoBytes []byte) ([]byte, error) {
	videoPath, err := e.tools.WriteTempFile(videoBytes, ".mp4")
	if err != nil {
		return nil, &TranscodeError{Err: err}
	}
	defer e.tools.Cleanup(videoPath)

	audioPath, err := e.tools.ExtractAudioWAV(ctx, videoPath)
	if err != nil {
		return nil, &TranscodeError{Err: err}
	}
	defer e.tools.Cleanup(audioPath)

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, &TranscodeError{Err: err}
	}
	return audio, nil
}

type openAITranscriber struct {
	client openai.Client
	log    *logger.Logger
}

func NewOpenAITranscriber(client openai.Client, baseLog *logger.Logger) Transcriber {
	return &openAITranscriber{
		client: client,
		log:    baseLog.With("service", "Transcriber"),
	}
}

// Transcribe keeps only {start, text} per segment, with start truncated
// to whole seconds, and guarantees ascending order.
func (t *openAITranscriber) Transcribe(ctx context.Context, audioBytes []byte) ([]domain.TranscriptSegment, error) {
	if len(audioBytes) == 0 {
		return nil, &TranscriptionError{Err: errEmptyAudio}
	}

	raw, err := t.client.TranscribeAudio(ctx, audioBytes, "audio.wav")
	if err != nil {
		return nil, &TranscriptionError{Err: err}
	}

	segments := make([]domain.TranscriptSegment, 0, len(raw))
	for _, seg := range raw {
		start := int(math.Floor(seg.Start))
		if start < 0 {
			start = 0
		}
		segments = append(segments, domain.TranscriptSegment{
			Start: start,
			Text:  seg.Text,
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments, nil
}
