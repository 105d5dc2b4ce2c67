package ingest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sagar803/real-estate-dashboard/internal/platform/localmedia"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// maxFramesPerVideo bounds the vision request payload regardless of
// video length.
const maxFramesPerVideo = 30

// SampledFrame is one still image pulled from a video, with its offset
// into the stream.
type SampledFrame struct {
	TimeSecond float64
	ImageBytes []byte
}

// FrameSampler pulls evenly spaced stills out of a video payload. The
// returned interval is the spacing in seconds that was chosen for the
// video's duration.
type FrameSampler interface {
	Sample(ctx context.Context, videoBytes []byte) (frames []SampledFrame, intervalSec int, err error)
}

// IntervalForDuration maps a video duration in seconds to the frame
// sampling interval. Longer videos are sampled more sparsely.
func IntervalForDuration(durationSec float64) int {
	switch {
	case durationSec > 90:
		return 6
	case durationSec > 60:
		return 4
	case durationSec > 40:
		return 3
	case durationSec > 30:
		return 2
	default:
		return 1
	}
}

// TargetFrameCount is duration/interval floored, capped at
// maxFramesPerVideo.
func TargetFrameCount(durationSec float64, intervalSec int) int {
	if intervalSec <= 0 {
		return 0
	}
	count := int(durationSec / float64(intervalSec))
	if count < 1 {
		count = 1
	}
	if count > maxFramesPerVideo {
		count = maxFramesPerVideo
	}
	return count
}

type ffmpegFrameSampler struct {
	tools localmedia.Tools
	log   *logger.Logger
}

func NewFFmpegFrameSampler(tools localmedia.Tools, baseLog *logger.Logger) FrameSampler {
	return &ffmpegFrameSampler{
		tools: tools,
		log:   baseLog.With("service", "FrameSampler"),
	}
}

func (s *ffmpegFrameSampler) Sample(ctx context.Context, videoBytes []byte) ([]SampledFrame, int, error) {
	videoPath, err := s.tools.WriteTempFile(videoBytes, ".mp4")
	if err != nil {
		return nil, 0, &FrameExtractionError{Err: err}
	}
	defer s.tools.Cleanup(videoPath)

	duration, err := s.tools.ProbeDurationSeconds(ctx, videoPath)
	if err != nil {
		return nil, 0, &FrameExtractionError{Err: err}
	}

	interval := IntervalForDuration(duration)
	target := TargetFrameCount(duration, interval)

	framePaths, err := s.tools.SampleFrames(ctx, videoPath, interval, target)
	if err != nil {
		return nil, interval, &FrameExtractionError{Err: err}
	}

	if len(framePaths) > 0 {
		defer s.tools.Cleanup(filepath.Dir(framePaths[0]))
	}

	frames := make([]SampledFrame, 0, len(framePaths))
	for i, p := range framePaths {
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return nil, interval, &FrameExtractionError{Err: readErr}
		}
		frames = append(frames, SampledFrame{
			TimeSecond: float64(i * interval),
			ImageBytes: data,
		})
	}

	return frames, interval, nil
}
