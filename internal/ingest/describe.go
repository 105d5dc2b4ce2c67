package ingest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
	"github.com/sagar803/real-estate-dashboard/internal/platform/openai"
)

// SceneDescriber turns sampled frames into timestamped textual
// descriptions of the video's visual content.
type SceneDescriber interface {
	Describe(ctx context.Context, frames []SampledFrame, intervalSec int) ([]domain.SceneFrame, error)
}

type visionSceneDescriber struct {
	client openai.Client
	log    *logger.Logger
}

func NewVisionSceneDescriber(client openai.Client, baseLog *logger.Logger) SceneDescriber {
	return &visionSceneDescriber{
		client: client,
		log:    baseLog.With("service", "SceneDescriber"),
	}
}

const sceneSystemPrompt = "You are a real-estate video analyst. You receive still frames sampled " +
	"from a property walkthrough video at a fixed interval and describe what each frame shows."

func sceneUserPrompt(frameCount, intervalSec int) string {
	return fmt.Sprintf(
		"These %d frames were sampled every %d seconds from a property video, in order. "+
			"Frame N was captured at N*%d seconds (starting at 0). "+
			"Describe the visible scene at each frame. "+
			"Respond with ONLY a JSON array of objects shaped {\"time\": <seconds>, \"text\": \"<description>\"}, "+
			"one entry per frame, no prose and no markdown.",
		frameCount, intervalSec, intervalSec,
	)
}

func (d *visionSceneDescriber) Describe(ctx context.Context, frames []SampledFrame, intervalSec int) ([]domain.SceneFrame, error) {
	if len(frames) == 0 {
		return nil, &DescriptionParseError{Err: errors.New("no frames to describe")}
	}

	images := make([]openai.ImageInput, 0, len(frames))
	for _, f := range frames {
		images = append(images, openai.ImageInput{
			ImageURL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(f.ImageBytes),
			Detail:   "low",
		})
	}

	raw, err := d.client.GenerateTextWithImages(ctx, sceneSystemPrompt, sceneUserPrompt(len(frames), intervalSec), images)
	if err != nil {
		return nil, &DescriptionParseError{Err: err}
	}

	cleaned := stripCodeFences(raw)

	var parsed []domain.SceneFrame
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &DescriptionParseError{Raw: raw, Err: err}
	}

	out := parsed[:0]
	for _, sf := range parsed {
		if sf.Time < 0 || strings.TrimSpace(sf.Text) == "" {
			continue
		}
		out = append(out, sf)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// stripCodeFences removes a leading/trailing markdown code fence if the
// model wrapped its answer despite instructions.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop a language tag like ```json
		first := strings.TrimSpace(trimmed[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "{[") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
