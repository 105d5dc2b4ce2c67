package domain

import (
	"encoding/json"
	"strings"
)

// MimeCategory is the coarse file classification used to route an
// uploaded file through the pipeline.
type MimeCategory string

const (
	MimeImage    MimeCategory = "image"
	MimeVideo    MimeCategory = "video"
	MimeDocument MimeCategory = "document"
)

// ParseMimeCategory canonicalizes a caller-supplied file type. The
// dashboard client sends both singular and plural forms. Unknown
// values map to the empty category.
func ParseMimeCategory(raw string) MimeCategory {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "image", "images":
		return MimeImage
	case "video", "videos":
		return MimeVideo
	case "document", "documents":
		return MimeDocument
	default:
		return ""
	}
}

// UnmarshalJSON canonicalizes aliases at the decode boundary so a
// pre-enriched video tagged "videos" is still routed as a video.
func (m *MimeCategory) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if cat := ParseMimeCategory(raw); cat != "" {
		*m = cat
		return nil
	}
	*m = MimeCategory(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

// TranscriptSegment is one timestamped span of transcribed speech.
// Start offsets are truncated to whole seconds.
type TranscriptSegment struct {
	Start int    `json:"start"`
	Text  string `json:"text"`
}

// SceneFrame is one timestamped visual description produced by the
// vision step.
type SceneFrame struct {
	Time float64 `json:"time"`
	Text string  `json:"text"`
}

// ImageRef is a stored image attached to a property.
type ImageRef struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// VideoRef is a stored video attached to a property, carrying whatever
// enrichment succeeded. Both enrichment fields may be empty; the URL is
// always populated once the raw bytes are stored.
type VideoRef struct {
	URL                string              `json:"url"`
	Description        string              `json:"description,omitempty"`
	TranscriptSegments []TranscriptSegment `json:"transcript,omitempty"`
	SceneDescription   []SceneFrame        `json:"aiDescription,omitempty"`
}
