package ingest

import (
	"github.com/sagar803/real-estate-dashboard/internal/domain"
)

// FileUploadItem is one raw file attached to an ingestion request.
// PropertyIndex is 1-based and ties the file to a CSV row.
type FileUploadItem struct {
	Filename      string
	RawBytes      []byte
	MimeCategory  domain.MimeCategory
	Description   string
	PropertyIndex int
}

// PreUploadedFile is metadata for a file the caller already pushed to
// the media store: only the URL travels with the request. Enrichment
// fields may be pre-populated by the caller and are passed through.
type PreUploadedFile struct {
	URL           string                     `json:"url"`
	Description   string                     `json:"description"`
	PropertyIndex int                        `json:"propertyIndex"`
	FileType      domain.MimeCategory        `json:"fileType"`
	AIDescription []domain.SceneFrame        `json:"aiDescription,omitempty"`
	Transcript    []domain.TranscriptSegment `json:"transcript,omitempty"`
}

// Appearance is the branding carried onto the chatbot configuration.
type Appearance struct {
	AppName         string
	BackgroundColor string
}

// UploadManifest is everything one ingestion run consumes. Built once
// per request and never mutated.
type UploadManifest struct {
	BuilderUserID     string
	RouteName         string
	SystemInstruction string
	Appearance        Appearance
	CSVBytes          []byte
	Files             []FileUploadItem
	PreUploaded       []PreUploadedFile
}

// rowFiles is the per-row partition of uploaded media, keyed off the
// zero-based CSV row index.
type rowFiles struct {
	raw         []FileUploadItem
	preUploaded []PreUploadedFile
}

// groupFilesByRow buckets files by propertyIndex-1 so row i of the CSV
// picks up the files tagged with propertyIndex i+1.
func groupFilesByRow(m *UploadManifest) map[int]*rowFiles {
	grouped := make(map[int]*rowFiles)

	bucket := func(idx int) *rowFiles {
		row := idx - 1
		if grouped[row] == nil {
			grouped[row] = &rowFiles{}
		}
		return grouped[row]
	}

	for _, f := range m.Files {
		if f.PropertyIndex < 1 {
			continue
		}
		b := bucket(f.PropertyIndex)
		b.raw = append(b.raw, f)
	}
	for _, f := range m.PreUploaded {
		if f.PropertyIndex < 1 {
			continue
		}
		b := bucket(f.PropertyIndex)
		b.preUploaded = append(b.preUploaded, f)
	}
	return grouped
}
