package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
)

func TestEnrichMergesBothChains(t *testing.T) {
	store := &fakeMediaStore{}
	e := NewVideoEnricher(
		store,
		&fakeExtractor{},
		&fakeTranscriber{segments: []domain.TranscriptSegment{{Start: 0, Text: "welcome"}}},
		&fakeSampler{frames: []SampledFrame{{ImageBytes: []byte("f")}}, interval: 4},
		&fakeDescriber{scenes: []domain.SceneFrame{{Time: 0, Text: "facade"}}},
		testLogger(t),
	)

	ref, err := e.Enrich(context.Background(), FileUploadItem{
		Filename:     "tour.mp4",
		RawBytes:     []byte("video"),
		MimeCategory: domain.MimeVideo,
		Description:  "walkthrough",
	})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if ref.URL == "" {
		t.Fatalf("expected stored URL")
	}
	if ref.Description != "walkthrough" {
		t.Fatalf("description not carried: %q", ref.Description)
	}
	if len(ref.TranscriptSegments) != 1 || ref.TranscriptSegments[0].Text != "welcome" {
		t.Fatalf("transcript not merged: %+v", ref.TranscriptSegments)
	}
	if len(ref.SceneDescription) != 1 || ref.SceneDescription[0].Text != "facade" {
		t.Fatalf("scene description not merged: %+v", ref.SceneDescription)
	}
}

func TestEnrichKeepsURLWhenBothChainsFail(t *testing.T) {
	e := NewVideoEnricher(
		&fakeMediaStore{},
		&fakeExtractor{fail: true},
		&fakeTranscriber{},
		&fakeSampler{fail: true},
		&fakeDescriber{},
		testLogger(t),
	)

	ref, err := e.Enrich(context.Background(), FileUploadItem{
		Filename: "broken.mp4",
		RawBytes: []byte("video"),
	})
	if err != nil {
		t.Fatalf("enrich should not fail when sub-chains fail: %v", err)
	}
	if ref.URL == "" {
		t.Fatalf("expected populated URL despite failed enrichment")
	}
	if len(ref.TranscriptSegments) != 0 || len(ref.SceneDescription) != 0 {
		t.Fatalf("expected empty enrichment fields, got %+v", ref)
	}
}

func TestEnrichFailsOnStorage(t *testing.T) {
	e := NewVideoEnricher(
		&fakeMediaStore{fail: true},
		&fakeExtractor{},
		&fakeTranscriber{},
		&fakeSampler{},
		&fakeDescriber{},
		testLogger(t),
	)

	_, err := e.Enrich(context.Background(), FileUploadItem{Filename: "x.mp4", RawBytes: []byte("v")})
	var sErr *StorageError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}
