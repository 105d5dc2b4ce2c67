package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// RecordAssembler turns one CSV row plus that row's files into a
// persisted-ready property record.
type RecordAssembler struct {
	store      MediaStore
	enricher   VideoEnricher
	normalizer *FieldNormalizer
	log        *logger.Logger
}

func NewRecordAssembler(
	store MediaStore,
	enricher VideoEnricher,
	normalizer *FieldNormalizer,
	baseLog *logger.Logger,
) *RecordAssembler {
	return &RecordAssembler{
		store:      store,
		enricher:   enricher,
		normalizer: normalizer,
		log:        baseLog.With("service", "RecordAssembler"),
	}
}

// Assemble returns the record for one row, or an error when the row
// must be dropped. Dropped rows never abort the batch; the caller logs
// and moves on.
func (a *RecordAssembler) Assemble(ctx context.Context, row csvRow, files *rowFiles, routeName string) (*domain.Property, error) {
	for _, required := range []string{"meta", "ratings", "features"} {
		if !row.has(required) {
			return nil, &ValidationError{Msg: fmt.Sprintf("row missing required column %q", required)}
		}
	}

	meta, err := a.normalizer.Normalize(ctx, "meta", row.get("meta"), ShapeStringMap)
	if err != nil {
		return nil, err
	}
	ratings, err := a.normalizer.Normalize(ctx, "ratings", row.get("ratings"), ShapeStringMap)
	if err != nil {
		return nil, err
	}
	features, err := a.normalizer.Normalize(ctx, "features", row.get("features"), ShapeStringArray)
	if err != nil {
		return nil, err
	}

	// Media embedded in the CSV row comes first; uploads are appended
	// after it, never replacing it.
	images := parseEmbeddedImages(row.get("images"))
	videos := parseEmbeddedVideos(row.get("videos"))

	if files != nil {
		for _, f := range files.raw {
			switch f.MimeCategory {
			case domain.MimeVideo:
				ref, err := a.enricher.Enrich(ctx, f)
				if err != nil {
					return nil, err
				}
				videos = append(videos, ref)
			default:
				url, err := a.store.Put(ctx, f.Filename, f.RawBytes, f.MimeCategory)
				if err != nil {
					return nil, err
				}
				images = append(images, domain.ImageRef{URL: url, Description: f.Description})
			}
		}

		for _, f := range files.preUploaded {
			switch f.FileType {
			case domain.MimeVideo:
				videos = append(videos, domain.VideoRef{
					URL:                f.URL,
					Description:        f.Description,
					TranscriptSegments: f.Transcript,
					SceneDescription:   f.AIDescription,
				})
			default:
				images = append(images, domain.ImageRef{URL: f.URL, Description: f.Description})
			}
		}
	}

	record := &domain.Property{
		Route:    routeName,
		Meta:     mustMarshalJSON(meta.StringMap),
		Ratings:  mustMarshalJSON(ratings.StringMap),
		Features: mustMarshalJSON(features.StringArray),
	}
	if link := row.get("link"); link != "" {
		record.Link = &link
	}
	if len(images) > 0 {
		record.Images = mustMarshalJSON(images)
	}
	if len(videos) > 0 {
		record.Videos = mustMarshalJSON(videos)
	}
	return record, nil
}

// parseEmbeddedImages reads a pre-existing images column: either an
// array of {url, description} objects or an array of URL strings.
func parseEmbeddedImages(raw string) []domain.ImageRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var refs []domain.ImageRef
	if err := json.Unmarshal([]byte(raw), &refs); err == nil {
		return refs
	}

	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err == nil {
		refs = make([]domain.ImageRef, 0, len(urls))
		for _, u := range urls {
			if strings.TrimSpace(u) == "" {
				continue
			}
			refs = append(refs, domain.ImageRef{URL: u})
		}
		return refs
	}
	return nil
}

func parseEmbeddedVideos(raw string) []domain.VideoRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var refs []domain.VideoRef
	if err := json.Unmarshal([]byte(raw), &refs); err == nil {
		return refs
	}

	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err == nil {
		refs = make([]domain.VideoRef, 0, len(urls))
		for _, u := range urls {
			if strings.TrimSpace(u) == "" {
				continue
			}
			refs = append(refs, domain.VideoRef{URL: u})
		}
		return refs
	}
	return nil
}

func mustMarshalJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		// Only reachable with unmarshalable values, which the
		// normalized types cannot produce.
		panic(err)
	}
	return datatypes.JSON(raw)
}
