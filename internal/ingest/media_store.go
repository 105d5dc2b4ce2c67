package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/gcs"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// MediaStore persists raw upload bytes and hands back a public URL.
type MediaStore interface {
	Put(ctx context.Context, filename string, data []byte, category domain.MimeCategory) (string, error)
}

type bucketMediaStore struct {
	bucket gcs.BucketService
	log    *logger.Logger
}

func NewBucketMediaStore(bucket gcs.BucketService, baseLog *logger.Logger) MediaStore {
	return &bucketMediaStore{
		bucket: bucket,
		log:    baseLog.With("service", "MediaStore"),
	}
}

// Put writes under uploads/<category>/<uuid>-<filename>. The fresh id
// keeps two uploads of identical bytes at distinct URLs.
func (s *bucketMediaStore) Put(ctx context.Context, filename string, data []byte, category domain.MimeCategory) (string, error) {
	name := sanitizeFilename(filename)
	key := fmt.Sprintf("uploads/%s/%s-%s", category, uuid.New().String(), name)

	url, err := s.bucket.UploadFile(ctx, key, data, "")
	if err != nil {
		return "", &StorageError{Key: key, Err: err}
	}
	return url, nil
}

func sanitizeFilename(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "file"
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	return name
}
