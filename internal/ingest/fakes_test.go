package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sagar803/real-estate-dashboard/internal/data/repos"
	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

type fakeMediaStore struct {
	mu    sync.Mutex
	puts  int
	fail  bool
	calls []string
}

func (s *fakeMediaStore) Put(_ context.Context, filename string, _ []byte, category domain.MimeCategory) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", &StorageError{Key: filename, Err: errors.New("bucket unavailable")}
	}
	s.puts++
	s.calls = append(s.calls, filename)
	return fmt.Sprintf("https://cdn.example.com/%s/%d-%s", category, s.puts, filename), nil
}

type fakeExtractor struct {
	fail  bool
	audio []byte
}

func (e *fakeExtractor) ExtractAudio(context.Context, []byte) ([]byte, error) {
	if e.fail {
		return nil, &TranscodeError{Err: errors.New("unsupported codec")}
	}
	if e.audio == nil {
		return []byte("wav"), nil
	}
	return e.audio, nil
}

type fakeTranscriber struct {
	fail     bool
	segments []domain.TranscriptSegment
}

func (t *fakeTranscriber) Transcribe(context.Context, []byte) ([]domain.TranscriptSegment, error) {
	if t.fail {
		return nil, &TranscriptionError{Err: errors.New("provider error")}
	}
	return t.segments, nil
}

type fakeSampler struct {
	fail     bool
	frames   []SampledFrame
	interval int
}

func (s *fakeSampler) Sample(context.Context, []byte) ([]SampledFrame, int, error) {
	if s.fail {
		return nil, 0, &FrameExtractionError{Err: errors.New("undecodable")}
	}
	return s.frames, s.interval, nil
}

type fakeDescriber struct {
	fail   bool
	scenes []domain.SceneFrame
}

func (d *fakeDescriber) Describe(context.Context, []SampledFrame, int) ([]domain.SceneFrame, error) {
	if d.fail {
		return nil, &DescriptionParseError{Err: errors.New("not json")}
	}
	return d.scenes, nil
}

// fakeRepair answers every repair call with a fixed value and counts
// invocations so tests can assert the repair path was (not) taken.
type fakeRepair struct {
	calls  atomic.Int64
	fail   bool
	result map[string]any
}

func (r *fakeRepair) GenerateJSON(context.Context, string, string, string, map[string]any) (map[string]any, error) {
	r.calls.Add(1)
	if r.fail {
		return nil, errors.New("repair provider down")
	}
	return r.result, nil
}

type fakeChatbotRepo struct {
	mu      sync.Mutex
	created []*domain.Chatbot
	routes  map[string]bool
	failAll bool
}

func (r *fakeChatbotRepo) Create(_ dbctx.Context, bot *domain.Chatbot) (*domain.Chatbot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("db down")
	}
	if r.routes == nil {
		r.routes = map[string]bool{}
	}
	if r.routes[bot.Route] {
		return nil, repos.ErrRouteTaken
	}
	r.routes[bot.Route] = true
	r.created = append(r.created, bot)
	return bot, nil
}

func (r *fakeChatbotRepo) GetByRoute(dbctx.Context, string) (*domain.Chatbot, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeChatbotRepo) ExistsByRoute(_ dbctx.Context, route string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.routes[route], nil
}

func (r *fakeChatbotRepo) ListByUserID(dbctx.Context, string) ([]*domain.Chatbot, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeChatbotRepo) UpdateByRoute(dbctx.Context, string, map[string]any) (*domain.Chatbot, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeChatbotRepo) DeleteByRoute(dbctx.Context, string) error {
	return errors.New("not implemented")
}

type fakePropertyRepo struct {
	mu       sync.Mutex
	inserted []*domain.Property
	failAll  bool
}

func (r *fakePropertyRepo) CreateBatch(_ dbctx.Context, records []*domain.Property) ([]*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("db down")
	}
	r.inserted = append(r.inserted, records...)
	return records, nil
}

func (r *fakePropertyRepo) GetByRoute(dbctx.Context, string) ([]*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inserted, nil
}

func (r *fakePropertyRepo) CountByRoute(dbctx.Context, string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.inserted)), nil
}

func (r *fakePropertyRepo) DeleteByRoute(dbctx.Context, string) error {
	return errors.New("not implemented")
}
