package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sagar803/real-estate-dashboard/internal/data/repos"
	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/ingest"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

type memMediaStore struct {
	mu   sync.Mutex
	puts int
}

func (s *memMediaStore) Put(_ context.Context, filename string, _ []byte, category domain.MimeCategory) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	return fmt.Sprintf("https://cdn.test/%s/%d-%s", category, s.puts, filename), nil
}

type noEnrichEnricher struct {
	store ingest.MediaStore
}

func (e *noEnrichEnricher) Enrich(ctx context.Context, f ingest.FileUploadItem) (domain.VideoRef, error) {
	url, err := e.store.Put(ctx, f.Filename, f.RawBytes, domain.MimeVideo)
	if err != nil {
		return domain.VideoRef{}, err
	}
	return domain.VideoRef{URL: url, Description: f.Description}, nil
}

type passthroughRepair struct{}

func (passthroughRepair) GenerateJSON(context.Context, string, string, string, map[string]any) (map[string]any, error) {
	return nil, errors.New("repair unavailable")
}

type memChatbotRepo struct {
	mu     sync.Mutex
	routes map[string]*domain.Chatbot
}

func (r *memChatbotRepo) Create(_ dbctx.Context, bot *domain.Chatbot) (*domain.Chatbot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.routes == nil {
		r.routes = map[string]*domain.Chatbot{}
	}
	if _, ok := r.routes[bot.Route]; ok {
		return nil, repos.ErrRouteTaken
	}
	r.routes[bot.Route] = bot
	return bot, nil
}

func (r *memChatbotRepo) GetByRoute(_ dbctx.Context, route string) (*domain.Chatbot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bot, ok := r.routes[route]
	if !ok {
		return nil, errors.New("not found")
	}
	return bot, nil
}

func (r *memChatbotRepo) ExistsByRoute(_ dbctx.Context, route string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.routes[route]
	return ok, nil
}

func (r *memChatbotRepo) ListByUserID(dbctx.Context, string) ([]*domain.Chatbot, error) {
	return nil, nil
}

func (r *memChatbotRepo) UpdateByRoute(dbctx.Context, string, map[string]any) (*domain.Chatbot, error) {
	return nil, errors.New("not implemented")
}

func (r *memChatbotRepo) DeleteByRoute(dbctx.Context, string) error {
	return errors.New("not implemented")
}

type memPropertyRepo struct {
	mu       sync.Mutex
	inserted []*domain.Property
}

func (r *memPropertyRepo) CreateBatch(_ dbctx.Context, records []*domain.Property) ([]*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, records...)
	return records, nil
}

func (r *memPropertyRepo) GetByRoute(dbctx.Context, string) ([]*domain.Property, error) {
	return nil, nil
}

func (r *memPropertyRepo) CountByRoute(dbctx.Context, string) (int64, error) { return 0, nil }
func (r *memPropertyRepo) DeleteByRoute(dbctx.Context, string) error         { return nil }

func newUploadRouter(t *testing.T, props *memPropertyRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := &memMediaStore{}
	assembler := ingest.NewRecordAssembler(
		store,
		&noEnrichEnricher{store: store},
		ingest.NewFieldNormalizer(passthroughRepair{}, log),
		log,
	)
	pipeline := ingest.NewPipeline(assembler, &memChatbotRepo{}, props, nil, log)

	r := gin.New()
	r.POST("/api/upload/data", NewUploadHandler(log, pipeline).Upload)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if csv != "" {
		fw, err := mw.CreateFormFile("file", "listings.csv")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := fw.Write([]byte(csv)); err != nil {
			t.Fatalf("write csv: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

const uploadCSV = "meta,ratings,features\n" +
	`"{""name"":""Unit A""}","{""loc"":""5""}","[""pool""]"` + "\n"

func TestUploadSuccess(t *testing.T) {
	props := &memPropertyRepo{}
	router := newUploadRouter(t, props)

	body, contentType := multipartBody(t, map[string]string{
		"userId":            "user-1",
		"routeName":         "Sunrise",
		"systemInstruction": "Be helpful.",
		"appName":           "Sunrise Homes",
		"bgColor":           "rgba(1,2,3,1)",
	}, uploadCSV)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/data", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
		Route   string `json:"route"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Upload successful" || resp.Count != 1 || resp.Route != "sunrise" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(props.inserted) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(props.inserted))
	}
}

func TestUploadMissingSystemInstruction(t *testing.T) {
	router := newUploadRouter(t, &memPropertyRepo{})

	body, contentType := multipartBody(t, map[string]string{
		"userId":    "user-1",
		"routeName": "sunrise",
	}, uploadCSV)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/data", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadMissingCSV(t *testing.T) {
	router := newUploadRouter(t, &memPropertyRepo{})

	body, contentType := multipartBody(t, map[string]string{
		"userId":            "user-1",
		"routeName":         "sunrise",
		"systemInstruction": "Be helpful.",
	}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/upload/data", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCategoryFromContentType(t *testing.T) {
	cases := []struct {
		in   string
		want domain.MimeCategory
	}{
		{"video/mp4", domain.MimeVideo},
		{"image/jpeg", domain.MimeImage},
		{"application/pdf", domain.MimeDocument},
		{"", domain.MimeDocument},
	}
	for _, tc := range cases {
		if got := categoryFromContentType(tc.in); got != tc.want {
			t.Errorf("categoryFromContentType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseCategoryAcceptsPluralForms(t *testing.T) {
	cases := []struct {
		in   string
		want domain.MimeCategory
	}{
		{"video", domain.MimeVideo},
		{"videos", domain.MimeVideo},
		{"images", domain.MimeImage},
		{"documents", domain.MimeDocument},
		{"spreadsheet", ""},
	}
	for _, tc := range cases {
		if got := parseCategory(tc.in); got != tc.want {
			t.Errorf("parseCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
