package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/http/response"
	"github.com/sagar803/real-estate-dashboard/internal/ingest"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

const maxUploadBytes = 256 << 20

// fileMeta is the per-file metadata array the dashboard sends alongside
// the raw "files" parts, aligned by position.
type fileMeta struct {
	Description   string `json:"description"`
	PropertyIndex int    `json:"propertyIndex"`
	FileType      string `json:"fileType"`
}

type UploadHandler struct {
	log      *logger.Logger
	pipeline *ingest.Pipeline
}

func NewUploadHandler(log *logger.Logger, pipeline *ingest.Pipeline) *UploadHandler {
	return &UploadHandler{
		log:      log.With("handler", "UploadHandler"),
		pipeline: pipeline,
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		response.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	manifest, err := h.buildManifest(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), manifest)
	if err != nil {
		var vErr *ingest.ValidationError
		if errors.As(err, &vErr) {
			response.RespondError(c, http.StatusBadRequest, err)
			return
		}
		h.log.Error("Ingestion run failed", "route", manifest.RouteName, "error", err.Error())
		response.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	response.RespondOK(c, gin.H{
		"message": "Upload successful",
		"count":   result.InsertedCount,
		"route":   result.Route,
	})
}

func (h *UploadHandler) buildManifest(c *gin.Context) (*ingest.UploadManifest, error) {
	manifest := &ingest.UploadManifest{
		BuilderUserID:     c.PostForm("userId"),
		RouteName:         c.PostForm("routeName"),
		SystemInstruction: c.PostForm("systemInstruction"),
		Appearance: ingest.Appearance{
			AppName:         c.PostForm("appName"),
			BackgroundColor: c.PostForm("bgColor"),
		},
	}

	if fh, err := c.FormFile("file"); err == nil {
		csvBytes, err := readMultipartFile(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		manifest.CSVBytes = csvBytes
	}

	if raw := strings.TrimSpace(c.PostForm("uploadedFiles")); raw != "" {
		var pre []ingest.PreUploadedFile
		if err := json.Unmarshal([]byte(raw), &pre); err != nil {
			return nil, fmt.Errorf("invalid uploadedFiles payload: %w", err)
		}
		manifest.PreUploaded = pre
	}

	form := c.Request.MultipartForm
	if form == nil {
		return manifest, nil
	}

	var metas []fileMeta
	if raw := strings.TrimSpace(c.PostForm("filesMeta")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metas); err != nil {
			return nil, fmt.Errorf("invalid filesMeta payload: %w", err)
		}
	}

	for i, fh := range form.File["files"] {
		data, err := readMultipartFile(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %q: %w", fh.Filename, err)
		}

		item := ingest.FileUploadItem{
			Filename:      fh.Filename,
			RawBytes:      data,
			MimeCategory:  categoryFromContentType(fh.Header.Get("Content-Type")),
			PropertyIndex: 1,
		}
		if i < len(metas) {
			item.Description = metas[i].Description
			if metas[i].PropertyIndex > 0 {
				item.PropertyIndex = metas[i].PropertyIndex
			}
			if cat := parseCategory(metas[i].FileType); cat != "" {
				item.MimeCategory = cat
			}
		}
		manifest.Files = append(manifest.Files, item)
	}

	return manifest, nil
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func categoryFromContentType(contentType string) domain.MimeCategory {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return domain.MimeVideo
	case strings.HasPrefix(contentType, "image/"):
		return domain.MimeImage
	default:
		return domain.MimeDocument
	}
}

func parseCategory(raw string) domain.MimeCategory {
	return domain.ParseMimeCategory(raw)
}
