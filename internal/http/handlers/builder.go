package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sagar803/real-estate-dashboard/internal/data/repos"
	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/http/response"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

type BuilderHandler struct {
	log      *logger.Logger
	builders repos.BuilderRepo
}

func NewBuilderHandler(log *logger.Logger, builders repos.BuilderRepo) *BuilderHandler {
	return &BuilderHandler{
		log:      log.With("handler", "BuilderHandler"),
		builders: builders,
	}
}

type upsertBuilderRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Upsert records the builder account on first login and refreshes
// profile fields afterwards.
func (h *BuilderHandler) Upsert(c *gin.Context) {
	var req upsertBuilderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing required field: userId"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	builder, err := h.builders.Upsert(dbc, &domain.Builder{
		UserID: req.UserID,
		Email:  req.Email,
		Name:   req.Name,
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	response.RespondOK(c, builder)
}
