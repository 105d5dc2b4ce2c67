package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sagar803/real-estate-dashboard/internal/data/repos"
	"github.com/sagar803/real-estate-dashboard/internal/http/response"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

type ChatbotHandler struct {
	log      *logger.Logger
	chatbots repos.ChatbotRepo
	props    repos.PropertyRepo
}

func NewChatbotHandler(log *logger.Logger, chatbots repos.ChatbotRepo, props repos.PropertyRepo) *ChatbotHandler {
	return &ChatbotHandler{
		log:      log.With("handler", "ChatbotHandler"),
		chatbots: chatbots,
		props:    props,
	}
}

// GetSettings returns the configuration for one route.
func (h *ChatbotHandler) GetSettings(c *gin.Context) {
	route := strings.ToLower(strings.TrimSpace(c.Query("route")))
	if route == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing required query param: route"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	bot, err := h.chatbots.GetByRoute(dbc, route)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, errors.New("chatbot not found"))
			return
		}
		response.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	response.RespondOK(c, bot)
}

type updateSettingsRequest struct {
	ChatbotInstruction *string `json:"chatbotInstruction"`
	AppName            *string `json:"appName"`
	BackgroundColor    *string `json:"bgColor"`
}

// UpdateSettings patches instruction/branding for an existing route.
func (h *ChatbotHandler) UpdateSettings(c *gin.Context) {
	route := strings.ToLower(strings.TrimSpace(c.Query("route")))
	if route == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing required query param: route"))
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]any{}
	if req.ChatbotInstruction != nil {
		updates["chatbot_instruction"] = *req.ChatbotInstruction
	}
	if req.AppName != nil {
		updates["app_name"] = *req.AppName
	}
	if req.BackgroundColor != nil {
		updates["background_color"] = *req.BackgroundColor
	}
	if len(updates) == 0 {
		response.RespondError(c, http.StatusBadRequest, errors.New("no updatable fields in payload"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	bot, err := h.chatbots.UpdateByRoute(dbc, route, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, errors.New("chatbot not found"))
			return
		}
		response.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	response.RespondOK(c, bot)
}

// ListByUser returns every chatbot owned by a builder account.
func (h *ChatbotHandler) ListByUser(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing required query param: userId"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	bots, err := h.chatbots.ListByUserID(dbc, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	response.RespondOK(c, gin.H{"chatbots": bots})
}

// GetProperties returns the ingested records backing one route's bot.
func (h *ChatbotHandler) GetProperties(c *gin.Context) {
	route := strings.ToLower(strings.TrimSpace(c.Query("route")))
	if route == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing required query param: route"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	records, err := h.props.GetByRoute(dbc, route)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	response.RespondOK(c, gin.H{"properties": records})
}
