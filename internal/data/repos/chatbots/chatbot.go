package chatbots

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// ErrRouteTaken is returned when an insert collides with an existing
// chatbot route. The unique index on route makes the claim atomic.
var ErrRouteTaken = errors.New("chatbot route already taken")

type ChatbotRepo interface {
	Create(dbc dbctx.Context, bot *domain.Chatbot) (*domain.Chatbot, error)
	GetByRoute(dbc dbctx.Context, route string) (*domain.Chatbot, error)
	ExistsByRoute(dbc dbctx.Context, route string) (bool, error)
	ListByUserID(dbc dbctx.Context, userID string) ([]*domain.Chatbot, error)
	UpdateByRoute(dbc dbctx.Context, route string, updates map[string]any) (*domain.Chatbot, error)
	DeleteByRoute(dbc dbctx.Context, route string) error
}

type chatbotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatbotRepo(db *gorm.DB, baseLog *logger.Logger) ChatbotRepo {
	repoLog := baseLog.With("repo", "ChatbotRepo")
	return &chatbotRepo{db: db, log: repoLog}
}

func (r *chatbotRepo) Create(dbc dbctx.Context, bot *domain.Chatbot) (*domain.Chatbot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(dbc.Ctx).Create(bot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRouteTaken
		}
		return nil, err
	}
	return bot, nil
}

func (r *chatbotRepo) GetByRoute(dbc dbctx.Context, route string) (*domain.Chatbot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var bot domain.Chatbot
	if err := transaction.WithContext(dbc.Ctx).
		Where("route = ?", route).
		First(&bot).Error; err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *chatbotRepo) ExistsByRoute(dbc dbctx.Context, route string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Chatbot{}).
		Where("route = ?", route).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *chatbotRepo) ListByUserID(dbc dbctx.Context, userID string) ([]*domain.Chatbot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Chatbot
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chatbotRepo) UpdateByRoute(dbc dbctx.Context, route string, updates map[string]any) (*domain.Chatbot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(updates) == 0 {
		return r.GetByRoute(dbc, route)
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&domain.Chatbot{}).
		Where("route = ?", route).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByRoute(dbc, route)
}

func (r *chatbotRepo) DeleteByRoute(dbc dbctx.Context, route string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Where("route = ?", route).
		Delete(&domain.Chatbot{}).Error
}
