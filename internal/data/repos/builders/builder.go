package builders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

type BuilderRepo interface {
	Upsert(dbc dbctx.Context, builder *domain.Builder) (*domain.Builder, error)
	GetByUserID(dbc dbctx.Context, userID string) (*domain.Builder, error)
}

type builderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBuilderRepo(db *gorm.DB, baseLog *logger.Logger) BuilderRepo {
	repoLog := baseLog.With("repo", "BuilderRepo")
	return &builderRepo{db: db, log: repoLog}
}

// Upsert inserts a builder row or refreshes email/name for an existing
// user_id.
func (r *builderRepo) Upsert(dbc dbctx.Context, builder *domain.Builder) (*domain.Builder, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
		}).
		Create(builder).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, builder.UserID)
}

func (r *builderRepo) GetByUserID(dbc dbctx.Context, userID string) (*domain.Builder, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var builder domain.Builder
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&builder).Error; err != nil {
		return nil, err
	}
	return &builder, nil
}
