package properties

import (
	"gorm.io/gorm"

	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

type PropertyRepo interface {
	CreateBatch(dbc dbctx.Context, records []*domain.Property) ([]*domain.Property, error)
	GetByRoute(dbc dbctx.Context, route string) ([]*domain.Property, error)
	CountByRoute(dbc dbctx.Context, route string) (int64, error)
	DeleteByRoute(dbc dbctx.Context, route string) error
}

type propertyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	repoLog := baseLog.With("repo", "PropertyRepo")
	return &propertyRepo{db: db, log: repoLog}
}

func (r *propertyRepo) CreateBatch(dbc dbctx.Context, records []*domain.Property) ([]*domain.Property, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*domain.Property{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *propertyRepo) GetByRoute(dbc dbctx.Context, route string) ([]*domain.Property, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Property
	if err := transaction.WithContext(dbc.Ctx).
		Where("route = ?", route).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *propertyRepo) CountByRoute(dbc dbctx.Context, route string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Property{}).
		Where("route = ?", route).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *propertyRepo) DeleteByRoute(dbc dbctx.Context, route string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Where("route = ?", route).
		Delete(&domain.Property{}).Error
}
