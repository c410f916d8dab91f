package repository

import (
	"context"
	"errors"

	"tradedesk/internal/model"

	"gorm.io/gorm"
)

var ErrSiteConfigNotFound = errors.New("site config not found")

type SiteConfigRepository struct {
	db *gorm.DB
}

func NewSiteConfigRepository(db *gorm.DB) *SiteConfigRepository {
	return &SiteConfigRepository{db: db}
}

func (r *SiteConfigRepository) Get(ctx context.Context) (*model.SiteConfig, error) {
	var cfg model.SiteConfig
	err := r.db.WithContext(ctx).Where("id = ?", model.SiteConfigID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}
