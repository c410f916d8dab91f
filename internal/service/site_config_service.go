package service

import (
	"context"

	"tradedesk/internal/model"
	"tradedesk/internal/repository"

	"gorm.io/gorm"
)

type SiteConfigService struct {
	siteConfigRepo *repository.SiteConfigRepository
}

func NewSiteConfigService(db *gorm.DB) *SiteConfigService {
	return &SiteConfigService{
		siteConfigRepo: repository.NewSiteConfigRepository(db),
	}
}

func (s *SiteConfigService) Get(ctx context.Context) (*model.SiteConfig, error) {
	return s.siteConfigRepo.Get(ctx)
}
