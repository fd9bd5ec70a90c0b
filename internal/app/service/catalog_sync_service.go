package service

import (
	"context"
	"errors"

	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/cms"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
)

var ErrCMSNotConfigured = errors.New("CMS client is not configured")

// SyncResult summarizes one catalog sync run.
type SyncResult struct {
	Upserted int   `json:"upserted"`
	Removed  int64 `json:"removed"`
}

// CatalogSyncService mirrors the CMS product collection into the database.
type CatalogSyncService interface {
	SyncCatalog(ctx context.Context) (*SyncResult, error)
}

type catalogSyncService struct {
	cmsClient   cms.Client
	productRepo repository.ProductRepository
}

func NewCatalogSyncService(cmsClient cms.Client, productRepo repository.ProductRepository) CatalogSyncService {
	return &catalogSyncService{
		cmsClient:   cmsClient,
		productRepo: productRepo,
	}
}

// SyncCatalog fetches the full product collection from the CMS, upserts every
// entry by slug and removes products no longer present in the feed. Upsert
// failures for individual products are logged and skipped so one bad entry
// does not abort the whole run; their slugs are still kept so the failure
// does not cascade into a deletion.
func (s *catalogSyncService) SyncCatalog(ctx context.Context) (*SyncResult, error) {
	if s.cmsClient == nil {
		return nil, ErrCMSNotConfigured
	}

	logger.Info("Starting catalog sync", nil)

	products, err := s.cmsClient.FetchProducts(ctx)
	if err != nil {
		logger.Error("Catalog sync failed to fetch CMS products", err)
		return nil, err
	}

	result := &SyncResult{}
	slugs := make([]string, 0, len(products))
	for i := range products {
		slugs = append(slugs, products[i].Slug)

		if err := s.productRepo.UpsertBySlug(&products[i]); err != nil {
			logger.Error("Failed to upsert product during catalog sync", err, map[string]interface{}{
				"slug": products[i].Slug,
			})
			continue
		}
		result.Upserted++
	}

	if len(products) > 0 {
		removed, err := s.productRepo.DeleteMissingSlugs(slugs)
		if err != nil {
			return result, err
		}
		result.Removed = removed
	} else {
		// An empty feed is far more likely a CMS hiccup than a cleared
		// catalog; keep what we have.
		logger.Warn("CMS returned an empty product feed, skipping stale cleanup", nil)
	}

	logger.Info("Catalog sync completed", map[string]interface{}{
		"upserted": result.Upserted,
		"removed":  result.Removed,
	})
	return result, nil
}
