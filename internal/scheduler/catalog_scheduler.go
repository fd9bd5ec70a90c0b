package scheduler

import (
	"context"
	"time"

	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	"github.com/dsaidov/mebelplaza-backend/internal/websocket"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CatalogScheduler re-syncs the catalog from the CMS on a cron schedule and
// notifies connected storefronts when the sync changed anything.
type CatalogScheduler struct {
	cron     *cron.Cron
	syncSvc  service.CatalogSyncService
	hub      *websocket.Hub
	schedule string
}

func NewCatalogScheduler(syncSvc service.CatalogSyncService, hub *websocket.Hub, schedule string) *CatalogScheduler {
	return &CatalogScheduler{
		cron:     cron.New(),
		syncSvc:  syncSvc,
		hub:      hub,
		schedule: schedule,
	}
}

func (s *CatalogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.runSync)
	if err != nil {
		logger.Error("Failed to add cron job for catalog sync", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *CatalogScheduler) Stop() {
	logger.Info("Stopping catalog scheduler...", nil)
	s.cron.Stop()
	logger.Info("Catalog scheduler stopped", nil)
}

// RunNow triggers an immediate sync outside the cron schedule. Used at
// startup so a fresh deployment does not serve an empty catalog until the
// first tick.
func (s *CatalogScheduler) RunNow() {
	s.runSync()
}

func (s *CatalogScheduler) runSync() {
	logger.Info("Starting scheduled catalog sync", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.syncSvc.SyncCatalog(ctx)
	if err != nil {
		logger.Error("Scheduled catalog sync failed", err)
		return
	}

	if s.hub != nil && (result.Upserted > 0 || result.Removed > 0) {
		s.hub.Broadcast(websocket.EventCatalogUpdated, map[string]interface{}{
			"upserted": result.Upserted,
			"removed":  result.Removed,
		})
	}

	logger.Info("Scheduled catalog sync completed", map[string]interface{}{
		"upserted": result.Upserted,
		"removed":  result.Removed,
	})
}
