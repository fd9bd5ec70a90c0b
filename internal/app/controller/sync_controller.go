package controller

import (
	"errors"
	"net/http"

	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	apperrors "github.com/dsaidov/mebelplaza-backend/internal/errors"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	ws "github.com/dsaidov/mebelplaza-backend/internal/websocket"
	"github.com/gin-gonic/gin"
)

type SyncController struct {
	syncService service.CatalogSyncService
	hub         *ws.Hub
}

func NewSyncController(syncService service.CatalogSyncService, hub *ws.Hub) *SyncController {
	return &SyncController{
		syncService: syncService,
		hub:         hub,
	}
}

// TriggerSync runs a catalog sync outside the cron schedule. Admin only.
// POST /api/v1/admin/catalog/sync
func (ctrl *SyncController) TriggerSync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.syncService.SyncCatalog(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCMSNotConfigured) {
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalExternalAPI, "Синхронизация каталога не настроена")
			return
		}
		log.Error("Manual catalog sync failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "sync catalog")
		return
	}

	if ctrl.hub != nil && (result.Upserted > 0 || result.Removed > 0) {
		ctrl.hub.Broadcast(ws.EventCatalogUpdated, map[string]interface{}{
			"upserted": result.Upserted,
			"removed":  result.Removed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog sync completed",
		"result":  result,
	})
}
