package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	ws "github.com/dsaidov/mebelplaza-backend/internal/websocket"
)

type EventsController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewEventsController shares the CORS origin whitelist with the HTTP
// middleware so both surfaces accept the same storefronts.
func NewEventsController(hub *ws.Hub, allowedOrigins []string) *EventsController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &EventsController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Subscribe upgrades the connection and streams catalog events to the
// storefront.
// GET /api/v1/events
func (ctrl *EventsController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:       ctrl.hub,
		Conn:      &ws.Conn{Conn: conn},
		SessionID: middleware.GetSessionID(c),
		Send:      make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
