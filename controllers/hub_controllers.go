package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-reservation/hub"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

type HubController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewHubController accepts upgrades only from allowedOrigin. An empty
// origin or "*" allows any.
func NewHubController(h *hub.Hub, allowedOrigin string) *HubController {
	return &HubController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return strings.EqualFold(origin, allowedOrigin)
			},
		},
	}
}

// Connect -> endpoint WebSocket untuk layar staff
func (hc *HubController) Connect(c *gin.Context) {
	role := c.GetString(middlewares.ContextRole)
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := hc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	hc.Hub.Register(ws, role)
	defer hc.Hub.Unregister(ws)

	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Baca pesan sampai client disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
