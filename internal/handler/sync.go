package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"duomate/internal/sync"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The change feed carries no per-user data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SyncHandler upgrades clients onto the change feed.
type SyncHandler struct {
	hub    *sync.Hub
	logger *slog.Logger
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(hub *sync.Hub, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{hub: hub, logger: logger}
}

// Subscribe handles GET /v1/sync/ws
func (h *SyncHandler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("sync upgrade failed", "err", err)
		return
	}

	client := sync.NewClient(uuid.New().String(), conn)
	h.hub.Add(client)

	go client.WritePump(h.logger)
	go client.ReadPump(func() {
		h.hub.Remove(client.ID)
	})
}
