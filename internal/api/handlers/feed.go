package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/pkg/logger"
)

const (
	// Ping/Pong settings
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// FeedHandler streams snapshot swap events over WebSocket
// ⭐ SSOT: 스냅샷 갱신 알림 WebSocket은 여기서만
type FeedHandler struct {
	store    *s0_data.Store
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(store *s0_data.Store, log *logger.Logger) *FeedHandler {
	return &FeedHandler{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// ServeSnapshotFeed sends the current generation, then one event per swap
// GET /ws/snapshot
func (h *FeedHandler) ServeSnapshotFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.store.Subscribe()
	defer cancel()

	// 클라이언트 종료 감지용 read loop
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if snap := h.store.Current(); snap != nil {
		initial := s0_data.SnapshotEvent{
			Generation:  snap.Generation,
			RecordCount: snap.Len(),
			Source:      snap.Source,
			LoadedAt:    snap.LoadedAt,
		}
		if err := h.write(conn, initial); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, event); err != nil {
				h.logger.WithError(err).Debug("Snapshot feed write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *FeedHandler) write(conn *websocket.Conn, event s0_data.SnapshotEvent) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(event)
}
