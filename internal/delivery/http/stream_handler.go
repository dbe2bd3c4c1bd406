package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"mastersol/internal/delivery/http/dto"
	"mastersol/internal/middleware"
	"mastersol/internal/usecase"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler pushes dashboard snapshots over a WebSocket
type StreamHandler struct {
	dashboard *usecase.DashboardService
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(dashboard *usecase.DashboardService) *StreamHandler {
	return &StreamHandler{dashboard: dashboard}
}

// Stream sends the current snapshot, then a fresh one after every change
// GET /api/stream
func (h *StreamHandler) Stream(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	sess, err := h.dashboard.Session(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Warn().Err(err).Str("session_id", id).Msg("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	updates, cancel := sess.Subscribe()
	defer cancel()

	// Reader: only control frames are expected; exits when the client goes away
	done := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	closeNormal := func(reason string) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
			time.Now().Add(streamWriteWait))
	}

	send := func() bool {
		snap, err := sess.Snapshot()
		if err != nil {
			closeNormal("session closed")
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(dto.NewSnapshotOutput(snap)); err != nil {
			return false
		}
		sess.Touch()
		return true
	}

	if !send() {
		return nil
	}

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-updates:
			if !ok {
				// Session closed by logout or sweep
				closeNormal("session closed")
				return nil
			}
			if !send() {
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}
