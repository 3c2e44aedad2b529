package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"crystalos/internal/adapter/http/mapper"
	"crystalos/internal/adapter/http/middleware"
	"crystalos/internal/core/domain"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// StreamHandler pushes the dashboard state over a websocket every time it
// changes. Slow clients only ever receive the latest state.
type StreamHandler struct {
	upgrader websocket.Upgrader
}

func NewStreamHandler(checkOrigin func(r *http.Request) bool) *StreamHandler {
	return &StreamHandler{upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     checkOrigin,
	}}
}

func (h *StreamHandler) Stream(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already answered the client
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := zap.L()
	if session, ok := middleware.GetSession(c); ok {
		logger = logger.With(zap.String("user_id", session.User.ID))
	}

	updates := make(chan domain.DashboardState, 1)
	stop := dashboard.Watch(func(state domain.DashboardState) {
		for {
			select {
			case updates <- state:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer stop()

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	if err := writeState(conn, dashboard.State()); err != nil {
		logger.Debug("stream closed before first state", zap.Error(err))
		return
	}
	logger.Info("stream opened")

	for {
		select {
		case state := <-updates:
			if err := writeState(conn, state); err != nil {
				logger.Debug("stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("stream ping failed", zap.Error(err))
				return
			}
		case <-closed:
			logger.Info("stream closed")
			return
		}
	}
}

func writeState(conn *websocket.Conn, state domain.DashboardState) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(mapper.ToStateResponse(state))
}

// readUntilClosed drains client frames so pongs and close frames are
// processed, and closes done when the connection ends.
func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
