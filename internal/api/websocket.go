// websocket.go - WebSocket progress stream for batch extraction jobs
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/invoice-agent/backend/internal/jobs"
	"github.com/invoice-agent/backend/internal/logger"
)

// WebSocket message types for the job progress protocol
const (
	MsgTypeProgress = "progress"
	MsgTypeComplete = "complete"
	MsgTypeError    = "error"
)

// WSJobUpdate is one progress frame pushed to the client.
type WSJobUpdate struct {
	Type      string   `json:"type"`
	Job       jobs.Job `json:"job"`
	Timestamp int64    `json:"timestamp"`
}

// WSErrorResponse reports a protocol-level failure.
type WSErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler streams batch job progress to clients.
type WebSocketHandler struct {
	jobs     JobManager
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new job progress handler
func NewWebSocketHandler(jobs JobManager) *WebSocketHandler {
	return &WebSocketHandler{
		jobs: jobs,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The API is CORS-open; mirror that for websockets.
				return true
			},
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
		},
	}
}

// HandleJobStream upgrades the connection and pushes every progress
// update for the job named by the id query parameter, closing after
// the final state.
func (wsh *WebSocketHandler) HandleJobStream(c echo.Context) error {
	jobID := c.QueryParam("id")
	if jobID == "" {
		return NewValidationError("id")
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return NewBadRequestError("websocket upgrade failed", err)
	}
	defer ws.Close()

	updates, ok := wsh.jobs.Subscribe(jobID)
	if !ok {
		wsMsg := WSErrorResponse{Type: MsgTypeError, Message: "job not found", Code: "NOT_FOUND"}
		_ = ws.WriteJSON(wsMsg)
		return nil
	}

	for snap := range updates {
		msgType := MsgTypeProgress
		if snap.Status != jobs.StatusProcessing {
			msgType = MsgTypeComplete
			if snap.Status == jobs.StatusError {
				msgType = MsgTypeError
			}
		}
		update := WSJobUpdate{Type: msgType, Job: snap, Timestamp: time.Now().UnixMilli()}
		if err := ws.WriteJSON(update); err != nil {
			logger.Sugar.Debugw("websocket write failed, dropping client", "job", jobID, "error", err)
			return nil
		}
	}

	return nil
}
