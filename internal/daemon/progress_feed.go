package daemon

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dubber/internal/api"
	"dubber/internal/logging"
)

const (
	progressFeedInterval = 2 * time.Second
	progressWriteTimeout = 10 * time.Second
)

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleProgressFeed streams queue snapshots over a websocket. Each connected
// client gets its own ticker loop; the connection closes when the client goes
// away or the daemon shuts down.
func (s *APIServer) handleProgressFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := progressUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log().Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	// Drain client frames so pongs and close frames are processed.
	go func() {
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(progressFeedInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		jobs, listErr := s.queueSvc.List(ctx)
		if listErr != nil {
			s.log().Warn("progress feed list failed", logging.Error(listErr))
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(progressWriteTimeout))
		if writeErr := conn.WriteJSON(api.QueueListResponse{Jobs: jobs}); writeErr != nil {
			return
		}

		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "daemon shutting down"),
				time.Now().Add(time.Second))
			return
		case <-ticker.C:
		}
	}
}
