package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/swipehire/interview-engine/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CountdownMessage is one frame on the session countdown socket
type CountdownMessage struct {
	Type        string               `json:"type"`
	Status      models.SessionStatus `json:"status,omitempty"`
	Current     int                  `json:"current,omitempty"`
	RemainingMs int64                `json:"remaining_ms,omitempty"`
	Index       int                  `json:"index,omitempty"`
	Text        string               `json:"text,omitempty"`
	Data        string               `json:"data,omitempty"`
}

// handleSessionWS drives the countdown for one connected candidate.
// The server ticks once per second, auto-advances (or finishes) when
// the countdown reaches zero, and pauses the session when the socket
// drops — the disconnect/backgrounding path.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	view, err := s.manager.GetByToken(r.Context(), token)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if view.Status == models.SessionFinished {
		http.Error(w, "session is finished", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("countdown websocket connected", "session_id", view.ID)

	s.sendCountdownMessage(conn, CountdownMessage{
		Type:        "connected",
		Status:      view.Status,
		Current:     view.Current,
		RemainingMs: view.RemainingMs,
	})

	// The socket's own lifetime is the driver; the request context
	// would die with the HTTP handler.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Tick pump: engine countdown -> WebSocket frames
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()

		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				view, err := s.manager.Tick(ctx, token, 1000)
				if err != nil {
					slog.Debug("tick failed", "error", err)
					return
				}

				// Tick only decrements; exhausting a stage triggers an
				// explicit advance (or finish on the last stage).
				if view.Status == models.SessionRunning && view.RemainingMs == 0 {
					if view.Current < models.StageCount-1 {
						view, err = s.manager.Advance(ctx, token)
					} else {
						view, err = s.manager.Finish(ctx, token)
					}
					if err != nil {
						slog.Debug("auto-advance failed", "error", err)
						return
					}
				}

				if err := s.sendCountdownMessage(conn, CountdownMessage{
					Type:        "tick",
					Status:      view.Status,
					Current:     view.Current,
					RemainingMs: view.RemainingMs,
				}); err != nil {
					return
				}

				if view.Status == models.SessionFinished {
					s.sendCountdownMessage(conn, CountdownMessage{
						Type:   "finished",
						Status: view.Status,
					})
					return
				}
			}
		}
	}()

	// Control pump: WebSocket -> engine operations
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			default:
				_, message, err := conn.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						slog.Debug("websocket read error", "error", err)
					}
					return
				}

				var msg CountdownMessage
				if err := json.Unmarshal(message, &msg); err != nil {
					slog.Debug("invalid message format", "error", err)
					continue
				}

				switch msg.Type {
				case "start":
					if _, err := s.manager.Start(ctx, token); err != nil {
						slog.Debug("start over websocket failed", "error", err)
					}
				case "answer":
					if err := s.manager.RecordAnswer(ctx, token, msg.Index, msg.Text); err != nil {
						slog.Debug("answer over websocket failed", "error", err)
					}
				case "next":
					if _, err := s.manager.Advance(ctx, token); err != nil {
						slog.Debug("advance over websocket failed", "error", err)
					}
				case "finish":
					if _, err := s.manager.Finish(ctx, token); err != nil {
						slog.Debug("finish over websocket failed", "error", err)
					}
				}
			}
		}
	}()

	wg.Wait()

	// Freeze the countdown for a dropped candidate; a later resume
	// continues from exactly this remaining time.
	pauseCtx, pauseCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pauseCancel()
	if view, err := s.manager.GetByToken(pauseCtx, token); err == nil && view.Status == models.SessionRunning {
		if _, err := s.manager.Pause(pauseCtx, token); err != nil {
			slog.Warn("failed to pause session on disconnect", "session_id", view.ID, "error", err)
		}
	}

	slog.Info("countdown websocket disconnected", "session_id", view.ID)
}

func (s *Server) sendCountdownMessage(conn *websocket.Conn, msg CountdownMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal countdown message", "error", err)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send countdown message", "error", err)
		return err
	}
	return nil
}
