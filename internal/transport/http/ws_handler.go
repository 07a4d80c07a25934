// Package http exposes the health check and the live leaderboard feed.
package http

import (
	"log"
	"net/http"
	"time"

	"trivia-quiz-bot/internal/app"
	"trivia-quiz-bot/internal/domain"

	"github.com/gorilla/websocket"
)

// WSHandler streams leaderboard snapshots to websocket clients: one
// snapshot on connect, then one per recorded attempt.
type WSHandler struct {
	service  *app.QuizService
	feed     *app.Feed
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, feed *app.Feed) *WSHandler {
	return &WSHandler{
		service: service,
		feed:    feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS upgrades the request and forwards feed updates until the client
// disconnects. Only this goroutine writes to the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	records, err := h.service.Leaderboard(r.Context(), 10)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: map[string]string{"message": "leaderboard unavailable"}})
		return
	}
	initial := domain.Leaderboard{Entries: records, UpdatedAt: time.Now()}
	if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: initial}); err != nil {
		return
	}

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: update}); err != nil {
				return
			}
		case <-readerDone:
			return
		}
	}
}
