package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-quiz-bot/internal/app"
	"trivia-quiz-bot/internal/domain"
	"trivia-quiz-bot/internal/infra/memory"

	"github.com/gorilla/websocket"
)

type staticSource struct{}

func (staticSource) Fetch(_ context.Context) (domain.Question, error) {
	return domain.Question{
		Prompt:           "2+2?",
		CorrectAnswer:    "4",
		IncorrectAnswers: []string{"3", "5", "6"},
	}, nil
}

func TestWebSocketLeaderboardFeed(t *testing.T) {
	service := app.NewQuizService(staticSource{}, memory.NewPendingStore(), memory.NewScoreStore())
	feed := app.NewFeed()
	service.SetFeed(feed)
	wsHandler := NewWSHandler(service, feed)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial snapshot arrives on connect.
	initial := readLeaderboard(t, conn)
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty initial leaderboard, got %+v", initial.Entries)
	}

	ctx := context.Background()
	if _, err := service.StartQuiz(ctx, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, "u1", "4"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	update := readLeaderboard(t, conn)
	if len(update.Entries) != 1 || update.Entries[0].Score != 1 {
		t.Fatalf("expected u1 with score 1, got %+v", update.Entries)
	}
}

func readLeaderboard(t *testing.T, conn *websocket.Conn) domain.Leaderboard {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %q", msg.Type)
	}
	var lb domain.Leaderboard
	if err := json.Unmarshal(msg.Payload, &lb); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return lb
}
