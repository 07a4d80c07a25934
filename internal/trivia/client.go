// Package trivia implements the question source against the Open Trivia
// Database HTTP API.
package trivia

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"trivia-quiz-bot/internal/domain"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://opentdb.com/api.php"

// Client fetches one multiple-choice question per call. Any transport
// error, non-200 status, non-zero API response code, or empty result set
// surfaces as domain.ErrNoQuestionAvailable.
type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
	}
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

func (c *Client) Fetch(ctx context.Context) (domain.Question, error) {
	var payload apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"amount": "1", "type": "multiple"}).
		SetResult(&payload).
		Get(c.baseURL)
	if err != nil {
		return domain.Question{}, fmt.Errorf("%w: %v", domain.ErrNoQuestionAvailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.Question{}, fmt.Errorf("%w: unexpected status %d", domain.ErrNoQuestionAvailable, resp.StatusCode())
	}
	if payload.ResponseCode != 0 || len(payload.Results) == 0 {
		return domain.Question{}, domain.ErrNoQuestionAvailable
	}

	// Entities are decoded once at this boundary so grading and display
	// always compare the same text.
	q := payload.Results[0]
	return domain.Question{
		Prompt:           html.UnescapeString(q.Question),
		CorrectAnswer:    html.UnescapeString(q.CorrectAnswer),
		IncorrectAnswers: decodeAll(q.IncorrectAnswers),
	}, nil
}

func decodeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = html.UnescapeString(s)
	}
	return out
}
