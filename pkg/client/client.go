// Package client is a Go SDK for the interview-engine HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swipehire/interview-engine/internal/models"
)

// Client is a Go SDK for interview-engine
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new interview-engine client. The API key is used
// on the admin surface; candidate session calls authenticate by token.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// envelope mirrors the API's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a non-success response from the server
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return data, nil
}

func (c *Client) call(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	data, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !env.Success {
		if env.Error != nil {
			return &APIError{Code: env.Error.Code, Message: env.Error.Message}
		}
		return &APIError{Code: "unknown", Message: "request failed"}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal data: %w", err)
		}
	}

	return nil
}

// --- Admin surface ---

// CreateInterview creates a session from resume text and returns its
// id, join token and join URL
func (c *Client) CreateInterview(ctx context.Context, req models.CreateInterviewRequest) (*models.CreateInterviewResponse, error) {
	var out models.CreateInterviewResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/interviews", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInterview returns the full session snapshot
func (c *Client) GetInterview(ctx context.Context, id string) (*models.SessionState, error) {
	var out models.SessionState
	if err := c.call(ctx, http.MethodGet, "/api/v1/interviews/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscardInterview removes a session, its snapshot and its gate
func (c *Client) DiscardInterview(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/interviews/"+id, nil, nil)
}

// ExtractProfile extracts candidate contact fields from resume text
func (c *Client) ExtractProfile(ctx context.Context, resumeText string) (*models.CandidateProfile, error) {
	var out models.CandidateProfile
	req := map[string]string{"resume_text": resumeText}
	if err := c.call(ctx, http.MethodPost, "/api/v1/extract", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RosterPage is one page of finalized candidate records
type RosterPage struct {
	Records []*models.CandidateRecord `json:"records"`
	Total   int                       `json:"total"`
}

// ListRoster lists finalized candidate records, best score first
func (c *Client) ListRoster(ctx context.Context) (*RosterPage, error) {
	var out RosterPage
	if err := c.call(ctx, http.MethodGet, "/api/v1/roster", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Candidate surface ---

// GetSession returns the candidate-facing view of a session
func (c *Client) GetSession(ctx context.Context, token string) (*models.SessionView, error) {
	var out models.SessionView
	if err := c.call(ctx, http.MethodGet, "/session/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartSession begins the countdown (idempotent)
func (c *Client) StartSession(ctx context.Context, token string) (*models.SessionView, error) {
	return c.sessionOp(ctx, token, "start")
}

// RecordAnswer stores answer text for one stage
func (c *Client) RecordAnswer(ctx context.Context, token string, index int, text string) error {
	req := models.RecordAnswerRequest{Index: index, Text: text}
	return c.call(ctx, http.MethodPost, "/session/"+token+"/answer", req, nil)
}

// Tick applies an elapsed-time delta to the running countdown
func (c *Client) Tick(ctx context.Context, token string, deltaMs int64) (*models.SessionView, error) {
	var out models.SessionView
	req := models.TickRequest{DeltaMs: deltaMs}
	if err := c.call(ctx, http.MethodPost, "/session/"+token+"/tick", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Next advances to the next stage (finishes from the last one)
func (c *Client) Next(ctx context.Context, token string) (*models.SessionView, error) {
	return c.sessionOp(ctx, token, "next")
}

// Pause freezes the countdown
func (c *Client) Pause(ctx context.Context, token string) (*models.SessionView, error) {
	return c.sessionOp(ctx, token, "pause")
}

// Resume continues a paused countdown
func (c *Client) Resume(ctx context.Context, token string) (*models.SessionView, error) {
	return c.sessionOp(ctx, token, "resume")
}

// Finish forces the terminal state (early submit)
func (c *Client) Finish(ctx context.Context, token string) (*models.SessionView, error) {
	return c.sessionOp(ctx, token, "finish")
}

// Finalize grades the finished session and returns its Result.
// Idempotent and safe to retry on transient failures.
func (c *Client) Finalize(ctx context.Context, token string) (*models.Result, error) {
	var out models.Result
	if err := c.call(ctx, http.MethodPost, "/session/"+token+"/finalize", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) sessionOp(ctx context.Context, token, op string) (*models.SessionView, error) {
	var out models.SessionView
	if err := c.call(ctx, http.MethodPost, "/session/"+token+"/"+op, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
