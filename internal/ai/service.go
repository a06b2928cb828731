// Package ai wraps the Gemini generative-language API behind the
// engine's question generator, grader and profile extractor contracts.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/swipehire/interview-engine/internal/roles"
)

// Service is the Gemini-backed implementation of the question
// generator, grading service and profile extraction collaborators
type Service struct {
	client         *genai.Client
	model          string
	roles          *roles.Loader
	maxResumeChars int
}

// Config holds Gemini configuration
type Config struct {
	APIKey string
	Model  string
	// MaxResumeChars bounds the resume text embedded in prompts
	MaxResumeChars int
}

// NewService creates a Gemini client and verifies configuration
func NewService(ctx context.Context, cfg Config, roleLoader *roles.Loader) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	maxResume := cfg.MaxResumeChars
	if maxResume <= 0 {
		maxResume = 4000
	}

	slog.Info("ai service initialized", "model", model)

	return &Service{
		client:         client,
		model:          model,
		roles:          roleLoader,
		maxResumeChars: maxResume,
	}, nil
}

// generate runs one prompt and returns the cleaned text payload
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return cleanJSONResponse(text), nil
}

// cleanJSONResponse strips markdown code fences the model sometimes
// wraps JSON payloads in
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	return strings.TrimSpace(response)
}

// trimResume bounds resume text embedded in prompts
func (s *Service) trimResume(text string, limit int) string {
	if limit <= 0 || limit > s.maxResumeChars {
		limit = s.maxResumeChars
	}
	if len(text) > limit {
		return text[:limit]
	}
	return text
}

// roleContext renders the role line used in prompts
func roleContext(role *roles.Role) string {
	if len(role.Focus) == 0 {
		return role.Name
	}
	return fmt.Sprintf("%s role (focus areas: %s)", role.Name, strings.Join(role.Focus, "; "))
}
