package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kendall-kelly/garment-crm/config"
)

// ErrSummaryUnavailable is returned when no summary endpoint is configured
var ErrSummaryUnavailable = errors.New("summary service is not configured")

// SummaryService turns a prompt into summary text
type SummaryService interface {
	GenerateSummary(ctx context.Context, prompt string) (string, error)
}

// HTTPSummaryService calls a text-generation endpoint over HTTP
type HTTPSummaryService struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

type summaryRequest struct {
	Prompt string `json:"prompt"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
	Text    string `json:"text"`
}

var summaryServiceInstance SummaryService

// NewHTTPSummaryService creates a summary client from the configuration
func NewHTTPSummaryService(cfg *config.Config) *HTTPSummaryService {
	return &HTTPSummaryService{
		url:    cfg.SummaryAPIURL,
		apiKey: cfg.SummaryAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetSummaryService returns the initialized summary service instance
func GetSummaryService() SummaryService {
	return summaryServiceInstance
}

// SetSummaryService sets the summary service instance (primarily for testing)
func SetSummaryService(service SummaryService) {
	summaryServiceInstance = service
}

// GenerateSummary posts the prompt and returns the generated text
func (s *HTTPSummaryService) GenerateSummary(ctx context.Context, prompt string) (string, error) {
	if s.url == "" {
		return "", ErrSummaryUnavailable
	}

	body, err := json.Marshal(summaryRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call summary endpoint: %w", err)
	}
	defer resp.Body.Close()

	// Check for non-200 status codes
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("summary endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}

	text := out.Summary
	if text == "" {
		text = out.Text
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("summary endpoint returned no text")
	}
	return text, nil
}
