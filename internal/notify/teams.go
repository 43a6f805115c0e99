package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// TeamsConfig holds webhook sender configuration.
type TeamsConfig struct {
	WebhookURL    string
	Timeout       time.Duration
	RatePerSecond float64
}

// TeamsSender posts MessageCards to an incoming webhook. One attempt per message.
type TeamsSender struct {
	config     TeamsConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewTeamsSender creates a sender. With no webhook URL every Send is a no-op.
func NewTeamsSender(config TeamsConfig, logger *zap.Logger) *TeamsSender {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	limit := rate.Inf
	if config.RatePerSecond > 0 {
		limit = rate.Limit(config.RatePerSecond)
	}
	return &TeamsSender{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

type messageCard struct {
	Type       string `json:"@type"`
	Context    string `json:"@context"`
	Summary    string `json:"summary"`
	ThemeColor string `json:"themeColor"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

// Send delivers msg to the configured webhook.
func (s *TeamsSender) Send(ctx context.Context, msg Message) error {
	if s.config.WebhookURL == "" {
		s.logger.Debug("webhook not configured, skipping notification", zap.String("title", msg.Title))
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(messageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		Summary:    msg.Summary,
		ThemeColor: msg.ThemeColor,
		Title:      msg.Title,
		Text:       msg.Text,
	})
	if err != nil {
		return fmt.Errorf("marshal card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("webhook notification sent", zap.String("title", msg.Title))
	return nil
}
