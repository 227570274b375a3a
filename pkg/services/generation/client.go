package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/de-tools/indicator-atlas/pkg/models/api"
	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultHost    = "http://localhost:11434"
	DefaultTimeout = 120 * time.Second

	chatPath     = "/api/chat"
	errBodyLimit = 300
)

type Client interface {
	// Generate tries each candidate in order and returns the first non-empty answer.
	Generate(ctx context.Context, prompt string, candidates []string) (*domain.GenerationResult, error)
}

type chatClient struct {
	chatURL    string
	httpClient *http.Client
}

func NewChatClient(host string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewChatClientWithHTTP(host, &http.Client{Timeout: timeout})
}

func NewChatClientWithHTTP(host string, httpClient *http.Client) Client {
	if host == "" {
		host = DefaultHost
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &chatClient{
		chatURL:    strings.TrimRight(host, "/") + chatPath,
		httpClient: httpClient,
	}
}

func (c *chatClient) Generate(
	ctx context.Context,
	prompt string,
	candidates []string,
) (*domain.GenerationResult, error) {
	logger := zerolog.Ctx(ctx)
	attempts := make([]domain.Attempt, 0, len(candidates))

	for _, model := range candidates {
		logger.Info().Str("model", model).Msg("trying model")

		started := time.Now()
		content, err := c.chat(ctx, model, prompt)
		attempt := domain.Attempt{Model: model, Err: err, Duration: time.Since(started)}
		attempts = append(attempts, attempt)

		if err != nil {
			logger.Warn().
				Err(err).
				Str("model", model).
				Dur("elapsed", attempt.Duration).
				Msg("model failed")
			continue
		}

		logger.Info().
			Str("model", model).
			Dur("elapsed", attempt.Duration).
			Msg("model succeeded")
		return &domain.GenerationResult{
			NarrativeText: content,
			ModelUsed:     model,
			Attempts:      attempts,
		}, nil
	}

	return nil, &AllModelsFailedError{Attempts: attempts}
}

func (c *chatClient) chat(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(api.ChatRequest{
		Model:    model,
		Messages: []api.ChatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result api.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Message == nil {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(result.Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
