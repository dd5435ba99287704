package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/common"
	"ai-crypto-assistant/pkg/logger"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// openAIRepository talks to any OpenAI-compatible completions endpoint,
// including the one Ollama serves under /v1.
type openAIRepository struct {
	client         *openai.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	temperature    float32
}

// NewOpenAIRepository creates a new instance of openAIRepository.
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	temperature, err := parseTemperature(cfg.AI.Temperature)
	if err != nil {
		return nil, err
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 90 * time.Second}

	secondsPerRequest := time.Minute / time.Duration(cfg.AI.MaxRequestPerMinute)
	return &openAIRepository{
		client:         openai.NewClientWithConfig(clientCfg),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		temperature:    float32(temperature),
	}, nil
}

func (r *openAIRepository) Provider() string {
	return common.ProviderOpenAI
}

func (r *openAIRepository) DefaultModel() string {
	return r.cfg.AI.Model
}

// Complete calls /v1/completions and returns the first choice.
func (r *openAIRepository) Complete(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = r.cfg.AI.Model
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	resp, err := r.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   r.cfg.AI.MaxTokens,
		Temperature: r.temperature,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to send request to OpenAI-compatible API", logger.ErrorField(err))
		return "", fmt.Errorf("failed to create completion: %w", classifyOpenAIError(err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion has no choices", entity.ErrMalformedPayload)
	}
	return resp.Choices[0].Text, nil
}

// HealthCheck lists the models served by the endpoint.
func (r *openAIRepository) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai-compatible endpoint unavailable at %s: %w", r.cfg.OpenAI.BaseURL, err)
	}
	return nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", entity.ErrRateLimited, apiErr.Message)
		}
		return fmt.Errorf("%w: %d - %s", entity.ErrUnexpectedStatus, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return fmt.Errorf("%w: %d - %w", entity.ErrUnexpectedStatus, reqErr.HTTPStatusCode, reqErr.Err)
	}
	return err
}
