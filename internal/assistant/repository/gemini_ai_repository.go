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

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an implementation of AIRepository that uses the Google Gemini API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
	temperature    float32
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	if genAiClient == nil {
		return nil, fmt.Errorf("%w: gemini client", entity.ErrConfigurationMissing)
	}
	temperature, err := parseTemperature(cfg.AI.Temperature)
	if err != nil {
		return nil, err
	}

	secondsPerRequest := time.Minute / time.Duration(cfg.AI.MaxRequestPerMinute)
	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
		temperature:    float32(temperature),
	}, nil
}

func (r *geminiAIRepository) Provider() string {
	return common.ProviderGemini
}

func (r *geminiAIRepository) DefaultModel() string {
	return r.cfg.AI.Model
}

// Complete generates content for a single text prompt.
func (r *geminiAIRepository) Complete(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = r.cfg.AI.Model
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(r.temperature),
		MaxOutputTokens: int32(r.cfg.AI.MaxTokens),
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to send request to Gemini API", logger.ErrorField(err))
		return "", fmt.Errorf("failed to generate content: %w", classifyGeminiError(err))
	}

	return resp.Text(), nil
}

// HealthCheck fetches the configured model's metadata.
func (r *geminiAIRepository) HealthCheck(ctx context.Context) error {
	if _, err := r.genAiClient.Models.Get(ctx, r.cfg.AI.Model, nil); err != nil {
		return fmt.Errorf("gemini model %q unavailable: %w", r.cfg.AI.Model, err)
	}
	return nil
}

func classifyGeminiError(err error) error {
	var (
		apiErr    genai.APIError
		apiErrPtr *genai.APIError
	)
	switch {
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	case errors.As(err, &apiErr):
	default:
		return err
	}

	if apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", entity.ErrRateLimited, apiErr.Message)
	}
	return fmt.Errorf("%w: %d - %s", entity.ErrUnexpectedStatus, apiErr.Code, apiErr.Message)
}
