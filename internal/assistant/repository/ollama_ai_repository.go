package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/common"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/utils"

	"golang.org/x/time/rate"
)

// ollamaAIRepository is an implementation of AIRepository that uses the native Ollama API.
type ollamaAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	temperature    float64
}

// NewOllamaAIRepository creates a new instance of ollamaAIRepository.
func NewOllamaAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	temperature, err := parseTemperature(cfg.AI.Temperature)
	if err != nil {
		return nil, err
	}

	secondsPerRequest := time.Minute / time.Duration(cfg.AI.MaxRequestPerMinute)
	return &ollamaAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		temperature:    temperature,
	}, nil
}

func (r *ollamaAIRepository) Provider() string {
	return common.ProviderOllama
}

func (r *ollamaAIRepository) DefaultModel() string {
	return r.cfg.AI.Model
}

// Complete sends a non-streaming generate request.
func (r *ollamaAIRepository) Complete(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = r.cfg.AI.Model
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OllamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: dto.OllamaOptions{
			Temperature: r.temperature,
			NumPredict:  r.cfg.AI.MaxTokens,
		},
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := strings.TrimSuffix(r.cfg.Ollama.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.DebugContext(ctx, "Request Ollama API", logger.StringField("model", model), logger.IntField("prompt_length", len(prompt)))

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to send request to Ollama API", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.ErrorContext(ctx, "Received non-OK response from Ollama API", logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("%w: received non-OK response from Ollama API: %d - %s", entity.ErrUnexpectedStatus, resp.StatusCode, utils.Truncate(string(body), 200))
	}

	// A body cut off in transit fails here with its transport error, not as malformed.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read response body", logger.ErrorField(err))
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var generateResp dto.OllamaGenerateResponse
	if err := json.Unmarshal(body, &generateResp); err != nil {
		r.logger.ErrorContext(ctx, "Failed to decode response body", logger.ErrorField(err))
		return "", fmt.Errorf("failed to decode response body: %w: %w", entity.ErrMalformedPayload, err)
	}
	if generateResp.Error != "" {
		return "", fmt.Errorf("%w: ollama: %s", entity.ErrUnexpectedStatus, generateResp.Error)
	}

	return generateResp.Response, nil
}

// HealthCheck lists the local models and verifies the configured one is pulled.
func (r *ollamaAIRepository) HealthCheck(ctx context.Context) error {
	apiURL := strings.TrimSuffix(r.cfg.Ollama.BaseURL, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create new http request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama server unreachable at %s: %w", r.cfg.Ollama.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama tags: %d", entity.ErrUnexpectedStatus, resp.StatusCode)
	}

	var tags dto.OllamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("failed to decode ollama tags: %w", err)
	}
	for _, m := range tags.Models {
		if m.Name == r.cfg.AI.Model || strings.TrimSuffix(m.Name, ":latest") == r.cfg.AI.Model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not available on the ollama server", r.cfg.AI.Model)
}

func parseTemperature(raw string) (float64, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ai temperature %q: %w", raw, err)
	}
	if t < 0 || t > 2 {
		return 0, fmt.Errorf("ai temperature %v out of range [0, 2]", t)
	}
	return t, nil
}
