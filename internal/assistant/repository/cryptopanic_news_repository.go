package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/utils"

	"golang.org/x/time/rate"
)

type cryptoPanicNewsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewCryptoPanicNewsRepository creates a NewsRepository backed by the CryptoPanic posts API.
func NewCryptoPanicNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CryptoPanic.MaxRequestPerMinute)
	return &cryptoPanicNewsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 2),
	}
}

func (r *cryptoPanicNewsRepository) GetNews(ctx context.Context, asset entity.AssetIdentifier, limit int) (entity.NewsDigest, error) {
	if r.cfg.CryptoPanic.APIKey == "" {
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: %w: api key", entity.ErrSourceUnavailable, entity.ErrConfigurationMissing)
	}

	query := url.Values{}
	query.Set("auth_token", r.cfg.CryptoPanic.APIKey)
	query.Set("currencies", strings.ToUpper(asset.Ticker))
	query.Set("public", "true")
	apiURL := fmt.Sprintf("%s/posts/?%s", strings.TrimSuffix(r.cfg.CryptoPanic.BaseURL, "/"), query.Encode())

	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.WarnContext(ctx, "Failed to wait for cryptopanic request limit", logger.ErrorField(err))
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: %w", entity.ErrSourceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: failed to create new http request: %w", entity.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		// The URL carries the auth token, keep it out of logs and errors.
		err = redactURLError(err)
		r.log.ErrorContext(ctx, "Failed to send request to CryptoPanic API", logger.StringField("ticker", asset.Ticker), logger.ErrorField(err))
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: %w", entity.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: failed to read response body: %w", entity.ErrSourceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		r.log.WarnContext(ctx, "CryptoPanic API rate limit reached", logger.StringField("ticker", asset.Ticker))
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: %w", entity.ErrSourceUnavailable, entity.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		r.log.ErrorContext(ctx, "Received non-OK response from CryptoPanic API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("ticker", asset.Ticker),
		)
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: %w: %d - %s", entity.ErrSourceUnavailable, entity.ErrUnexpectedStatus, resp.StatusCode, utils.Truncate(string(body), 200))
	}

	var posts dto.CryptoPanicPostsResponse
	if err := json.Unmarshal(body, &posts); err != nil {
		return entity.NewsDigest{}, fmt.Errorf("%w: cryptopanic: failed to decode response body: %w", entity.ErrSourceUnavailable, entity.ErrMalformedPayload)
	}

	digest := make(entity.NewsDigest, 0, len(posts.Results))
	for _, p := range posts.Results {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			continue
		}
		source := p.Source.Title
		if source == "" {
			source = p.Source.Domain
		}
		digest = append(digest, entity.NewsItem{
			Title:       title,
			Source:      source,
			PublishedAt: p.PublishedAt.UTC(),
			URL:         p.URL,
		})
	}

	return limitDigest(digest, limit), nil
}

// limitDigest orders items most recent first and keeps at most limit of them.
func limitDigest(digest entity.NewsDigest, limit int) entity.NewsDigest {
	sort.SliceStable(digest, func(i, j int) bool {
		return digest[i].PublishedAt.After(digest[j].PublishedAt)
	})
	if limit > 0 && len(digest) > limit {
		digest = digest[:limit]
	}
	return digest
}

func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request failed: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
