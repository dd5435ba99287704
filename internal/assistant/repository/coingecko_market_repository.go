package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/utils"

	"golang.org/x/time/rate"
)

const vsCurrency = "usd"

type coinGeckoMarketRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewCoinGeckoMarketRepository creates a MarketRepository backed by the CoinGecko coins endpoint.
func NewCoinGeckoMarketRepository(cfg *config.Config, log *logger.Logger) MarketRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CoinGecko.MaxRequestPerMinute)
	return &coinGeckoMarketRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 3),
	}
}

func (r *coinGeckoMarketRepository) GetMarketSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.MarketSnapshot, error) {
	query := url.Values{}
	query.Set("localization", "false")
	query.Set("tickers", "false")
	query.Set("market_data", "true")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")
	query.Set("sparkline", "false")
	apiURL := fmt.Sprintf("%s/coins/%s?%s", r.cfg.CoinGecko.BaseURL, url.PathEscape(asset.MarketDataID), query.Encode())

	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.WarnContext(ctx, "Failed to wait for coingecko request limit", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: coingecko: %w", entity.ErrSourceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: coingecko: failed to create new http request: %w", entity.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.CoinGecko.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", r.cfg.CoinGecko.APIKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to CoinGecko API", logger.StringField("asset", asset.ID), logger.ErrorField(err))
		return nil, fmt.Errorf("%w: coingecko: %w", entity.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: coingecko: failed to read response body: %w", entity.ErrSourceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		r.log.WarnContext(ctx, "CoinGecko API rate limit reached", logger.StringField("asset", asset.ID))
		return nil, fmt.Errorf("%w: coingecko: %w", entity.ErrSourceUnavailable, entity.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		r.log.ErrorContext(ctx, "Received non-OK response from CoinGecko API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("asset", asset.ID),
		)
		return nil, fmt.Errorf("%w: coingecko: %w: %d - %s", entity.ErrSourceUnavailable, entity.ErrUnexpectedStatus, resp.StatusCode, utils.Truncate(string(body), 200))
	}

	var coin dto.CoinGeckoCoinResponse
	if err := json.Unmarshal(body, &coin); err != nil {
		return nil, fmt.Errorf("%w: coingecko: failed to decode response body: %w", entity.ErrSourceUnavailable, entity.ErrMalformedPayload)
	}

	return toMarketSnapshot(&coin)
}

func toMarketSnapshot(coin *dto.CoinGeckoCoinResponse) (*entity.MarketSnapshot, error) {
	md := coin.MarketData
	if md == nil {
		return nil, fmt.Errorf("%w: coingecko: missing market_data: %w", entity.ErrSourceUnavailable, entity.ErrMalformedPayload)
	}
	marketCap, ok := md.MarketCap[vsCurrency]
	if !ok {
		return nil, fmt.Errorf("%w: coingecko: missing market_cap.%s: %w", entity.ErrSourceUnavailable, vsCurrency, entity.ErrMalformedPayload)
	}

	snapshot := &entity.MarketSnapshot{
		MarketCap: marketCap,
		Volume24h: md.TotalVolume[vsCurrency],
		FetchedAt: utils.TimeNowUTC(),
	}
	if coin.MarketCapRank != nil {
		snapshot.Rank = *coin.MarketCapRank
	} else if md.MarketCapRank != nil {
		snapshot.Rank = *md.MarketCapRank
	}
	if md.CirculatingSupply.Valid {
		snapshot.CirculatingSupply = md.CirculatingSupply.Decimal
	}
	if md.MaxSupply.Valid {
		maxSupply := md.MaxSupply.Decimal
		snapshot.MaxSupply = &maxSupply
	}
	if md.PriceChangePercentage24h.Valid {
		snapshot.ChangePercent24h = md.PriceChangePercentage24h.Decimal
	}
	return snapshot, nil
}
