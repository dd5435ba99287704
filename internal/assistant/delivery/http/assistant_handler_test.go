package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/internal/assistant/service"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/common"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAssistantService struct {
	mock.Mock
}

func (m *mockAssistantService) Ask(ctx context.Context, text string, opts service.AskOptions) (*service.Answer, error) {
	args := m.Called(ctx, text, opts)
	answer, _ := args.Get(0).(*service.Answer)
	return answer, args.Error(1)
}

func (m *mockAssistantService) SupportedAssets() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockAssistantService) CheckDependencies(ctx context.Context) {
	m.Called(ctx)
}

func doRequest(t *testing.T, svc service.AssistantService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewServer(svc, logger.NewNop(), metrics.New())

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bitcoinAnswer() *service.Answer {
	asset := entity.AssetIdentifier{ID: "bitcoin", Name: "Bitcoin", Ticker: "BTC", ExchangeSymbol: "BTCUSDT", MarketDataID: "bitcoin"}
	query := entity.NewQuery("Tell me about Bitcoin")
	query.Asset = &asset
	query.Language = entity.LanguageEnglish

	analysis := &entity.AnalysisResult{
		Aggregate: &entity.AggregateResult{
			Asset:    asset,
			News:     entity.NewsDigest{},
			Failures: []entity.SourceFailure{{Source: entity.SourceNews, Kind: entity.FailureTimeout, Reason: "timeout"}},
		},
		Narrative:   "Steady.",
		AISucceeded: true,
		Model:       "llama2",
		Provider:    "ollama",
	}
	return &service.Answer{
		Query:     query,
		Analysis:  analysis,
		Formatted: service.FormatAnswer(analysis, entity.LanguageEnglish),
	}
}

func TestAsk_OK(t *testing.T) {
	svc := new(mockAssistantService)
	svc.On("Ask", mock.Anything, "Tell me about Bitcoin", service.AskOptions{Mode: entity.AnalysisModeDeep, Model: "mistral"}).
		Return(bitcoinAnswer(), nil).Once()

	rec := doRequest(t, svc, http.MethodPost, "/api/v1/ask", `{"query":"Tell me about Bitcoin","mode":"deep","model":"mistral"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(common.RequestIDHeader))

	var resp dto.AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bitcoin", resp.Asset.ID)
	assert.Equal(t, "en", resp.Language)
	assert.True(t, resp.AISucceeded)
	assert.Len(t, resp.Sections, 4)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, entity.SourceNews, resp.Failures[0].Source)
	svc.AssertExpectations(t)
}

func TestAsk_NotRecognized(t *testing.T) {
	answer := &service.Answer{
		Query:       entity.NewQuery("Tell me about Dogelon"),
		Formatted:   service.FormatNotRecognized("Tell me about Dogelon", []string{"Dogecoin (DOGE)"}, entity.LanguageEnglish),
		Suggestions: []string{"Dogecoin (DOGE)"},
	}
	svc := new(mockAssistantService)
	svc.On("Ask", mock.Anything, "Tell me about Dogelon", service.AskOptions{}).
		Return(answer, fmt.Errorf("%w: dogelon", entity.ErrAssetNotRecognized)).Once()

	rec := doRequest(t, svc, http.MethodPost, "/api/v1/ask", `{"query":"Tell me about Dogelon"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp dto.AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Asset)
	assert.Equal(t, []string{"Dogecoin (DOGE)"}, resp.Suggestions)
	assert.Contains(t, resp.Answer, "Dogelon")
}

func TestAsk_ValidationErrors(t *testing.T) {
	svc := new(mockAssistantService)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing query", body: `{}`},
		{name: "bad mode", body: `{"query":"btc","mode":"extreme"}`},
		{name: "bad language", body: `{"query":"btc","language":"de"}`},
		{name: "malformed json", body: `{"query":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, svc, http.MethodPost, "/api/v1/ask", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Details)
		})
	}
	svc.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_InternalError(t *testing.T) {
	svc := new(mockAssistantService)
	svc.On("Ask", mock.Anything, "btc", service.AskOptions{}).Return(nil, entity.ErrInvalidAsset).Once()

	rec := doRequest(t, svc, http.MethodPost, "/api/v1/ask", `{"query":"btc"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetAssets(t *testing.T) {
	svc := new(mockAssistantService)
	svc.On("SupportedAssets").Return([]string{"Bitcoin (BTC)", "Ethereum (ETH)"})

	rec := doRequest(t, svc, http.MethodGet, "/api/v1/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AssetsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestHealthAndMetrics(t *testing.T) {
	svc := new(mockAssistantService)

	rec := doRequest(t, svc, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doRequest(t, svc, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	svc := new(mockAssistantService)
	svc.On("Ask", mock.MatchedBy(func(ctx context.Context) bool {
		return logger.RequestID(ctx) == "req-123"
	}), "btc", service.AskOptions{}).Return(bitcoinAnswer(), nil).Once()

	e := NewServer(svc, logger.NewNop(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"query":"btc"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(common.RequestIDHeader))
	svc.AssertExpectations(t)
}
