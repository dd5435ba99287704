package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaTestRepo(t *testing.T, handler http.HandlerFunc) AIRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.Ollama.BaseURL = server.URL + "/"
	repo, err := NewOllamaAIRepository(cfg, logger.NewNop())
	require.NoError(t, err)
	return repo
}

func TestOllamaComplete(t *testing.T) {
	repo := newOllamaTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req dto.OllamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req.Model)
		assert.Equal(t, "Summarize Bitcoin", req.Prompt)
		assert.False(t, req.Stream)
		assert.Equal(t, 0.7, req.Options.Temperature)
		assert.Equal(t, 500, req.Options.NumPredict)

		_ = json.NewEncoder(w).Encode(dto.OllamaGenerateResponse{Model: req.Model, Response: "Bitcoin is up.", Done: true})
	})

	out, err := repo.Complete(context.Background(), "Summarize Bitcoin", "mistral")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin is up.", out)
	assert.Equal(t, "ollama", repo.Provider())
	assert.Equal(t, "llama2", repo.DefaultModel())
}

func TestOllamaCompleteDefaultsModel(t *testing.T) {
	repo := newOllamaTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		var req dto.OllamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama2", req.Model)
		_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
	})

	_, err := repo.Complete(context.Background(), "prompt", "")
	require.NoError(t, err)
}

func TestOllamaCompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `model crashed`, want: entity.ErrUnexpectedStatus},
		{name: "model missing", status: http.StatusOK, body: `{"error":"model 'llama2' not found"}`, want: entity.ErrUnexpectedStatus},
		{name: "malformed", status: http.StatusOK, body: `{"response":`, want: entity.ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newOllamaTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := repo.Complete(context.Background(), "prompt", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// cutOffHandler promises a longer body than it sends, then drops the connection.
func cutOffHandler(w http.ResponseWriter, _ *http.Request) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	conn, buf, err := hj.Hijack()
	if err != nil {
		return
	}
	defer conn.Close()
	_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 200\r\n\r\n{\"response\":\"Bitcoin is")
	_ = buf.Flush()
}

func TestOllamaCompleteCutOffBodyKeepsTransportError(t *testing.T) {
	repo := newOllamaTestRepo(t, cutOffHandler)

	_, err := repo.Complete(context.Background(), "prompt", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, entity.ErrMalformedPayload)
}

func TestOllamaHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		models  string
		wantErr bool
	}{
		{name: "tagged latest", models: `{"models":[{"name":"mistral:7b"},{"name":"llama2:latest"}]}`},
		{name: "exact name", models: `{"models":[{"name":"llama2"}]}`},
		{name: "not pulled", models: `{"models":[{"name":"mistral:7b"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newOllamaTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				_, _ = w.Write([]byte(tt.models))
			})

			err := repo.HealthCheck(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewOllamaAIRepositoryRejectsTemperature(t *testing.T) {
	for _, raw := range []string{"hot", "-0.1", "2.5"} {
		cfg := testConfig()
		cfg.AI.Temperature = raw
		_, err := NewOllamaAIRepository(cfg, logger.NewNop())
		assert.Error(t, err, raw)
	}
}
