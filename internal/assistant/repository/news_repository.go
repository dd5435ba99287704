package repository

import (
	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/pkg/logger"
)

// NewNewsRepository picks CryptoPanic when an API key is configured and the public
// RSS feeds otherwise.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	if cfg.CryptoPanic.APIKey != "" {
		return NewCryptoPanicNewsRepository(cfg, log)
	}
	return NewRSSNewsRepository(cfg, log)
}
