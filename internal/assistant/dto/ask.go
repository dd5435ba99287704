package dto

import (
	"ai-crypto-assistant/internal/entity"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Query    string `json:"query" validate:"required,max=1000" example:"Tell me about Bitcoin"`
	Mode     string `json:"mode,omitempty" validate:"omitempty,oneof=basic detailed deep" example:"basic"`
	Model    string `json:"model,omitempty" validate:"omitempty,max=100" example:"llama2"`
	Language string `json:"language,omitempty" validate:"omitempty,oneof=en ru" example:"en"`
}

// AskResponse is the answer to one query.
type AskResponse struct {
	QueryID     string                  `json:"query_id"`
	Language    string                  `json:"language"`
	Mode        string                  `json:"mode,omitempty"`
	Asset       *entity.AssetIdentifier `json:"asset,omitempty"`
	Answer      string                  `json:"answer"`
	Sections    []entity.AnswerSection  `json:"sections"`
	Failures    []entity.SourceFailure  `json:"failures,omitempty"`
	AISucceeded bool                    `json:"ai_succeeded"`
	Provider    string                  `json:"provider,omitempty"`
	Model       string                  `json:"model,omitempty"`
	Suggestions []string                `json:"suggestions,omitempty"`
}

// AssetsResponse lists the supported assets.
type AssetsResponse struct {
	Count  int      `json:"count"`
	Assets []string `json:"assets"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}
