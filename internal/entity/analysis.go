package entity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AnalysisMode selects how deep the narrative goes.
type AnalysisMode string

const (
	AnalysisModeBasic    AnalysisMode = "basic"
	AnalysisModeDetailed AnalysisMode = "detailed"
	AnalysisModeDeep     AnalysisMode = "deep"
)

// ParseAnalysisMode parses a mode name. An empty string yields basic.
func ParseAnalysisMode(s string) (AnalysisMode, error) {
	switch AnalysisMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AnalysisModeBasic:
		return AnalysisModeBasic, nil
	case AnalysisModeDetailed:
		return AnalysisModeDetailed, nil
	case AnalysisModeDeep:
		return AnalysisModeDeep, nil
	}
	return "", fmt.Errorf("unknown analysis mode %q", s)
}

// Query is one user question after interpretation.
type Query struct {
	ID       uuid.UUID
	Text     string
	Language Language
	Asset    *AssetIdentifier
	Mode     AnalysisMode
}

// NewQuery creates an uninterpreted query with a fresh id.
func NewQuery(text string) *Query {
	return &Query{
		ID:   uuid.New(),
		Text: text,
		Mode: AnalysisModeBasic,
	}
}

// DataSource names one of the three upstream data categories.
type DataSource string

const (
	SourcePrice  DataSource = "price"
	SourceMarket DataSource = "market"
	SourceNews   DataSource = "news"
)

// DataSources lists the sources in the order failures and sections are reported.
var DataSources = []DataSource{SourcePrice, SourceMarket, SourceNews}

// SourceFailure records why one source produced no data.
type SourceFailure struct {
	Source DataSource  `json:"source"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// NewSourceFailure classifies err into a failure record.
func NewSourceFailure(source DataSource, err error) SourceFailure {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return SourceFailure{Source: source, Kind: ClassifyFailure(err), Reason: reason}
}

// AggregateResult is everything the sources returned for one asset.
// Price and Market are nil when their source failed; News is never nil.
type AggregateResult struct {
	Asset    AssetIdentifier `json:"asset"`
	Price    *PriceSnapshot  `json:"price,omitempty"`
	Market   *MarketSnapshot `json:"market,omitempty"`
	News     NewsDigest      `json:"news"`
	Failures []SourceFailure `json:"failures"`
}

// Failure returns the failure recorded for a source, if any.
func (r *AggregateResult) Failure(source DataSource) (SourceFailure, bool) {
	if r == nil {
		return SourceFailure{}, false
	}
	for _, f := range r.Failures {
		if f.Source == source {
			return f, true
		}
	}
	return SourceFailure{}, false
}

// Missing lists the sources without data, in reporting order.
func (r *AggregateResult) Missing() []DataSource {
	var missing []DataSource
	for _, source := range DataSources {
		if !r.Has(source) {
			missing = append(missing, source)
		}
	}
	return missing
}

// Has reports whether a source produced data.
func (r *AggregateResult) Has(source DataSource) bool {
	if r == nil {
		return false
	}
	switch source {
	case SourcePrice:
		return r.Price != nil
	case SourceMarket:
		return r.Market != nil
	case SourceNews:
		return len(r.News) > 0
	}
	return false
}

// AnalysisResult pairs the aggregate with the model narrative.
type AnalysisResult struct {
	Aggregate   *AggregateResult `json:"aggregate"`
	Narrative   string           `json:"narrative"`
	AISucceeded bool             `json:"ai_succeeded"`
	Model       string           `json:"model"`
	Provider    string           `json:"provider"`
	AIFailure   string           `json:"ai_failure,omitempty"`
}

// SectionKind identifies one block of a formatted answer.
type SectionKind string

const (
	SectionPrice  SectionKind = "price"
	SectionMarket SectionKind = "market"
	SectionNews   SectionKind = "news"
	SectionAI     SectionKind = "ai"
)

// AnswerSection is one rendered block of the answer.
type AnswerSection struct {
	Kind      SectionKind `json:"kind"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	Available bool        `json:"available"`
}

// FormattedAnswer is the user-facing answer.
type FormattedAnswer struct {
	Language Language        `json:"language"`
	Text     string          `json:"text"`
	Sections []AnswerSection `json:"sections"`
}

// Section returns the section of the given kind.
func (a FormattedAnswer) Section(kind SectionKind) (AnswerSection, bool) {
	for _, s := range a.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return AnswerSection{}, false
}
