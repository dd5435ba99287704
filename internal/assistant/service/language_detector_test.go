package service

import (
	"testing"

	"ai-crypto-assistant/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, entity.LanguageEnglish, DetectLanguage("Tell me about Bitcoin"))
	assert.Equal(t, entity.LanguageRussian, DetectLanguage("Расскажи про Эфириум"))
	assert.Equal(t, entity.LanguageRussian, DetectLanguage("BTC или ETH?"))
	assert.Equal(t, entity.LanguageEnglish, DetectLanguage(""))
	assert.Equal(t, entity.LanguageEnglish, DetectLanguage("123 ?!"))
}

func TestDetectAnalysisMode(t *testing.T) {
	tests := []struct {
		text   string
		want   entity.AnalysisMode
		wantOK bool
	}{
		{text: "Tell me about Bitcoin", want: entity.AnalysisModeBasic, wantOK: false},
		{text: "Detailed overview of Solana", want: entity.AnalysisModeDetailed, wantOK: true},
		{text: "Расскажи подробно про Эфириум", want: entity.AnalysisModeDetailed, wantOK: true},
		{text: "technical analysis of ETH", want: entity.AnalysisModeDeep, wantOK: true},
		{text: "Глубокий анализ биткоина", want: entity.AnalysisModeDeep, wantOK: true},
		{text: "detailed and deep look at BTC", want: entity.AnalysisModeDeep, wantOK: true},
	}

	for _, tt := range tests {
		got, ok := DetectAnalysisMode(tt.text)
		assert.Equal(t, tt.want, got, tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
	}
}
