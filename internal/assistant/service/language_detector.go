package service

import (
	"strings"
	"unicode"

	"ai-crypto-assistant/internal/entity"
)

// DetectLanguage returns Russian when text contains any Cyrillic letter and English otherwise.
func DetectLanguage(text string) entity.Language {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return entity.LanguageRussian
		}
	}
	return entity.LanguageEnglish
}

var (
	deepKeywords     = []string{"deep", "technical", "technically"}
	deepStems        = []string{"глубок", "техническ", "теханализ"}
	detailedKeywords = []string{"detailed", "detail", "details", "thorough"}
	detailedStems    = []string{"подробн", "детальн", "развернут"}
)

// DetectAnalysisMode picks a mode from keywords in text. Deep wins over detailed;
// ok is false when no keyword is present.
func DetectAnalysisMode(text string) (mode entity.AnalysisMode, ok bool) {
	tokens := entity.Tokenize(text)
	if containsKeyword(tokens, deepKeywords, deepStems) {
		return entity.AnalysisModeDeep, true
	}
	if containsKeyword(tokens, detailedKeywords, detailedStems) {
		return entity.AnalysisModeDetailed, true
	}
	return entity.AnalysisModeBasic, false
}

func containsKeyword(tokens, words, stems []string) bool {
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
		for _, s := range stems {
			if strings.HasPrefix(tok, s) {
				return true
			}
		}
	}
	return false
}
