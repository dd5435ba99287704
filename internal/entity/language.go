package entity

import (
	"golang.org/x/text/language"
)

// Language is the language an answer is rendered in.
type Language string

const (
	LanguageRussian Language = "ru"
	LanguageEnglish Language = "en"
)

// Tag maps the language to its BCP 47 tag.
func (l Language) Tag() language.Tag {
	if l == LanguageRussian {
		return language.Russian
	}
	return language.English
}

// ParseLanguage accepts "ru" or "en" (any case); everything else is English.
func ParseLanguage(s string) Language {
	tag, err := language.Parse(s)
	if err != nil {
		return LanguageEnglish
	}
	if base, _ := tag.Base(); base.String() == "ru" {
		return LanguageRussian
	}
	return LanguageEnglish
}
