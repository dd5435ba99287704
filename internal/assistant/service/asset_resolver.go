package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"ai-crypto-assistant/internal/entity"
)

const defaultSuggestionLimit = 5

// Filler words never produce suggestions.
var suggestStopWords = map[string]struct{}{
	"about": {}, "tell": {}, "what": {}, "the": {}, "price": {}, "analysis": {},
	"news": {}, "latest": {}, "current": {}, "today": {}, "now": {},
	"cryptocurrency": {}, "crypto": {}, "coin": {}, "token": {}, "currency": {},
	"расскажи": {}, "про": {}, "что": {}, "цена": {}, "курс": {}, "новости": {},
	"анализ": {}, "какая": {}, "какой": {}, "сегодня": {}, "монета": {}, "токен": {},
}

// AssetResolver maps free text to a known asset.
type AssetResolver interface {
	Resolve(text string) (entity.AssetIdentifier, error)
	Suggest(text string, limit int) []string
	SupportedAssets() []string
}

type assetResolver struct {
	table   *entity.AssetTable
	aliases []entity.AssetAlias
}

// NewAssetResolver creates a resolver over an immutable asset table.
func NewAssetResolver(table *entity.AssetTable) AssetResolver {
	return &assetResolver{
		table:   table,
		aliases: table.Aliases(),
	}
}

type aliasMatch struct {
	alias    entity.AssetAlias
	position int
}

// better reports whether m should win over other: longest alias first, then the
// earliest position in the text, then table order.
func (m aliasMatch) better(other aliasMatch) bool {
	if l, ol := m.alias.RuneLen(), other.alias.RuneLen(); l != ol {
		return l > ol
	}
	if m.position != other.position {
		return m.position < other.position
	}
	return m.alias.Order < other.alias.Order
}

// Resolve returns the asset named in text or entity.ErrAssetNotRecognized. Tickers
// that double as common words ("LINK", "OP") count only when typed in upper case
// or as "$link".
func (r *assetResolver) Resolve(text string) (entity.AssetIdentifier, error) {
	marked := entity.TokenizeMarked(text)
	if len(marked) == 0 {
		return entity.AssetIdentifier{}, entity.ErrAssetNotRecognized
	}
	tokens := make([]string, len(marked))
	for i, tok := range marked {
		tokens[i] = tok.Text
	}

	var (
		best  aliasMatch
		found bool
	)
	for _, alias := range r.aliases {
		for pos := range tokens {
			if alias.Strict && !marked[pos].Marked {
				continue
			}
			if !matchesAt(tokens, pos, alias) {
				continue
			}
			candidate := aliasMatch{alias: alias, position: pos}
			if !found || candidate.better(best) {
				best, found = candidate, true
			}
			break
		}
	}

	if !found {
		return entity.AssetIdentifier{}, entity.ErrAssetNotRecognized
	}
	return best.alias.Asset, nil
}

func matchesAt(tokens []string, pos int, alias entity.AssetAlias) bool {
	n := len(alias.Tokens)
	if n == 0 || pos+n > len(tokens) {
		return false
	}
	for i := 0; i < n-1; i++ {
		if tokens[pos+i] != alias.Tokens[i] {
			return false
		}
	}

	last, word := alias.Tokens[n-1], tokens[pos+n-1]
	if word == last {
		return true
	}
	if !alias.Inflected || !strings.HasPrefix(word, last) {
		return false
	}
	return utf8.RuneCountInString(word)-utf8.RuneCountInString(last) <= entity.MaxInflectionSuffix
}

// Suggest lists up to limit "Name (TICKER)" entries whose aliases partially match
// a word of text.
func (r *assetResolver) Suggest(text string, limit int) []string {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, word := range entity.Tokenize(text) {
		if utf8.RuneCountInString(word) < 3 {
			continue
		}
		if _, stop := suggestStopWords[word]; stop {
			continue
		}
		for _, alias := range r.aliases {
			if alias.RuneLen() < 3 {
				continue
			}
			if !strings.Contains(alias.Text, word) && !strings.Contains(word, alias.Text) {
				continue
			}
			name := alias.Asset.DisplayName()
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// SupportedAssets returns every asset as "Name (TICKER)", sorted.
func (r *assetResolver) SupportedAssets() []string {
	assets := r.table.Assets()
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.DisplayName())
	}
	sort.Strings(out)
	return out
}
