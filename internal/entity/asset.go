package entity

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxInflectionSuffix is how many trailing runes a Cyrillic alias may gain and still match.
const MaxInflectionSuffix = 3

// Shorter Cyrillic stems only match exactly. Four-letter stems such as "трон"
// prefix too many ordinary words.
const minInflectedStem = 5

// AssetIdentifier is the canonical handle of one cryptocurrency, independent of
// any single provider's naming.
type AssetIdentifier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Ticker         string `json:"ticker"`
	ExchangeSymbol string `json:"exchange_symbol"`
	MarketDataID   string `json:"market_data_id"`
}

// Validate reports whether the identifier carries every field the data sources need.
func (a AssetIdentifier) Validate() error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidAsset)
	case strings.TrimSpace(a.Ticker) == "":
		return fmt.Errorf("%w: empty ticker for %s", ErrInvalidAsset, a.ID)
	case strings.TrimSpace(a.ExchangeSymbol) == "":
		return fmt.Errorf("%w: empty exchange symbol for %s", ErrInvalidAsset, a.ID)
	case strings.TrimSpace(a.MarketDataID) == "":
		return fmt.Errorf("%w: empty market data id for %s", ErrInvalidAsset, a.ID)
	}
	return nil
}

// DisplayName renders "Name (TICKER)".
func (a AssetIdentifier) DisplayName() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Ticker)
}

// Asset is one row of the static asset table.
type Asset struct {
	ID             string
	Name           string
	Ticker         string
	ExchangeSymbol string
	MarketDataID   string
	Aliases        []string

	// AmbiguousTicker marks tickers that are also common words ("link", "op").
	// They only match a word typed in upper case or with a "$" prefix.
	AmbiguousTicker bool
}

// Identifier returns the immutable identifier for the asset.
func (a Asset) Identifier() AssetIdentifier {
	return AssetIdentifier{
		ID:             a.ID,
		Name:           a.Name,
		Ticker:         a.Ticker,
		ExchangeSymbol: a.ExchangeSymbol,
		MarketDataID:   a.MarketDataID,
	}
}

// AssetAlias is a normalized alias pointing at one asset. A Strict alias only
// matches a marked token (see Token).
type AssetAlias struct {
	Text      string
	Tokens    []string
	Inflected bool
	Strict    bool
	Asset     AssetIdentifier
	// Order is the alias position in the table and breaks ties deterministically.
	Order int
}

// RuneLen is the alias length used to prefer the longest match.
func (a AssetAlias) RuneLen() int {
	return utf8.RuneCountInString(a.Text)
}

// AssetTable is the read-only asset mapping built once at process start.
type AssetTable struct {
	assets  []AssetIdentifier
	aliases []AssetAlias
	byID    map[string]int
}

// NewAssetTable validates the assets and builds the alias index. An alias claimed
// by two different assets makes the table malformed.
func NewAssetTable(assets []Asset) (*AssetTable, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("%w: no assets", ErrMalformedAssetTable)
	}

	table := &AssetTable{
		assets: make([]AssetIdentifier, 0, len(assets)),
		byID:   make(map[string]int, len(assets)),
	}
	owners := make(map[string]string)

	for _, asset := range assets {
		id := asset.Identifier()
		if err := id.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedAssetTable, err)
		}
		if _, exists := table.byID[id.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate asset id %q", ErrMalformedAssetTable, id.ID)
		}
		table.byID[id.ID] = len(table.assets)
		table.assets = append(table.assets, id)

		candidates := make([]string, 0, len(asset.Aliases)+2)
		candidates = append(candidates, asset.Ticker, asset.Name)
		candidates = append(candidates, asset.Aliases...)
		for i, raw := range candidates {
			tokens := Tokenize(raw)
			if len(tokens) == 0 {
				continue
			}
			text := strings.Join(tokens, " ")
			if owner, ok := owners[text]; ok {
				if owner != id.ID {
					return nil, fmt.Errorf("%w: alias %q claimed by %s and %s", ErrMalformedAssetTable, text, owner, id.ID)
				}
				continue
			}
			owners[text] = id.ID
			table.aliases = append(table.aliases, AssetAlias{
				Text:      text,
				Tokens:    tokens,
				Inflected: containsCyrillic(text) && utf8.RuneCountInString(tokens[len(tokens)-1]) >= minInflectedStem,
				Strict:    i == 0 && asset.AmbiguousTicker,
				Asset:     id,
				Order:     len(table.aliases),
			})
		}
	}

	return table, nil
}

// Aliases returns a copy of the alias index in table order.
func (t *AssetTable) Aliases() []AssetAlias {
	out := make([]AssetAlias, len(t.aliases))
	for i, alias := range t.aliases {
		alias.Tokens = append([]string(nil), alias.Tokens...)
		out[i] = alias
	}
	return out
}

// Assets returns a copy of every asset identifier in table order.
func (t *AssetTable) Assets() []AssetIdentifier {
	return append([]AssetIdentifier(nil), t.assets...)
}

// Lookup finds an asset by canonical id.
func (t *AssetTable) Lookup(id string) (AssetIdentifier, bool) {
	idx, ok := t.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return AssetIdentifier{}, false
	}
	return t.assets[idx], true
}

// AliasesOf lists the raw alias texts of one asset, sorted.
func (t *AssetTable) AliasesOf(id string) []string {
	var out []string
	for _, alias := range t.aliases {
		if alias.Asset.ID == id {
			out = append(out, alias.Text)
		}
	}
	sort.Strings(out)
	return out
}

// Len is the number of assets in the table.
func (t *AssetTable) Len() int {
	return len(t.assets)
}

// Token is one normalized word of a text. Marked is set when the raw word was
// typed in upper case or right after a "$", the way tickers usually are.
type Token struct {
	Text   string
	Marked bool
}

// Tokenize normalizes text (NFKC, case folding, ё→е) and splits it into letter/digit tokens.
func Tokenize(text string) []string {
	marked := TokenizeMarked(text)
	out := make([]string, len(marked))
	for i, tok := range marked {
		out[i] = tok.Text
	}
	return out
}

// TokenizeMarked is Tokenize keeping track of which words were marked.
func TokenizeMarked(text string) []Token {
	var (
		normalized = norm.NFKC.String(text)
		folder     = cases.Fold()
		out        []Token
		start      = -1
	)
	flush := func(end int) {
		word := normalized[start:end]
		out = append(out, Token{
			Text:   strings.ReplaceAll(folder.String(word), "ё", "е"),
			Marked: (start > 0 && normalized[start-1] == '$') || isUpperWord(word),
		})
		start = -1
	}

	for i, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
		}
	}
	if start >= 0 {
		flush(len(normalized))
	}
	return out
}

func isUpperWord(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 0
}

func containsCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
