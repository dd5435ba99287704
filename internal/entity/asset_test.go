package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "What's up with BTC?", want: []string{"what", "s", "up", "with", "btc"}},
		{in: "  Shiba-Inu  ", want: []string{"shiba", "inu"}},
		{in: "ЁЖИК и Эфир", want: []string{"ежик", "и", "эфир"}},
		{in: "ｂｉｔｃｏｉｎ", want: []string{"bitcoin"}},
		{in: "?!", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssetIdentifierValidate(t *testing.T) {
	valid := AssetIdentifier{ID: "bitcoin", Name: "Bitcoin", Ticker: "BTC", ExchangeSymbol: "BTCUSDT", MarketDataID: "bitcoin"}
	require.NoError(t, valid.Validate())
	assert.Equal(t, "Bitcoin (BTC)", valid.DisplayName())

	broken := valid
	broken.ExchangeSymbol = " "
	assert.ErrorIs(t, broken.Validate(), ErrInvalidAsset)

	broken = valid
	broken.MarketDataID = ""
	assert.ErrorIs(t, broken.Validate(), ErrInvalidAsset)
}

func TestDefaultAssetTable(t *testing.T) {
	table, err := NewDefaultAssetTable()
	require.NoError(t, err)
	assert.Equal(t, len(DefaultAssets()), table.Len())

	btc, ok := table.Lookup(" Bitcoin ")
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", btc.ExchangeSymbol)

	_, ok = table.Lookup("dogelon")
	assert.False(t, ok)

	assert.Contains(t, table.AliasesOf("bitcoin"), "btc")
	assert.Contains(t, table.AliasesOf("bitcoin"), "биткоин")

	for _, asset := range table.Assets() {
		assert.NoError(t, asset.Validate(), asset.ID)
	}
}

func TestAssetTableAliasesAreCopies(t *testing.T) {
	table, err := NewDefaultAssetTable()
	require.NoError(t, err)

	aliases := table.Aliases()
	aliases[0].Tokens[0] = "mutated"
	assert.NotEqual(t, "mutated", table.Aliases()[0].Tokens[0])
}

func TestAssetTableInflection(t *testing.T) {
	table, err := NewAssetTable([]Asset{
		{ID: "bitcoin", Name: "Bitcoin", Ticker: "BTC", ExchangeSymbol: "BTCUSDT", MarketDataID: "bitcoin", Aliases: []string{"биткоин", "бтк"}},
	})
	require.NoError(t, err)

	inflected := map[string]bool{}
	for _, alias := range table.Aliases() {
		inflected[alias.Text] = alias.Inflected
	}
	assert.True(t, inflected["биткоин"])
	assert.False(t, inflected["бтк"])
	assert.False(t, inflected["bitcoin"])
}

func TestNewAssetTableRejectsMalformedInput(t *testing.T) {
	btc := Asset{ID: "bitcoin", Name: "Bitcoin", Ticker: "BTC", ExchangeSymbol: "BTCUSDT", MarketDataID: "bitcoin"}

	tests := []struct {
		name   string
		assets []Asset
	}{
		{name: "empty", assets: nil},
		{name: "duplicate id", assets: []Asset{btc, btc}},
		{name: "missing symbol", assets: []Asset{{ID: "x", Name: "X", Ticker: "X", MarketDataID: "x"}}},
		{name: "alias collision", assets: []Asset{
			btc,
			{ID: "bitcoin-cash", Name: "Bitcoin Cash", Ticker: "BCH", ExchangeSymbol: "BCHUSDT", MarketDataID: "bitcoin-cash", Aliases: []string{"Bitcoin"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssetTable(tt.assets)
			assert.ErrorIs(t, err, ErrMalformedAssetTable)
		})
	}
}

func TestAmbiguousTickerIsStrictAlias(t *testing.T) {
	table, err := NewAssetTable([]Asset{
		{ID: "chainlink", Name: "Chainlink", Ticker: "LINK", ExchangeSymbol: "LINKUSDT", MarketDataID: "chainlink", AmbiguousTicker: true},
		{ID: "bitcoin", Name: "Bitcoin", Ticker: "BTC", ExchangeSymbol: "BTCUSDT", MarketDataID: "bitcoin"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"chainlink", "link"}, table.AliasesOf("chainlink"))

	strict := map[string]bool{}
	for _, alias := range table.Aliases() {
		strict[alias.Text] = alias.Strict
	}
	assert.True(t, strict["link"])
	assert.False(t, strict["chainlink"])
	assert.False(t, strict["btc"])
}

func TestTokenizeMarked(t *testing.T) {
	got := TokenizeMarked("What is the LINK price, $op or Dot? ЭФИР x2")
	want := []Token{
		{Text: "what"}, {Text: "is"}, {Text: "the"},
		{Text: "link", Marked: true},
		{Text: "price"},
		{Text: "op", Marked: true},
		{Text: "or"},
		{Text: "dot"},
		{Text: "эфир", Marked: true},
		{Text: "x2"},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, TokenizeMarked("$ ?!"))
}

func TestShortCyrillicStemsAreNotInflected(t *testing.T) {
	table, err := NewAssetTable([]Asset{
		{ID: "tron", Name: "TRON", Ticker: "TRX", ExchangeSymbol: "TRXUSDT", MarketDataID: "tron", Aliases: []string{"трон", "доги", "трона"}},
	})
	require.NoError(t, err)

	inflected := map[string]bool{}
	for _, alias := range table.Aliases() {
		inflected[alias.Text] = alias.Inflected
	}
	assert.False(t, inflected["трон"])
	assert.False(t, inflected["доги"])
	assert.True(t, inflected["трона"])
}
