package repository

import (
	"fmt"
	"strings"

	"ai-crypto-assistant/internal/entity"

	"github.com/shopspring/decimal"
)

type promptText struct {
	intro         string
	asset         string
	priceHeader   string
	lastPrice     string
	change24h     string
	range24h      string
	volume24h     string
	rangePosition string
	marketHeader  string
	marketCap     string
	marketVolume  string
	rank          string
	circulating   string
	maxSupply     string
	unlimited     string
	turnover      string
	newsHeader    string
	noNews        string
	notAvailable  string
	missing       string
	modeBasic     string
	modeDetailed  string
	modeDeep      string
	respondIn     string
	noAdvice      string
	sourceNames   map[entity.DataSource]string
}

var promptTexts = map[entity.Language]promptText{
	entity.LanguageEnglish: {
		intro:         "You are a cryptocurrency market analyst. Use only the data below.",
		asset:         "Asset",
		priceHeader:   "PRICE DATA (exchange, 24h)",
		lastPrice:     "Last price",
		change24h:     "24h change",
		range24h:      "24h high / low",
		volume24h:     "24h volume",
		rangePosition: "Position within 24h range",
		marketHeader:  "MARKET DATA",
		marketCap:     "Market cap",
		marketVolume:  "24h trading volume",
		rank:          "Market cap rank",
		circulating:   "Circulating supply",
		maxSupply:     "Max supply",
		unlimited:     "unlimited",
		turnover:      "Turnover ratio (24h volume / market cap)",
		newsHeader:    "RECENT NEWS",
		noNews:        "No recent headlines mention this asset.",
		notAvailable:  "NOT AVAILABLE",
		missing:       "The following data is unavailable: %s. Do not guess or reason about it; state briefly that it is unavailable.",
		modeBasic:     "Write a short summary of 2-3 sentences covering the current price situation and the main news.",
		modeDetailed:  "Write a structured analysis with these sections: Price, Market position, News, Outlook. Keep each section to 2-4 sentences.",
		modeDeep:      "Write a technical analysis: interpret the 24h range, momentum and volume, use the derived metrics, reason about the short-term trend and key levels, then relate the news to it.",
		respondIn:     "Respond in English.",
		noAdvice:      "Do not give financial advice.",
		sourceNames: map[entity.DataSource]string{
			entity.SourcePrice:  "price data",
			entity.SourceMarket: "market data",
			entity.SourceNews:   "news",
		},
	},
	entity.LanguageRussian: {
		intro:         "Ты аналитик криптовалютного рынка. Используй только приведенные ниже данные.",
		asset:         "Актив",
		priceHeader:   "ДАННЫЕ О ЦЕНЕ (биржа, 24ч)",
		lastPrice:     "Последняя цена",
		change24h:     "Изменение за 24ч",
		range24h:      "Максимум / минимум за 24ч",
		volume24h:     "Объем за 24ч",
		rangePosition: "Положение в диапазоне 24ч",
		marketHeader:  "РЫНОЧНЫЕ ДАННЫЕ",
		marketCap:     "Рыночная капитализация",
		marketVolume:  "Объем торгов за 24ч",
		rank:          "Место по капитализации",
		circulating:   "Циркулирующее предложение",
		maxSupply:     "Максимальное предложение",
		unlimited:     "не ограничено",
		turnover:      "Коэффициент оборота (объем за 24ч / капитализация)",
		newsHeader:    "ПОСЛЕДНИЕ НОВОСТИ",
		noNews:        "Свежих новостей об этом активе нет.",
		notAvailable:  "НЕДОСТУПНО",
		missing:       "Следующие данные недоступны: %s. Не делай предположений о них, просто кратко укажи, что они недоступны.",
		modeBasic:     "Дай краткий анализ (2-3 предложения) о текущей ситуации с ценой и главных новостях.",
		modeDetailed:  "Дай структурированный анализ с разделами: Цена, Положение на рынке, Новости, Перспективы. В каждом разделе 2-4 предложения.",
		modeDeep:      "Дай технический анализ: интерпретируй диапазон за 24ч, импульс и объем, используй производные метрики, оцени краткосрочный тренд и ключевые уровни, затем свяжи с ними новости.",
		respondIn:     "Отвечай на русском языке.",
		noAdvice:      "Не давай финансовых советов.",
		sourceNames: map[entity.DataSource]string{
			entity.SourcePrice:  "данные о цене",
			entity.SourceMarket: "рыночные данные",
			entity.SourceNews:   "новости",
		},
	},
}

// BuildAnalysisPrompt renders the model input for an aggregate. The output depends
// only on its arguments, so identical inputs give byte-identical prompts.
func BuildAnalysisPrompt(result *entity.AggregateResult, mode entity.AnalysisMode, lang entity.Language) string {
	t, ok := promptTexts[lang]
	if !ok {
		t = promptTexts[entity.LanguageEnglish]
	}
	if result == nil {
		result = &entity.AggregateResult{}
	}

	var b strings.Builder
	b.WriteString(t.intro)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: %s\n\n", t.asset, result.Asset.DisplayName())

	writePriceBlock(&b, t, result.Price, mode)
	writeMarketBlock(&b, t, result.Market, mode)
	writeNewsBlock(&b, t, result)

	if missing := result.Missing(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, source := range missing {
			if source == entity.SourceNews {
				if _, failed := result.Failure(entity.SourceNews); !failed {
					continue
				}
			}
			names = append(names, t.sourceNames[source])
		}
		if len(names) > 0 {
			fmt.Fprintf(&b, t.missing, strings.Join(names, ", "))
			b.WriteString("\n\n")
		}
	}

	switch mode {
	case entity.AnalysisModeDetailed:
		b.WriteString(t.modeDetailed)
	case entity.AnalysisModeDeep:
		b.WriteString(t.modeDeep)
	default:
		b.WriteString(t.modeBasic)
	}
	b.WriteString("\n")
	b.WriteString(t.respondIn)
	b.WriteString(" ")
	b.WriteString(t.noAdvice)
	b.WriteString("\n")

	return b.String()
}

func writePriceBlock(b *strings.Builder, t promptText, p *entity.PriceSnapshot, mode entity.AnalysisMode) {
	if p == nil {
		fmt.Fprintf(b, "%s: %s\n\n", t.priceHeader, t.notAvailable)
		return
	}
	fmt.Fprintf(b, "%s:\n", t.priceHeader)
	fmt.Fprintf(b, "- %s: %s USD\n", t.lastPrice, promptNumber(p.LastPrice))
	fmt.Fprintf(b, "- %s: %s%%\n", t.change24h, promptPercent(p.ChangePercent24h))
	fmt.Fprintf(b, "- %s: %s / %s USD\n", t.range24h, promptNumber(p.High24h), promptNumber(p.Low24h))
	fmt.Fprintf(b, "- %s: %s\n", t.volume24h, promptNumber(p.Volume24h))
	if mode == entity.AnalysisModeDeep {
		if spread := p.High24h.Sub(p.Low24h); spread.IsPositive() {
			position := p.LastPrice.Sub(p.Low24h).Div(spread).Mul(decimal.NewFromInt(100))
			fmt.Fprintf(b, "- %s: %s%%\n", t.rangePosition, position.StringFixed(1))
		}
	}
	b.WriteString("\n")
}

func writeMarketBlock(b *strings.Builder, t promptText, m *entity.MarketSnapshot, mode entity.AnalysisMode) {
	if m == nil {
		fmt.Fprintf(b, "%s: %s\n\n", t.marketHeader, t.notAvailable)
		return
	}
	fmt.Fprintf(b, "%s:\n", t.marketHeader)
	fmt.Fprintf(b, "- %s: %s USD\n", t.marketCap, promptNumber(m.MarketCap))
	fmt.Fprintf(b, "- %s: %s USD\n", t.marketVolume, promptNumber(m.Volume24h))
	if m.Rank > 0 {
		fmt.Fprintf(b, "- %s: #%d\n", t.rank, m.Rank)
	}
	if mode != entity.AnalysisModeBasic {
		if m.CirculatingSupply.IsPositive() {
			fmt.Fprintf(b, "- %s: %s\n", t.circulating, promptNumber(m.CirculatingSupply))
		}
		if m.MaxSupply != nil {
			fmt.Fprintf(b, "- %s: %s\n", t.maxSupply, promptNumber(*m.MaxSupply))
		} else {
			fmt.Fprintf(b, "- %s: %s\n", t.maxSupply, t.unlimited)
		}
	}
	if mode == entity.AnalysisModeDeep && m.MarketCap.IsPositive() {
		fmt.Fprintf(b, "- %s: %s\n", t.turnover, m.TurnoverRatio().StringFixed(4))
	}
	b.WriteString("\n")
}

func writeNewsBlock(b *strings.Builder, t promptText, result *entity.AggregateResult) {
	if _, failed := result.Failure(entity.SourceNews); failed {
		fmt.Fprintf(b, "%s: %s\n\n", t.newsHeader, t.notAvailable)
		return
	}
	if len(result.News) == 0 {
		fmt.Fprintf(b, "%s:\n%s\n\n", t.newsHeader, t.noNews)
		return
	}
	fmt.Fprintf(b, "%s:\n", t.newsHeader)
	for i, n := range result.News {
		date := "N/A"
		if !n.PublishedAt.IsZero() {
			date = n.PublishedAt.UTC().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(b, "%d. [%s] %s", i+1, date, n.Title)
		if n.Source != "" {
			fmt.Fprintf(b, " (%s)", n.Source)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// promptNumber keeps two decimals for values of 1 and above and up to eight
// significant fractional digits below that.
func promptNumber(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return d.StringFixed(2)
	}
	return d.Round(8).String()
}

func promptPercent(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}
