package service

import (
	"fmt"
	"strings"

	"ai-crypto-assistant/internal/entity"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

type formatterText struct {
	priceTitle      string
	marketTitle     string
	newsTitle       string
	aiTitle         string
	lastPrice       string
	change24h       string
	range24h        string
	volume24h       string
	marketCap       string
	marketVolume    string
	rank            string
	circulating     string
	maxSupply       string
	unlimited       string
	noNews          string
	unavailable     string
	aiUnavailable   string
	disclaimer      string
	notRecognized   string
	didYouMean      string
	tryExamples     string
	compactSuffixes [4]string
	failureKinds    map[entity.FailureKind]string
}

var formatterTexts = map[entity.Language]formatterText{
	entity.LanguageEnglish: {
		priceTitle:      "Price",
		marketTitle:     "Market",
		newsTitle:       "News",
		aiTitle:         "AI analysis",
		lastPrice:       "Price",
		change24h:       "24h change",
		range24h:        "24h range",
		volume24h:       "24h volume",
		marketCap:       "Market cap",
		marketVolume:    "Trading volume",
		rank:            "Rank",
		circulating:     "Circulating supply",
		maxSupply:       "Max supply",
		unlimited:       "unlimited",
		noNews:          "No recent headlines.",
		unavailable:     "Unavailable",
		aiUnavailable:   "AI analysis unavailable",
		disclaimer:      "_This is not financial advice._",
		notRecognized:   "I could not find a known cryptocurrency in your question: %q.",
		didYouMean:      "Did you mean",
		tryExamples:     "Try for example: \"Tell me about Bitcoin\" or \"What's new with Ethereum?\"",
		compactSuffixes: [4]string{"K", "M", "B", "T"},
		failureKinds: map[entity.FailureKind]string{
			entity.FailureTimeout:              "timed out",
			entity.FailureRateLimited:          "rate limited",
			entity.FailureHTTPStatus:           "provider error",
			entity.FailureMalformedPayload:     "unreadable response",
			entity.FailureNetwork:              "network error",
			entity.FailureConfigurationMissing: "not configured",
			entity.FailureCanceled:             "canceled",
			entity.FailureInternal:             "internal error",
		},
	},
	entity.LanguageRussian: {
		priceTitle:      "Цена",
		marketTitle:     "Рынок",
		newsTitle:       "Новости",
		aiTitle:         "AI-анализ",
		lastPrice:       "Цена",
		change24h:       "Изменение за 24ч",
		range24h:        "Диапазон за 24ч",
		volume24h:       "Объем за 24ч",
		marketCap:       "Капитализация",
		marketVolume:    "Объем торгов",
		rank:            "Место",
		circulating:     "В обращении",
		maxSupply:       "Макс. предложение",
		unlimited:       "не ограничено",
		noNews:          "Свежих новостей нет.",
		unavailable:     "Недоступно",
		aiUnavailable:   "AI-анализ недоступен",
		disclaimer:      "_Это не финансовая рекомендация._",
		notRecognized:   "Не удалось найти известную криптовалюту в вашем вопросе: %q.",
		didYouMean:      "Возможно, вы имели в виду",
		tryExamples:     "Попробуйте, например: \"Расскажи про Биткоин\" или \"Что нового у Эфириума?\"",
		compactSuffixes: [4]string{" тыс.", " млн", " млрд", " трлн"},
		failureKinds: map[entity.FailureKind]string{
			entity.FailureTimeout:              "превышено время ожидания",
			entity.FailureRateLimited:          "превышен лимит запросов",
			entity.FailureHTTPStatus:           "ошибка провайдера",
			entity.FailureMalformedPayload:     "некорректный ответ",
			entity.FailureNetwork:              "ошибка сети",
			entity.FailureConfigurationMissing: "не настроено",
			entity.FailureCanceled:             "отменено",
			entity.FailureInternal:             "внутренняя ошибка",
		},
	},
}

func textsFor(lang entity.Language) (formatterText, entity.Language) {
	if t, ok := formatterTexts[lang]; ok {
		return t, lang
	}
	return formatterTexts[entity.LanguageEnglish], entity.LanguageEnglish
}

// FormatAnswer renders the analysis as Markdown with sections in the order price,
// market, news, AI. Missing data is marked unavailable with its failure kind.
func FormatAnswer(result *entity.AnalysisResult, lang entity.Language) entity.FormattedAnswer {
	t, lang := textsFor(lang)
	f := newNumberFormatter(lang, t)

	var aggregate *entity.AggregateResult
	if result != nil {
		aggregate = result.Aggregate
	}
	if aggregate == nil {
		aggregate = &entity.AggregateResult{}
	}

	sections := []entity.AnswerSection{
		priceSection(aggregate, t, f),
		marketSection(aggregate, t, f),
		newsSection(aggregate, t),
		aiSection(result, t),
	}

	var b strings.Builder
	if name := assetHeading(aggregate.Asset); name != "" {
		fmt.Fprintf(&b, "*%s*\n\n", name)
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "*%s*\n%s\n\n", s.Title, s.Body)
	}
	b.WriteString(t.disclaimer)

	return entity.FormattedAnswer{
		Language: lang,
		Text:     b.String(),
		Sections: sections,
	}
}

// FormatNotRecognized renders the answer for a query without a known asset.
func FormatNotRecognized(text string, suggestions []string, lang entity.Language) entity.FormattedAnswer {
	t, lang := textsFor(lang)

	var b strings.Builder
	fmt.Fprintf(&b, t.notRecognized, strings.TrimSpace(text))
	if len(suggestions) > 0 {
		fmt.Fprintf(&b, "\n\n%s: %s?", t.didYouMean, strings.Join(suggestions, ", "))
	}
	b.WriteString("\n\n")
	b.WriteString(t.tryExamples)

	return entity.FormattedAnswer{
		Language: lang,
		Text:     b.String(),
		Sections: []entity.AnswerSection{},
	}
}

func assetHeading(asset entity.AssetIdentifier) string {
	if asset.Name == "" && asset.Ticker == "" {
		return ""
	}
	return asset.DisplayName()
}

func unavailableSection(kind entity.SectionKind, title string, agg *entity.AggregateResult, source entity.DataSource, t formatterText) entity.AnswerSection {
	body := t.unavailable
	if failure, ok := agg.Failure(source); ok {
		reason, known := t.failureKinds[failure.Kind]
		if !known {
			reason = string(failure.Kind)
		}
		body = fmt.Sprintf("%s (%s: %s)", t.unavailable, failure.Kind, reason)
	}
	return entity.AnswerSection{Kind: kind, Title: title, Body: "_" + body + "_", Available: false}
}

func priceSection(agg *entity.AggregateResult, t formatterText, f numberFormatter) entity.AnswerSection {
	p := agg.Price
	if p == nil {
		return unavailableSection(entity.SectionPrice, t.priceTitle, agg, entity.SourcePrice, t)
	}

	lines := []string{
		fmt.Sprintf("%s: %s", t.lastPrice, f.usd(p.LastPrice)),
		fmt.Sprintf("%s: %s", t.change24h, f.percent(p.ChangePercent24h)),
		fmt.Sprintf("%s: %s - %s", t.range24h, f.usd(p.Low24h), f.usd(p.High24h)),
		fmt.Sprintf("%s: %s", t.volume24h, f.compact(p.Volume24h)),
	}
	return entity.AnswerSection{Kind: entity.SectionPrice, Title: t.priceTitle, Body: strings.Join(lines, "\n"), Available: true}
}

func marketSection(agg *entity.AggregateResult, t formatterText, f numberFormatter) entity.AnswerSection {
	m := agg.Market
	if m == nil {
		return unavailableSection(entity.SectionMarket, t.marketTitle, agg, entity.SourceMarket, t)
	}

	lines := []string{
		fmt.Sprintf("%s: $%s", t.marketCap, f.compact(m.MarketCap)),
		fmt.Sprintf("%s: $%s", t.marketVolume, f.compact(m.Volume24h)),
	}
	if m.Rank > 0 {
		lines = append(lines, fmt.Sprintf("%s: #%d", t.rank, m.Rank))
	}
	if m.CirculatingSupply.IsPositive() {
		lines = append(lines, fmt.Sprintf("%s: %s", t.circulating, f.compact(m.CirculatingSupply)))
	}
	if m.MaxSupply != nil {
		lines = append(lines, fmt.Sprintf("%s: %s", t.maxSupply, f.compact(*m.MaxSupply)))
	} else {
		lines = append(lines, fmt.Sprintf("%s: %s", t.maxSupply, t.unlimited))
	}
	return entity.AnswerSection{Kind: entity.SectionMarket, Title: t.marketTitle, Body: strings.Join(lines, "\n"), Available: true}
}

func newsSection(agg *entity.AggregateResult, t formatterText) entity.AnswerSection {
	if _, failed := agg.Failure(entity.SourceNews); failed {
		return unavailableSection(entity.SectionNews, t.newsTitle, agg, entity.SourceNews, t)
	}
	if len(agg.News) == 0 {
		return entity.AnswerSection{Kind: entity.SectionNews, Title: t.newsTitle, Body: t.noNews, Available: true}
	}

	lines := make([]string, 0, len(agg.News))
	for i, n := range agg.News {
		line := fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(n.Title))
		var meta []string
		if n.Source != "" {
			meta = append(meta, n.Source)
		}
		if !n.PublishedAt.IsZero() {
			meta = append(meta, n.PublishedAt.UTC().Format("2006-01-02"))
		}
		if len(meta) > 0 {
			line += " (" + strings.Join(meta, ", ") + ")"
		}
		lines = append(lines, line)
	}
	return entity.AnswerSection{Kind: entity.SectionNews, Title: t.newsTitle, Body: strings.Join(lines, "\n"), Available: true}
}

func aiSection(result *entity.AnalysisResult, t formatterText) entity.AnswerSection {
	if result == nil || !result.AISucceeded || strings.TrimSpace(result.Narrative) == "" {
		return entity.AnswerSection{Kind: entity.SectionAI, Title: t.aiTitle, Body: "_" + t.aiUnavailable + "_", Available: false}
	}
	return entity.AnswerSection{Kind: entity.SectionAI, Title: t.aiTitle, Body: result.Narrative, Available: true}
}

// numberFormatter renders decimals with the language's grouping and decimal separators.
type numberFormatter struct {
	printer  *message.Printer
	suffixes [4]string
}

func newNumberFormatter(lang entity.Language, t formatterText) numberFormatter {
	return numberFormatter{
		printer:  message.NewPrinter(lang.Tag()),
		suffixes: t.compactSuffixes,
	}
}

// usd keeps two decimals for prices of 1 and above and up to eight significant
// fractional digits below that.
func (f numberFormatter) usd(d decimal.Decimal) string {
	return "$" + f.plain(d)
}

func (f numberFormatter) plain(d decimal.Decimal) string {
	v := d.InexactFloat64()
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1)) || d.IsZero() {
		return f.printer.Sprintf("%.2f", v)
	}
	places := 2
	if _, frac, ok := strings.Cut(d.Round(8).String(), "."); ok && len(frac) > places {
		places = len(frac)
	}
	return f.printer.Sprintf(fmt.Sprintf("%%.%df", places), v)
}

func (f numberFormatter) percent(d decimal.Decimal) string {
	s := f.printer.Sprintf("%.2f%%", d.InexactFloat64())
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

var compactThresholds = [4]decimal.Decimal{
	decimal.New(1, 3),
	decimal.New(1, 6),
	decimal.New(1, 9),
	decimal.New(1, 12),
}

// compact shortens large amounts with K/M/B/T suffixes.
func (f numberFormatter) compact(d decimal.Decimal) string {
	abs := d.Abs()
	for i := len(compactThresholds) - 1; i >= 0; i-- {
		if abs.GreaterThanOrEqual(compactThresholds[i]) {
			scaled := d.Div(compactThresholds[i])
			return f.printer.Sprintf("%.2f", scaled.InexactFloat64()) + f.suffixes[i]
		}
	}
	return f.plain(d)
}
