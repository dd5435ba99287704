package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/service"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/telegram"
	"ai-crypto-assistant/pkg/utils"

	"github.com/google/uuid"
)

const (
	helpTextEN = `*AI Crypto Assistant*

Ask about any supported cryptocurrency, for example:
- Tell me about Bitcoin
- What's new with Solana?

Commands:
/detailed <question> - structured analysis
/deep <question> - technical analysis
/assets - supported assets
/help - this message`

	helpTextRU = `*AI Crypto Assistant*

Спросите о любой поддерживаемой криптовалюте, например:
- Расскажи про Биткоин
- Что нового у Эфириума?

Команды:
/detailed <вопрос> - подробный анализ
/deep <вопрос> - технический анализ
/assets - список активов
/help - эта справка`
)

// BotHandler answers Telegram messages through the assistant pipeline.
type BotHandler struct {
	cfg              *config.Config
	log              *logger.Logger
	bot              telegram.Bot
	assistantService service.AssistantService
}

// NewBotHandler creates a new BotHandler.
func NewBotHandler(cfg *config.Config, log *logger.Logger, bot telegram.Bot, assistantService service.AssistantService) *BotHandler {
	return &BotHandler{
		cfg:              cfg,
		log:              log,
		bot:              bot,
		assistantService: assistantService,
	}
}

// Run handles updates until ctx is done, then waits for in-flight answers.
func (h *BotHandler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	h.log.Info("Telegram bot started")

	for upd := range h.bot.Updates(ctx) {
		upd := upd
		reqCtx := logger.WithRequestID(ctx, uuid.NewString())
		wg.Add(1)
		utils.GoSafe(reqCtx, h.log, func() {
			defer wg.Done()
			reply := h.Reply(reqCtx, upd)
			if reply == "" {
				return
			}
			if err := h.bot.SendMessage(upd.ChatID, reply); err != nil {
				h.log.ErrorContext(reqCtx, "Failed to send telegram reply",
					logger.Field("chat_id", upd.ChatID),
					logger.ErrorField(err),
				)
			}
		})
	}

	h.bot.Stop()
	wg.Wait()
	h.log.Info("Telegram bot stopped")
}

// Reply computes the answer to one message. It returns "" for messages that
// need no reply.
func (h *BotHandler) Reply(ctx context.Context, upd telegram.Update) string {
	command, args := splitCommand(upd.Text)
	lang := h.language(args, upd.Text)

	switch command {
	case "":
		return h.ask(ctx, upd, args, entity.AnalysisMode(""), lang)
	case "start", "help":
		if lang == entity.LanguageRussian {
			return helpTextRU
		}
		return helpTextEN
	case "assets":
		assets := h.assistantService.SupportedAssets()
		return fmt.Sprintf("*%d*\n%s", len(assets), strings.Join(assets, "\n"))
	case "detailed":
		return h.ask(ctx, upd, args, entity.AnalysisModeDetailed, lang)
	case "deep":
		return h.ask(ctx, upd, args, entity.AnalysisModeDeep, lang)
	default:
		if lang == entity.LanguageRussian {
			return "Неизвестная команда. " + helpTextRU
		}
		return "Unknown command. " + helpTextEN
	}
}

func (h *BotHandler) ask(ctx context.Context, upd telegram.Update, text string, mode entity.AnalysisMode, lang entity.Language) string {
	if strings.TrimSpace(text) == "" {
		if lang == entity.LanguageRussian {
			return helpTextRU
		}
		return helpTextEN
	}

	h.log.InfoContext(ctx, "Telegram query",
		logger.Field("chat_id", upd.ChatID),
		logger.StringField("username", upd.Username),
		logger.StringField("mode", string(mode)),
	)

	answer, err := h.assistantService.Ask(ctx, text, service.AskOptions{Mode: mode})
	switch {
	case errors.Is(err, entity.ErrAssetNotRecognized) && answer != nil:
		return answer.Formatted.Text
	case err != nil:
		h.log.ErrorContext(ctx, "Failed to answer telegram query", logger.ErrorField(err))
		if lang == entity.LanguageRussian {
			return "Не удалось обработать запрос, попробуйте позже."
		}
		return "Sorry, something went wrong. Please try again later."
	}
	return answer.Formatted.Text
}

func (h *BotHandler) language(args, raw string) entity.Language {
	if strings.TrimSpace(args) != "" {
		return service.DetectLanguage(args)
	}
	if service.DetectLanguage(raw) == entity.LanguageRussian {
		return entity.LanguageRussian
	}
	return entity.ParseLanguage(h.cfg.Assistant.DefaultLanguage)
}

// splitCommand separates "/cmd@bot rest" into "cmd" and "rest". Plain text has
// an empty command.
func splitCommand(text string) (command, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest)
}
