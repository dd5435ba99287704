package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	delivery "ai-crypto-assistant/internal/assistant/delivery/http"
	bot "ai-crypto-assistant/internal/assistant/delivery/telegram"
	_ "ai-crypto-assistant/internal/assistant/docs"
	"ai-crypto-assistant/internal/assistant/service"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/telegram"
	"ai-crypto-assistant/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	askMode     string
	askModel    string
	askLanguage string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API, the Telegram bot and the cache warmer",
	Run:   runServe,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answers a single question and prints it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Lists the supported assets",
	RunE:  runAssets,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		log.Fatalf("Failed to start assistant service: %v", err)
	}
	defer a.Close()

	a.log.Info("Starting Assistant Service",
		logger.StringField("name", a.cfg.App.Name),
		logger.StringField("provider", a.cfg.AI.Provider),
	)
	a.assistant.CheckDependencies(ctx)

	var wg sync.WaitGroup

	if a.cfg.Telegram.BotToken != "" {
		tgBot, err := telegram.NewClient(a.cfg.Telegram.BotToken, a.cfg.Telegram.PollingTimeout)
		if err != nil {
			a.log.Fatal("Failed to initialize Telegram bot", logger.ErrorField(err))
		}
		handler := bot.NewBotHandler(a.cfg, a.log, tgBot, a.assistant)
		wg.Add(1)
		utils.GoSafe(ctx, a.log, func() {
			defer wg.Done()
			handler.Run(ctx)
		})
	} else {
		a.log.Warn("Telegram bot token not set, bot disabled")
	}

	if a.cfg.Warmer.Enabled {
		warmer := service.NewCacheWarmer(a.cfg, a.log, a.table, a.priceRepo, a.marketRepo)
		wg.Add(1)
		utils.GoSafe(ctx, a.log, func() {
			defer wg.Done()
			if err := warmer.Start(ctx); err != nil {
				a.log.Error("Cache warmer stopped", logger.ErrorField(err))
			}
		})
	}

	e := delivery.NewServer(a.assistant, a.log, a.metrics)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.log.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.log.Info("Shutting down assistant service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	wg.Wait()

	a.log.Info("Assistant service stopped")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := service.AskOptions{Model: askModel, Language: entity.Language(askLanguage)}
	if askMode != "" {
		if opts.Mode, err = entity.ParseAnalysisMode(askMode); err != nil {
			return err
		}
	}

	answer, err := a.assistant.Ask(ctx, strings.Join(args, " "), opts)
	if answer != nil {
		fmt.Fprintln(cmd.OutOrStdout(), answer.Formatted.Text)
	}
	if errors.Is(err, entity.ErrAssetNotRecognized) {
		return nil
	}
	return err
}

func runAssets(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, name := range a.assistant.SupportedAssets() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

// @title AI Crypto Assistant API
// @version 1.0
// @description Answers natural-language questions about crypto assets with live market data and an AI summary.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:          "assistant-service",
		Short:        "AI crypto assistant",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-assistant.yaml", "Path to the configuration file")
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "", "Analysis mode: basic, detailed or deep")
	askCmd.Flags().StringVar(&askModel, "model", "", "Model override")
	askCmd.Flags().StringVarP(&askLanguage, "language", "l", "", "Answer language: en or ru")

	rootCmd.AddCommand(serveCmd, askCmd, assetsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing assistant-service CLI: %s\n", err)
		os.Exit(1)
	}
}
