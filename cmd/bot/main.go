package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bot-jogos/config"
	"bot-jogos/internal/bot"
	"bot-jogos/internal/database"
	"bot-jogos/internal/entitlement"
	"bot-jogos/internal/metrics"
	"bot-jogos/internal/monitor"
	"bot-jogos/internal/notifier"
	"bot-jogos/internal/provider"
	"bot-jogos/internal/session"
	"bot-jogos/internal/web"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Logs estruturados em JSON para todo o processo
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		slog.Info("arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("erro ao carregar configurações", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("erro ao inicializar banco de dados", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	botAPI, err := bot.Init(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("erro ao inicializar bot do Telegram", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	deku := provider.NewDekuDealsProvider(cfg.FetchTimeout)
	sessions := session.NewStore(cfg.SessionTTL)
	limits := entitlement.NewService(db, cfg.BaseWishlistLimit)

	// Todas as dependências do ciclo entram pelo construtor; não há
	// inicialização em duas fases
	mon := monitor.New(db, deku, notifier.NewTelegramNotifier(botAPI), collector, cfg.CheckInterval, cfg.FetchTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go mon.Start(ctx)
	go sessions.Run(ctx)
	go bot.Listen(ctx, botAPI, db, deku, sessions, limits)

	srv := web.NewServer(cfg.HTTPPort, mon, registry)
	go func() {
		slog.Info("servidor HTTP iniciado", slog.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("erro no servidor HTTP", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	slog.Info("encerrando bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("erro ao encerrar servidor HTTP", slog.String("error", err.Error()))
	}
}
