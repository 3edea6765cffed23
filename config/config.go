package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contém as configurações da aplicação, carregadas uma única vez
// na inicialização e tratadas como imutáveis
type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
	DatabasePath     string `env:"DATABASE_PATH" envDefault:"./bot.db"`

	// Intervalo entre varreduras de preço
	CheckIntervalMinutes int           `env:"CHECK_INTERVAL_MINUTES" envDefault:"30"`
	CheckInterval        time.Duration `env:"-"`

	// Timeout por requisição ao DekuDeals
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`

	// Porta do servidor HTTP de health/métricas
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// Tempo de vida das sessões de busca em memória
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"10m"`

	// Limite base de jogos na wishlist (bônus premium são somados a ele)
	BaseWishlistLimit int `env:"BASE_WISHLIST_LIMIT" envDefault:"20"`
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler variáveis de ambiente: %w", err)
	}

	if cfg.CheckIntervalMinutes <= 0 {
		return nil, fmt.Errorf("CHECK_INTERVAL_MINUTES deve ser positivo, recebido %d", cfg.CheckIntervalMinutes)
	}
	cfg.CheckInterval = time.Duration(cfg.CheckIntervalMinutes) * time.Minute

	return cfg, nil
}
