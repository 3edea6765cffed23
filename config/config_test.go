package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-de-teste")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load retornou erro: %v", err)
	}

	if cfg.CheckInterval != 30*time.Minute {
		t.Errorf("intervalo padrão = %v, esperado 30m", cfg.CheckInterval)
	}
	if cfg.DatabasePath != "./bot.db" {
		t.Errorf("caminho padrão do banco = %q", cfg.DatabasePath)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Errorf("timeout padrão = %v, esperado 15s", cfg.FetchTimeout)
	}
	if cfg.BaseWishlistLimit != 20 {
		t.Errorf("limite base padrão = %d, esperado 20", cfg.BaseWishlistLimit)
	}
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("token ausente deve ser erro")
	}
}

func TestLoadCustomInterval(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-de-teste")
	t.Setenv("CHECK_INTERVAL_MINUTES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load retornou erro: %v", err)
	}
	if cfg.CheckInterval != 5*time.Minute {
		t.Errorf("intervalo = %v, esperado 5m", cfg.CheckInterval)
	}
}

func TestLoadInvalidInterval(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-de-teste")
	t.Setenv("CHECK_INTERVAL_MINUTES", "0")

	if _, err := Load(); err == nil {
		t.Fatal("intervalo não positivo deve ser erro")
	}
}
