package bot

import (
	"strings"
	"testing"
	"time"

	"bot-jogos/internal/database"
	"bot-jogos/internal/models"
)

func TestRenderWishlistEmpty(t *testing.T) {
	text := renderWishlist(nil)
	if !strings.Contains(text, "empty") {
		t.Errorf("lista vazia deve orientar o usuário, recebido %q", text)
	}
}

func TestRenderWishlist(t *testing.T) {
	price := int64(1999)
	target := int64(1500)
	discount := int64(20)
	original := int64(2499)
	checked := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)

	items := []database.WishlistGame{
		{
			Item: models.WishlistItem{ID: 1, DesiredPriceCents: &target},
			Game: models.Game{
				Title:           "Celeste & Friends <DX>",
				LastPriceCents:  &price,
				OriginalCents:   &original,
				DiscountPercent: &discount,
				Currency:        "USD",
				LastChecked:     &checked,
			},
		},
		{
			Item: models.WishlistItem{ID: 2},
			Game: models.Game{Title: "Unchecked Game", Currency: "USD"},
		},
	}

	text := renderWishlist(items)

	if !strings.Contains(text, "1. <b>Celeste &amp; Friends &lt;DX&gt;</b>") {
		t.Errorf("título deve ser numerado e escapado, recebido %q", text)
	}
	if !strings.Contains(text, "$19.99") || !strings.Contains(text, "$15.00") {
		t.Errorf("preço atual e alvo devem aparecer, recebido %q", text)
	}
	if !strings.Contains(text, "20% off") || !strings.Contains(text, "was $24.99") {
		t.Errorf("desconto deve aparecer, recebido %q", text)
	}
	if !strings.Contains(text, "price not available") || !strings.Contains(text, "never") {
		t.Errorf("jogo nunca verificado deve aparecer sem preço, recebido %q", text)
	}
}

func TestRenderHistory(t *testing.T) {
	if text := renderHistory(nil); !strings.Contains(text, "No price alerts") {
		t.Errorf("histórico vazio inesperado: %q", text)
	}

	items := []database.NotificationGame{
		{
			Notification: models.Notification{PriceCents: 1700, SentAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)},
			Game:         models.Game{Title: "Title A", Currency: "USD"},
		},
	}
	text := renderHistory(items)
	if !strings.Contains(text, "Title A") || !strings.Contains(text, "$17.00") || !strings.Contains(text, "2026-08-20") {
		t.Errorf("histórico deve conter jogo, preço e data: %q", text)
	}
}

func TestEscapeHTML(t *testing.T) {
	if got := escapeHTML(`Tom & Jerry <b>"run"</b>`); got != `Tom &amp; Jerry &lt;b&gt;"run"&lt;/b&gt;` {
		t.Errorf("escapeHTML inesperado: %q", got)
	}
}

func TestRegionDisplayName(t *testing.T) {
	tests := []struct {
		region string
		want   string
	}{
		{models.RegionUS, "🇺🇸 United States"},
		{models.RegionEU, "🇪🇺 Europe"},
		{models.RegionJP, "🇯🇵 Japan"},
		{"br", "BR"},
	}
	for _, tt := range tests {
		if got := regionDisplayName(tt.region); got != tt.want {
			t.Errorf("regionDisplayName(%q) = %q, esperado %q", tt.region, got, tt.want)
		}
	}
}

func TestParsePriceCents(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"19.99", 1999, false},
		{"19,99", 1999, false},
		{" 5 ", 500, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePriceCents(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePriceCents(%q) deveria falhar", tt.input)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parsePriceCents(%q) = %d, %v; esperado %d", tt.input, got, err, tt.want)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("short", 60); got != "short" {
		t.Errorf("rótulo curto não deve mudar: %q", got)
	}

	long := strings.Repeat("a", 80)
	got := truncateLabel(long, 60)
	if len([]rune(got)) != 60 || !strings.HasSuffix(got, "…") {
		t.Errorf("rótulo longo deve ser cortado com reticências: %q", got)
	}
}
