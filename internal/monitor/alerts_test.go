package monitor

import (
	"strings"
	"testing"

	"bot-jogos/internal/models"
)

func ptr(v int64) *int64 { return &v }

func entry(id int64, desired, watermark *int64) models.WishlistEntry {
	return models.WishlistEntry{
		Item: models.WishlistItem{
			ID:                id,
			UserID:            id,
			GameID:            1,
			DesiredPriceCents: desired,
			LastNotifiedCents: watermark,
		},
		User: models.User{ID: id, TelegramID: 1000 + id, Region: models.RegionUS},
	}
}

func TestMatchAlerts(t *testing.T) {
	tests := []struct {
		name      string
		newPrice  int64
		entries   []models.WishlistEntry
		wantItems []int64
	}{
		{
			name:      "sem alvo definido nunca qualifica",
			newPrice:  100,
			entries:   []models.WishlistEntry{entry(1, nil, nil)},
			wantItems: nil,
		},
		{
			name:      "preço igual ao alvo qualifica (limite inclusivo)",
			newPrice:  1800,
			entries:   []models.WishlistEntry{entry(1, ptr(1800), nil)},
			wantItems: []int64{1},
		},
		{
			name:      "um centavo acima do alvo não qualifica",
			newPrice:  1801,
			entries:   []models.WishlistEntry{entry(1, ptr(1800), nil)},
			wantItems: nil,
		},
		{
			name:      "marca d'água igual ao preço não requalifica",
			newPrice:  500,
			entries:   []models.WishlistEntry{entry(1, ptr(600), ptr(500))},
			wantItems: nil,
		},
		{
			name:      "queda estrita abaixo da marca d'água qualifica",
			newPrice:  499,
			entries:   []models.WishlistEntry{entry(1, ptr(600), ptr(500))},
			wantItems: []int64{1},
		},
		{
			name:      "preço acima da marca d'água não requalifica mesmo abaixo do alvo",
			newPrice:  550,
			entries:   []models.WishlistEntry{entry(1, ptr(600), ptr(500))},
			wantItems: nil,
		},
		{
			name:     "múltiplos itens qualificam de forma independente",
			newPrice: 1700,
			entries: []models.WishlistEntry{
				entry(1, ptr(1800), nil),
				entry(2, ptr(2500), nil),
				entry(3, ptr(1500), nil),
				entry(4, nil, nil),
			},
			wantItems: []int64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := MatchAlerts(tt.newPrice, "USD", tt.entries)

			var got []int64
			for _, m := range matches {
				got = append(got, m.Entry.Item.ID)
				if m.NewWatermarkCents != tt.newPrice {
					t.Errorf("nova marca d'água = %d, esperado %d", m.NewWatermarkCents, tt.newPrice)
				}
			}

			if len(got) != len(tt.wantItems) {
				t.Fatalf("itens qualificados = %v, esperado %v", got, tt.wantItems)
			}
			for i := range got {
				if got[i] != tt.wantItems[i] {
					t.Fatalf("itens qualificados = %v, esperado %v", got, tt.wantItems)
				}
			}
		})
	}
}

func TestMatchAlertsReason(t *testing.T) {
	matches := MatchAlerts(1700, "USD", []models.WishlistEntry{entry(1, ptr(1800), nil)})
	if len(matches) != 1 {
		t.Fatalf("esperado 1 match, recebido %d", len(matches))
	}

	reason := matches[0].Reason
	if !strings.Contains(reason, "$17.00") {
		t.Errorf("motivo deve conter o preço novo, recebido %q", reason)
	}
	if !strings.Contains(reason, "$18.00") {
		t.Errorf("motivo deve conter o preço alvo, recebido %q", reason)
	}
}

func TestMatchAlertsDoesNotMutateEntries(t *testing.T) {
	e := entry(1, ptr(1800), nil)
	MatchAlerts(1700, "USD", []models.WishlistEntry{e})

	if e.Item.LastNotifiedCents != nil {
		t.Error("o matcher não deve alterar a marca d'água dos itens recebidos")
	}
}
