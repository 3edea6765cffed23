package models

import (
	"fmt"
	"time"
)

// Regiões suportadas pela loja da Nintendo / DekuDeals
const (
	RegionUS = "us"
	RegionEU = "eu"
	RegionJP = "jp"
)

// ValidRegion verifica se o código de região é suportado
func ValidRegion(region string) bool {
	switch region {
	case RegionUS, RegionEU, RegionJP:
		return true
	}
	return false
}

// RegionCurrency retorna a moeda da região, com fallback para USD
func RegionCurrency(region string) string {
	switch region {
	case RegionEU:
		return "EUR"
	case RegionJP:
		return "JPY"
	default:
		return "USD"
	}
}

// CurrencySymbol retorna o símbolo da moeda, com fallback para "$"
func CurrencySymbol(currency string) string {
	switch currency {
	case "EUR":
		return "€"
	case "JPY":
		return "¥"
	default:
		return "$"
	}
}

// FormatPrice formata um preço em centavos para exibição.
// Ienes não têm casa decimal; as demais moedas usam duas
func FormatPrice(cents *int64, currency string) string {
	if cents == nil {
		return "price not available"
	}
	if currency == "JPY" {
		return fmt.Sprintf("¥%d", *cents/100)
	}
	return fmt.Sprintf("%s%.2f", CurrencySymbol(currency), float64(*cents)/100)
}

// User representa um usuário do bot
type User struct {
	ID         int64
	TelegramID int64
	Username   string
	Region     string
	CreatedAt  time.Time
}

// PremiumPurchase representa uma compra premium que concede vagas extras
// na wishlist até a data de expiração
type PremiumPurchase struct {
	ID          int64
	UserID      int64
	BonusSlots  int
	PurchasedAt time.Time
	ExpiresAt   time.Time
}

// Game representa um jogo rastreável, identificado pelo ID da fonte externa.
// Os campos de preço são ponteiros: nil significa que o valor ainda não foi
// observado (ou a fonte não o informou na última verificação).
type Game struct {
	ID              int64
	SourceID        string
	Title           string
	Platform        string
	LastPriceCents  *int64
	OriginalCents   *int64
	DiscountPercent *int64
	Currency        string
	LastChecked     *time.Time
	CreatedAt       time.Time
}

// WishlistItem representa a assinatura de um usuário sobre um jogo.
// DesiredPriceCents é o preço alvo (nil = sem alvo definido) e
// LastNotifiedCents é a marca d'água: o preço da última notificação enviada.
type WishlistItem struct {
	ID                int64
	UserID            int64
	GameID            int64
	DesiredPriceCents *int64
	MinDiscountPct    *int64
	LastNotifiedCents *int64
	CreatedAt         time.Time
}

// WishlistEntry junta o item da wishlist com os dados do usuário dono,
// na forma que o ciclo de verificação consome
type WishlistEntry struct {
	Item WishlistItem
	User User
}

// PriceSnapshot é o resultado de uma consulta de preço bem-sucedida,
// na forma em que é persistido sobre o jogo
type PriceSnapshot struct {
	PriceCents      *int64
	OriginalCents   *int64
	DiscountPercent *int64
	Currency        string
	CheckedAt       time.Time
}

// PriceHistory é uma observação de preço, apenas inserida, nunca alterada
type PriceHistory struct {
	ID         int64
	GameID     int64
	PriceCents int64
	Currency   string
	RecordedAt time.Time
}

// Notification é o registro de uma notificação enviada com sucesso
type Notification struct {
	ID         int64
	UserID     int64
	GameID     int64
	PriceCents int64
	Rule       string
	SentAt     time.Time
}
