package monitor

import (
	"fmt"

	"bot-jogos/internal/models"
)

// Match representa um item da wishlist que deve ser notificado agora
type Match struct {
	Entry models.WishlistEntry

	// Nova marca d'água do item: o preço atual
	NewWatermarkCents int64

	// Texto legível com o preço novo e o alvo, usado na mensagem e no log
	Reason string
}

// MatchAlerts decide, para um jogo com preço recém-observado, quais itens
// de wishlist devem ser notificados. É uma função pura: não faz I/O e não
// altera os itens recebidos.
//
// Um item qualifica quando todas as condições valem:
//   - tem preço alvo definido;
//   - o preço atual é menor ou igual ao alvo;
//   - a marca d'água é nula, ou o preço atual é estritamente menor que ela.
//
// A comparação estrita com a marca d'água impede renotificar um preço que
// permaneceu igual (ou subiu e voltou) desde o último aviso. Cada item
// qualificado gera sua própria notificação, sem supressão entre usuários.
func MatchAlerts(newPriceCents int64, currency string, entries []models.WishlistEntry) []Match {
	var matches []Match

	for _, entry := range entries {
		desired := entry.Item.DesiredPriceCents
		if desired == nil || newPriceCents > *desired {
			continue
		}

		watermark := entry.Item.LastNotifiedCents
		if watermark != nil && newPriceCents >= *watermark {
			continue
		}

		price := newPriceCents
		target := *desired
		matches = append(matches, Match{
			Entry:             entry,
			NewWatermarkCents: price,
			Reason: fmt.Sprintf("Price dropped to %s (desired: %s)",
				models.FormatPrice(&price, currency),
				models.FormatPrice(&target, currency)),
		})
	}

	return matches
}
