package database

import (
	"context"
	"fmt"

	"bot-jogos/internal/models"
)

// RecentPriceHistory retorna as últimas observações de preço de um jogo,
// da mais recente para a mais antiga. O histórico é apenas auditoria:
// o ciclo de verificação nunca o lê de volta
func (db *DB) RecentPriceHistory(ctx context.Context, gameID int64, limit int) ([]models.PriceHistory, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, game_id, price_cents, currency, recorded_at
		 FROM price_history
		 WHERE game_id = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico do jogo %d: %w", gameID, err)
	}
	defer rows.Close()

	var history []models.PriceHistory
	for rows.Next() {
		var h models.PriceHistory
		if err := rows.Scan(&h.ID, &h.GameID, &h.PriceCents, &h.Currency, &h.RecordedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler histórico: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
