package database

import (
	"context"
	"database/sql"
	"fmt"

	"bot-jogos/internal/models"
)

// NotificationGame junta uma notificação com o jogo correspondente,
// usada pelo comando /history
type NotificationGame struct {
	Notification models.Notification
	Game         models.Game
}

// RecentNotifications retorna as últimas notificações enviadas ao usuário,
// da mais recente para a mais antiga
func (db *DB) RecentNotifications(ctx context.Context, userID int64, limit int) ([]NotificationGame, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT n.id, n.user_id, n.game_id, n.price_cents, n.rule, n.sent_at,
		        g.id, g.source_id, g.title, g.platform, g.last_price_cents,
		        g.original_price_cents, g.discount_percent, g.currency, g.last_checked, g.created_at
		 FROM notifications n
		 JOIN games g ON g.id = n.game_id
		 WHERE n.user_id = ?
		 ORDER BY n.sent_at DESC, n.id DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar notificações: %w", err)
	}
	defer rows.Close()

	var result []NotificationGame
	for rows.Next() {
		var ng NotificationGame
		var rule sql.NullString
		var price, original, discount sql.NullInt64
		var currency sql.NullString
		var lastChecked sql.NullTime
		err := rows.Scan(
			&ng.Notification.ID, &ng.Notification.UserID, &ng.Notification.GameID,
			&ng.Notification.PriceCents, &rule, &ng.Notification.SentAt,
			&ng.Game.ID, &ng.Game.SourceID, &ng.Game.Title, &ng.Game.Platform, &price, &original, &discount,
			&currency, &lastChecked, &ng.Game.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler notificações: %w", err)
		}
		ng.Notification.Rule = rule.String
		fillGame(&ng.Game, price, original, discount, currency, lastChecked)
		result = append(result, ng)
	}
	return result, rows.Err()
}
