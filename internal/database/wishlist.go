package database

import (
	"context"
	"database/sql"
	"fmt"

	"bot-jogos/internal/models"
)

// WishlistGame junta um item da wishlist com o jogo correspondente,
// na forma que os comandos /list e /setthreshold consomem
type WishlistGame struct {
	Item models.WishlistItem
	Game models.Game
}

// AddToWishlist adiciona um jogo à wishlist do usuário
func (db *DB) AddToWishlist(ctx context.Context, userID, gameID int64) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO wishlist_items (user_id, game_id) VALUES (?, ?)",
		userID, gameID,
	)
	if err != nil {
		return fmt.Errorf("erro ao adicionar à wishlist: %w", err)
	}
	return nil
}

// FindWishlistItem retorna o item do par (usuário, jogo), ou nil se não existir
func (db *DB) FindWishlistItem(ctx context.Context, userID, gameID int64) (*models.WishlistItem, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, user_id, game_id, desired_price_cents, min_discount_percent, last_notified_price_cents, created_at FROM wishlist_items WHERE user_id = ? AND game_id = ?",
		userID, gameID,
	)
	var item models.WishlistItem
	var desired, minDiscount, notified sql.NullInt64
	err := row.Scan(&item.ID, &item.UserID, &item.GameID, &desired, &minDiscount, &notified, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler item da wishlist: %w", err)
	}
	item.DesiredPriceCents = int64Ptr(desired)
	item.MinDiscountPct = int64Ptr(minDiscount)
	item.LastNotifiedCents = int64Ptr(notified)
	return &item, nil
}

// RemoveWishlistItem remove um item da wishlist
func (db *DB) RemoveWishlistItem(ctx context.Context, itemID int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM wishlist_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("erro ao remover da wishlist: %w", err)
	}
	return nil
}

// SetDesiredPrice define (ou redefine) o preço alvo de um item da wishlist
func (db *DB) SetDesiredPrice(ctx context.Context, itemID int64, priceCents int64) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE wishlist_items SET desired_price_cents = ? WHERE id = ?",
		priceCents, itemID,
	)
	if err != nil {
		return fmt.Errorf("erro ao definir preço alvo: %w", err)
	}
	return nil
}

// CountWishlistItems retorna quantos jogos o usuário acompanha
func (db *DB) CountWishlistItems(ctx context.Context, userID int64) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wishlist_items WHERE user_id = ?",
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar itens da wishlist: %w", err)
	}
	return count, nil
}

// WishlistForUser retorna a wishlist do usuário com os dados dos jogos,
// na ordem de inclusão (usada como numeração em /list e /remove)
func (db *DB) WishlistForUser(ctx context.Context, userID int64) ([]WishlistGame, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT w.id, w.user_id, w.game_id, w.desired_price_cents, w.min_discount_percent,
		        w.last_notified_price_cents, w.created_at,
		        g.id, g.source_id, g.title, g.platform, g.last_price_cents,
		        g.original_price_cents, g.discount_percent, g.currency, g.last_checked, g.created_at
		 FROM wishlist_items w
		 JOIN games g ON g.id = w.game_id
		 WHERE w.user_id = ?
		 ORDER BY w.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar wishlist: %w", err)
	}
	defer rows.Close()

	var result []WishlistGame
	for rows.Next() {
		var wg WishlistGame
		var desired, minDiscount, notified sql.NullInt64
		var price, original, discount sql.NullInt64
		var currency sql.NullString
		var lastChecked sql.NullTime
		err := rows.Scan(
			&wg.Item.ID, &wg.Item.UserID, &wg.Item.GameID, &desired, &minDiscount, &notified, &wg.Item.CreatedAt,
			&wg.Game.ID, &wg.Game.SourceID, &wg.Game.Title, &wg.Game.Platform, &price, &original, &discount,
			&currency, &lastChecked, &wg.Game.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler wishlist: %w", err)
		}
		wg.Item.DesiredPriceCents = int64Ptr(desired)
		wg.Item.MinDiscountPct = int64Ptr(minDiscount)
		wg.Item.LastNotifiedCents = int64Ptr(notified)
		fillGame(&wg.Game, price, original, discount, currency, lastChecked)
		result = append(result, wg)
	}
	return result, rows.Err()
}

// WishlistEntriesByGame retorna os itens de wishlist de um jogo junto com
// os usuários donos, na forma que o ciclo de verificação consome
func (db *DB) WishlistEntriesByGame(ctx context.Context, gameID int64) ([]models.WishlistEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT w.id, w.user_id, w.game_id, w.desired_price_cents, w.min_discount_percent,
		        w.last_notified_price_cents, w.created_at,
		        u.id, u.telegram_id, u.username, u.region, u.created_at
		 FROM wishlist_items w
		 JOIN users u ON u.id = w.user_id
		 WHERE w.game_id = ?
		 ORDER BY w.id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar assinantes do jogo %d: %w", gameID, err)
	}
	defer rows.Close()

	var entries []models.WishlistEntry
	for rows.Next() {
		var e models.WishlistEntry
		var desired, minDiscount, notified sql.NullInt64
		var username sql.NullString
		err := rows.Scan(
			&e.Item.ID, &e.Item.UserID, &e.Item.GameID, &desired, &minDiscount, &notified, &e.Item.CreatedAt,
			&e.User.ID, &e.User.TelegramID, &username, &e.User.Region, &e.User.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler assinantes: %w", err)
		}
		e.Item.DesiredPriceCents = int64Ptr(desired)
		e.Item.MinDiscountPct = int64Ptr(minDiscount)
		e.Item.LastNotifiedCents = int64Ptr(notified)
		e.User.Username = username.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordNotification avança a marca d'água do item e grava o registro da
// notificação na mesma transação. Só deve ser chamado após o envio da
// mensagem ter sido confirmado
func (db *DB) RecordNotification(ctx context.Context, itemID, userID, gameID, priceCents int64, rule string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"UPDATE wishlist_items SET last_notified_price_cents = ? WHERE id = ?",
		priceCents, itemID,
	)
	if err != nil {
		return fmt.Errorf("erro ao avançar marca d'água do item %d: %w", itemID, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO notifications (user_id, game_id, price_cents, rule) VALUES (?, ?, ?, ?)",
		userID, gameID, priceCents, rule,
	)
	if err != nil {
		return fmt.Errorf("erro ao gravar notificação: %w", err)
	}

	return tx.Commit()
}
