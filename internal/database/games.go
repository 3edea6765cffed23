package database

import (
	"context"
	"database/sql"
	"fmt"

	"bot-jogos/internal/models"
)

const gameColumns = "id, source_id, title, platform, last_price_cents, original_price_cents, discount_percent, currency, last_checked, created_at"

// GetGameBySourceID retorna o jogo pelo identificador da fonte externa,
// ou nil se ainda não estiver cadastrado
func (db *DB) GetGameBySourceID(ctx context.Context, sourceID string) (*models.Game, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE source_id = ?",
		sourceID,
	)
	return scanGame(row)
}

// GetGameByID retorna o jogo pelo ID interno, ou nil se não existir
func (db *DB) GetGameByID(ctx context.Context, id int64) (*models.Game, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE id = ?",
		id,
	)
	return scanGame(row)
}

// CreateGame cadastra um novo jogo. O source_id é único: se outro usuário
// já cadastrou o mesmo jogo, o registro existente deve ser reaproveitado
// (verificação feita pelo chamador via GetGameBySourceID)
func (db *DB) CreateGame(ctx context.Context, game *models.Game) error {
	res, err := db.conn.ExecContext(ctx,
		"INSERT INTO games (source_id, title, platform, last_price_cents, original_price_cents, discount_percent, currency) VALUES (?, ?, ?, ?, ?, ?, ?)",
		game.SourceID, game.Title, game.Platform,
		nullInt64(game.LastPriceCents), nullInt64(game.OriginalCents), nullInt64(game.DiscountPercent),
		game.Currency,
	)
	if err != nil {
		return fmt.Errorf("erro ao cadastrar jogo: %w", err)
	}
	game.ID, err = res.LastInsertId()
	return err
}

// GamesWithWishlist retorna os jogos distintos presentes em pelo menos
// uma wishlist. Jogos que ninguém acompanha ficam de fora da varredura
func (db *DB) GamesWithWishlist(ctx context.Context) ([]models.Game, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT g.id, g.source_id, g.title, g.platform, g.last_price_cents,
		        g.original_price_cents, g.discount_percent, g.currency, g.last_checked, g.created_at
		 FROM games g
		 JOIN wishlist_items w ON w.game_id = g.id
		 ORDER BY g.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar jogos acompanhados: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGameRows(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// RecordCheck persiste o resultado de uma verificação bem-sucedida em uma
// única transação: os campos de preço do jogo e, quando houver preço atual,
// uma linha de histórico. Assim o estado do jogo nunca fica pela metade
func (db *DB) RecordCheck(ctx context.Context, gameID int64, snap models.PriceSnapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"UPDATE games SET last_price_cents = ?, original_price_cents = ?, discount_percent = ?, currency = ?, last_checked = ? WHERE id = ?",
		nullInt64(snap.PriceCents), nullInt64(snap.OriginalCents), nullInt64(snap.DiscountPercent),
		snap.Currency, snap.CheckedAt, gameID,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar preços do jogo %d: %w", gameID, err)
	}

	if snap.PriceCents != nil {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO price_history (game_id, price_cents, currency, recorded_at) VALUES (?, ?, ?, ?)",
			gameID, *snap.PriceCents, snap.Currency, snap.CheckedAt,
		)
		if err != nil {
			return fmt.Errorf("erro ao gravar histórico do jogo %d: %w", gameID, err)
		}
	}

	return tx.Commit()
}

func scanGame(row *sql.Row) (*models.Game, error) {
	var g models.Game
	var price, original, discount sql.NullInt64
	var currency sql.NullString
	var lastChecked sql.NullTime
	err := row.Scan(&g.ID, &g.SourceID, &g.Title, &g.Platform, &price, &original, &discount, &currency, &lastChecked, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler jogo: %w", err)
	}
	fillGame(&g, price, original, discount, currency, lastChecked)
	return &g, nil
}

func scanGameRows(rows *sql.Rows) (*models.Game, error) {
	var g models.Game
	var price, original, discount sql.NullInt64
	var currency sql.NullString
	var lastChecked sql.NullTime
	err := rows.Scan(&g.ID, &g.SourceID, &g.Title, &g.Platform, &price, &original, &discount, &currency, &lastChecked, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler jogo: %w", err)
	}
	fillGame(&g, price, original, discount, currency, lastChecked)
	return &g, nil
}

func fillGame(g *models.Game, price, original, discount sql.NullInt64, currency sql.NullString, lastChecked sql.NullTime) {
	g.LastPriceCents = int64Ptr(price)
	g.OriginalCents = int64Ptr(original)
	g.DiscountPercent = int64Ptr(discount)
	g.Currency = currency.String
	if lastChecked.Valid {
		t := lastChecked.Time
		g.LastChecked = &t
	}
}
