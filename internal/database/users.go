package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bot-jogos/internal/models"
)

// GetOrCreateUser busca o usuário pelo Telegram ID, criando-o se não existir
func (db *DB) GetOrCreateUser(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	user, err := db.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	res, err := db.conn.ExecContext(ctx,
		"INSERT INTO users (telegram_id, username) VALUES (?, ?)",
		telegramID, username,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar usuário: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:         id,
		TelegramID: telegramID,
		Username:   username,
		Region:     models.RegionUS,
		CreatedAt:  time.Now(),
	}, nil
}

// GetUserByTelegramID retorna o usuário pelo Telegram ID, ou nil se não existir
func (db *DB) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, telegram_id, username, region, created_at FROM users WHERE telegram_id = ?",
		telegramID,
	)
	return scanUser(row)
}

// GetUserByID retorna o usuário pelo ID interno, ou nil se não existir
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, telegram_id, username, region, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// UpdateUserRegion altera a região preferida do usuário
func (db *DB) UpdateUserRegion(ctx context.Context, userID int64, region string) error {
	if !models.ValidRegion(region) {
		return fmt.Errorf("região inválida: %s", region)
	}
	_, err := db.conn.ExecContext(ctx,
		"UPDATE users SET region = ? WHERE id = ?",
		region, userID,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar região: %w", err)
	}
	return nil
}

// AddPremiumPurchase registra uma compra premium que expande o limite
// da wishlist até expires_at
func (db *DB) AddPremiumPurchase(ctx context.Context, userID int64, bonusSlots int, expiresAt time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO premium_purchases (user_id, bonus_slots, expires_at) VALUES (?, ?, ?)",
		userID, bonusSlots, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao registrar compra premium: %w", err)
	}
	return nil
}

// ActiveBonusSlots soma as vagas extras das compras premium ainda vigentes
func (db *DB) ActiveBonusSlots(ctx context.Context, userID int64, now time.Time) (int, error) {
	var bonus sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		"SELECT SUM(bonus_slots) FROM premium_purchases WHERE user_id = ? AND expires_at > ?",
		userID, now,
	).Scan(&bonus)
	if err != nil {
		return 0, fmt.Errorf("erro ao consultar compras premium: %w", err)
	}
	return int(bonus.Int64), nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var username sql.NullString
	err := row.Scan(&u.ID, &u.TelegramID, &username, &u.Region, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler usuário: %w", err)
	}
	u.Username = username.String
	return &u, nil
}
