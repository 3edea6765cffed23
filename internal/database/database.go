package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// DB encapsula a conexão com o banco de dados
type DB struct {
	conn *sql.DB
}

// New abre o banco SQLite, aplica as migrações e retorna a conexão pronta.
// WAL e busy_timeout evitam erros de lock entre o ciclo de verificação e
// os handlers do bot compartilhando a mesma conexão
func New(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco de dados: %w", err)
	}

	// SQLite aceita um único escritor por vez
	conn.SetMaxOpenConns(1)

	if err := RunMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	slog.Info("banco de dados inicializado", slog.String("path", dbPath))
	return &DB{conn: conn}, nil
}

// Close fecha a conexão com o banco de dados
func (db *DB) Close() error {
	return db.conn.Close()
}

// nullInt64 converte um ponteiro em sql.NullInt64 para gravação
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// int64Ptr converte um sql.NullInt64 lido do banco em ponteiro
func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
