package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"pedidos/internal/config"
)

// DSN renders the driver connection string. Timestamps are stored and read in
// UTC; callers keep the offset only on the wire.
func DSN(cfg config.DatabaseConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	c.DBName = cfg.Name
	c.ParseTime = true
	// UPDATE reports matched rows, so rewriting identical values is not a miss.
	c.ClientFoundRows = true
	// Out-of-range and oversized values fail instead of being truncated.
	c.Params = map[string]string{"sql_mode": "'TRADITIONAL'"}
	return c.FormatDSN()
}

func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS pedidos (
	id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	data_emissao_pedido DATETIME(3) NULL,
	numero_pedido VARCHAR(100) NOT NULL,
	tipo_pedido VARCHAR(20) NOT NULL,
	situacao_pedido VARCHAR(20) NOT NULL,
	valor_total DECIMAL(19,2) NOT NULL,
	participante_id BIGINT NULL,
	INDEX idx_participante (participante_id)
)`

// EnsureSchema creates the pedidos table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createOrdersTable); err != nil {
		return fmt.Errorf("creating pedidos table: %w", err)
	}
	return nil
}
