package mysql

import (
	"context"
	"database/sql"
	"time"

	apperrors "pedidos/internal/errors"
)

type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TxManager runs a unit of work inside a single database transaction.
type TxManager struct {
	db      TxBeginner
	timeout time.Duration
}

func NewTxManager(db TxBeginner, timeout time.Duration) *TxManager {
	return &TxManager{db: db, timeout: timeout}
}

// WithinTx commits only when fn returns nil. A nil return means the commit is
// visible to other readers.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return apperrors.NewInternalError("beginning transaction", err)
	}
	// No-op once committed.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("committing transaction", err)
	}

	return nil
}
