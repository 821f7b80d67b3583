package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"pedidos/internal/domain"
	apperrors "pedidos/internal/errors"
)

const selectColumns = `
	SELECT id, data_emissao_pedido, numero_pedido, tipo_pedido, situacao_pedido,
	       valor_total, participante_id
	FROM pedidos`

// MySQL server error numbers the repository maps to client errors.
const (
	errOutOfRangeValue uint16 = 1264
	errDataTooLong     uint16 = 1406
)

type rowScanner interface {
	Scan(dest ...any) error
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewOrderNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByIDForUpdate locks the row until tx ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Order, error) {
	order, err := scanOrder(tx.QueryRowContext(ctx, selectColumns+` WHERE id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewOrderNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id for update: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (int64, error) {
	query := `
		INSERT INTO pedidos (data_emissao_pedido, numero_pedido, tipo_pedido, situacao_pedido, valor_total, participante_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.IssuedAt, order.Number, string(order.Kind), string(order.Status), order.Total, order.ParticipantID,
	)
	if err != nil {
		return 0, classifyWriteError("inserting order", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLOrderRepository) Update(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	query := `
		UPDATE pedidos
		SET data_emissao_pedido = ?, numero_pedido = ?, tipo_pedido = ?, situacao_pedido = ?,
		    valor_total = ?, participante_id = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		order.IssuedAt, order.Number, string(order.Kind), string(order.Status), order.Total, order.ParticipantID,
		order.ID,
	)
	if err != nil {
		return classifyWriteError("updating order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewOrderNotFoundError(order.ID)
	}

	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM pedidos WHERE id = ?`, id)
	if err != nil {
		return classifyWriteError("deleting order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewOrderNotFoundError(id)
	}

	return nil
}

// classifyWriteError turns column constraint violations into validation
// errors. Anything else is an internal failure.
func classifyWriteError(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errOutOfRangeValue:
			return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "valorTotal",
				Message: "valorTotal is out of range",
			})
		case errDataTooLong:
			return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "numeroPedido",
				Message: fmt.Sprintf("numeroPedido must have at most %d characters", domain.MaxOrderNumberLength),
			})
		}
	}

	return apperrors.NewInternalError(op, err)
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order         domain.Order
		kind, status  string
		issuedAt      sql.NullTime
		participantID sql.NullInt64
	)

	err := row.Scan(
		&order.ID, &issuedAt, &order.Number, &kind, &status,
		&order.Total, &participantID,
	)
	if err != nil {
		return nil, err
	}

	order.Kind = domain.OrderKind(kind)
	order.Status = domain.BillingStatus(status)
	if issuedAt.Valid {
		t := issuedAt.Time
		order.IssuedAt = &t
	}
	if participantID.Valid {
		id := participantID.Int64
		order.ParticipantID = &id
	}

	return &order, nil
}
