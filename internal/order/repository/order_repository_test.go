package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedidos/internal/domain"
	apperrors "pedidos/internal/errors"
	"pedidos/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestClassifyWriteError_OutOfRange(t *testing.T) {
	err := classifyWriteError("inserting order", &mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'valor_total'"})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "valorTotal", ve.Details[0].Field)
}

func TestClassifyWriteError_DataTooLong(t *testing.T) {
	wrapped := fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1406, Message: "Data too long for column 'numero_pedido'"})

	ve, ok := apperrors.IsValidationError(classifyWriteError("updating order", wrapped))
	require.True(t, ok)
	assert.Equal(t, "numeroPedido", ve.Details[0].Field)
	assert.Equal(t, "numeroPedido must have at most 100 characters", ve.Details[0].Message)
}

func TestClassifyWriteError_Internal(t *testing.T) {
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	plain := errors.New("driver: bad connection")

	for _, cause := range []error{deadlock, plain} {
		err := classifyWriteError("deleting order", cause)

		ie, ok := apperrors.IsInternalError(err)
		require.True(t, ok)
		assert.Equal(t, "deleting order", ie.Message)
		assert.ErrorIs(t, err, cause)

		_, isValidation := apperrors.IsValidationError(err)
		assert.False(t, isValidation)
	}
}

// Integration Tests

func newOrder(number string, status domain.BillingStatus) domain.Order {
	issued := time.Date(2025, 9, 24, 13, 15, 30, 123_000_000, time.UTC)
	participant := int64(5)
	return domain.Order{
		IssuedAt:      &issued,
		Number:        number,
		Kind:          domain.OrderKindOutbound,
		Status:        status,
		Total:         decimal.RequireFromString("150.25"),
		ParticipantID: &participant,
	}
}

func insertOrder(t *testing.T, db *sql.DB, repo *MySQLOrderRepository, order domain.Order) int64 {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	id, err := repo.Insert(context.Background(), tx, order)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	return id
}

func TestOrderRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	want := newOrder("PED-1", domain.BillingStatusBilled)

	id := insertOrder(t, db, repo, want)
	assert.Positive(t, id)

	got, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "PED-1", got.Number)
	assert.Equal(t, domain.OrderKindOutbound, got.Kind)
	assert.Equal(t, domain.BillingStatusBilled, got.Status)
	assert.True(t, want.Total.Equal(got.Total))
	require.NotNil(t, got.IssuedAt)
	assert.True(t, want.IssuedAt.Equal(*got.IssuedAt))
	require.NotNil(t, got.ParticipantID)
	assert.Equal(t, int64(5), *got.ParticipantID)
}

func TestOrderRepository_NullableColumns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	order := newOrder("PED-2", domain.BillingStatusPending)
	order.IssuedAt = nil
	order.ParticipantID = nil

	id := insertOrder(t, db, repo, order)

	got, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got.IssuedAt)
	assert.Nil(t, got.ParticipantID)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), 99999)
	assert.Nil(t, order)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_FindAll_InsertionOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	first := insertOrder(t, db, repo, newOrder("A", domain.BillingStatusPending))
	second := insertOrder(t, db, repo, newOrder("B", domain.BillingStatusCancelled))

	orders, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first, orders[0].ID)
	assert.Equal(t, second, orders[1].ID)
}

func TestOrderRepository_UpdateUnchangedValues(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	order := newOrder("PED-3", domain.BillingStatusBilled)
	order.ID = insertOrder(t, db, repo, order)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	locked, err := repo.FindByIDForUpdate(context.Background(), tx, order.ID)
	require.NoError(t, err)

	assert.NoError(t, repo.Update(context.Background(), tx, *locked))
	require.NoError(t, tx.Commit())
}

func TestOrderRepository_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	order := newOrder("GHOST", domain.BillingStatusPending)
	order.ID = 99999
	err = repo.Update(context.Background(), tx, order)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := insertOrder(t, db, repo, newOrder("PED-4", domain.BillingStatusPending))

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), tx, id))
	require.NoError(t, tx.Commit())

	_, err = repo.FindByID(context.Background(), id)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	tx, err = db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.Delete(context.Background(), tx, id)
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
