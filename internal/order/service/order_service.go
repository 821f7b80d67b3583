package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"pedidos/internal/domain"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, order domain.Order) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

// OrderService owns the order lifecycle. Mutations run inside the caller's
// transaction and return the lifecycle event to dispatch once it commits.
type OrderService struct {
	repo   OrderRepository
	logger *zap.Logger
}

func NewOrderService(repo OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		logger: logger,
	}
}

func (s *OrderService) Create(ctx context.Context, tx *sql.Tx, draft domain.OrderDraft) (*domain.Order, *domain.LifecycleEvent, error) {
	if err := draft.Validate(); err != nil {
		return nil, nil, err
	}

	order := draft.NewOrder()
	id, err := s.repo.Insert(ctx, tx, order)
	if err != nil {
		s.logger.Error("failed to insert order", zap.String("numeroPedido", order.Number), zap.Error(err))
		return nil, nil, err
	}
	order.ID = id

	event := domain.NewCreatedEvent(order, draft.Hints)
	s.logger.Info("order created", zap.Int64("orderId", id), zap.String("status", string(order.Status)))

	return &order, &event, nil
}

func (s *OrderService) Update(ctx context.Context, tx *sql.Tx, id int64, draft domain.OrderDraft) (*domain.Order, *domain.LifecycleEvent, error) {
	if err := draft.Validate(); err != nil {
		return nil, nil, err
	}

	existing, err := s.repo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	previousBilled := existing.Billed()

	draft.ApplyTo(existing)
	if err := s.repo.Update(ctx, tx, *existing); err != nil {
		s.logger.Error("failed to update order", zap.Int64("orderId", id), zap.Error(err))
		return nil, nil, err
	}

	currentBilled := draft.Billed()
	s.logger.Info("order updated",
		zap.Int64("orderId", id),
		zap.Bool("previousBilled", previousBilled),
		zap.Bool("currentBilled", currentBilled),
	)

	// Never billed and still not billed: nothing for the ledger to do.
	if !currentBilled && !previousBilled {
		return existing, nil, nil
	}

	event := domain.NewUpdatedEvent(*existing, previousBilled, currentBilled, draft.Hints)
	return existing, &event, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

// Delete removes the order only. Any ledger transaction it produced is kept.
func (s *OrderService) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	if err := s.repo.Delete(ctx, tx, id); err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.Int64("orderId", id))
	return nil
}
