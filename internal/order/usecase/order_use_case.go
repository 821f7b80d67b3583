package usecase

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"pedidos/internal/domain"
	"pedidos/internal/dto"
)

type OrderEngine interface {
	Create(ctx context.Context, tx *sql.Tx, draft domain.OrderDraft) (*domain.Order, *domain.LifecycleEvent, error)
	Update(ctx context.Context, tx *sql.Tx, id int64, draft domain.OrderDraft) (*domain.Order, *domain.LifecycleEvent, error)
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.LifecycleEvent)
}

type Enricher interface {
	EnrichOne(ctx context.Context, order dto.OrderResponse) dto.OrderResponse
	EnrichList(ctx context.Context, orders []dto.OrderResponse) []dto.OrderResponse
}

// OrderUseCase owns the transaction boundary. Lifecycle events are handed to
// the dispatcher only after the transaction that produced them has committed.
type OrderUseCase struct {
	engine     OrderEngine
	tx         TransactionManager
	dispatcher Dispatcher
	enricher   Enricher
	logger     *zap.Logger
}

func NewOrderUseCase(engine OrderEngine, tx TransactionManager, dispatcher Dispatcher, enricher Enricher, logger *zap.Logger) *OrderUseCase {
	return &OrderUseCase{
		engine:     engine,
		tx:         tx,
		dispatcher: dispatcher,
		enricher:   enricher,
		logger:     logger,
	}
}

func (uc *OrderUseCase) Create(ctx context.Context, draft domain.OrderDraft) (*dto.OrderResponse, error) {
	var (
		order *domain.Order
		event *domain.LifecycleEvent
	)

	err := uc.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		order, event, err = uc.engine.Create(ctx, tx, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("create committed", zap.Int64("orderId", order.ID))
	uc.afterCommit(ctx, event)

	resp := dto.FromOrder(*order)
	return &resp, nil
}

func (uc *OrderUseCase) Update(ctx context.Context, id int64, draft domain.OrderDraft) (*dto.OrderResponse, error) {
	var (
		order *domain.Order
		event *domain.LifecycleEvent
	)

	err := uc.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		order, event, err = uc.engine.Update(ctx, tx, id, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("update committed", zap.Int64("orderId", order.ID))
	uc.afterCommit(ctx, event)

	resp := dto.FromOrder(*order)
	return &resp, nil
}

func (uc *OrderUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return uc.engine.Delete(ctx, tx, id)
	})
}

func (uc *OrderUseCase) Get(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	order, err := uc.engine.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := uc.enricher.EnrichOne(ctx, dto.FromOrder(*order))
	return &resp, nil
}

func (uc *OrderUseCase) List(ctx context.Context) ([]dto.OrderResponse, error) {
	orders, err := uc.engine.List(ctx)
	if err != nil {
		return nil, err
	}

	return uc.enricher.EnrichList(ctx, dto.FromOrders(orders)), nil
}

// afterCommit dispatches on a context that survives request cancellation.
func (uc *OrderUseCase) afterCommit(ctx context.Context, event *domain.LifecycleEvent) {
	if event == nil || uc.dispatcher == nil {
		return
	}
	uc.dispatcher.Dispatch(context.WithoutCancel(ctx), *event)
}
