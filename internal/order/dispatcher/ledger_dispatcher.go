package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"pedidos/internal/domain"
	"pedidos/internal/integration/ledger"
	"pedidos/internal/metrics"
)

const (
	TransactionTypeExpense = "Despesa"
	TransactionTypeRevenue = "Receita"

	missingOrderNumber = "SEM-NUMERO"
)

type LedgerGateway interface {
	Create(ctx context.Context, req ledger.TransactionRequest)
	UpdateByOrderID(ctx context.Context, orderID int64, partial map[string]any) bool
}

// LedgerDispatcher turns committed lifecycle events into ledger calls.
// The gateway is optional; without one every event is skipped.
type LedgerDispatcher struct {
	ledger  LedgerGateway
	metrics *metrics.IntegrationMetrics
	logger  *zap.Logger
}

func NewLedgerDispatcher(gateway LedgerGateway, m *metrics.IntegrationMetrics, logger *zap.Logger) *LedgerDispatcher {
	return &LedgerDispatcher{
		ledger:  gateway,
		metrics: m,
		logger:  logger,
	}
}

// Dispatch must only be called after the transaction that produced event has
// committed. It never fails: gateway errors are logged by the gateway.
func (d *LedgerDispatcher) Dispatch(ctx context.Context, event domain.LifecycleEvent) {
	logger := d.logger.With(zap.Int64("orderId", event.OrderID), zap.Stringer("event", event.Type))

	if d.ledger == nil {
		logger.Debug("no ledger gateway configured, skipping event")
		d.metrics.RecordLedgerAction(metrics.ActionSkip)
		return
	}

	// Not billed now: nothing to create, and an existing transaction is kept as-is.
	if !event.CurrentBilled {
		logger.Debug("order not billed, no ledger transaction")
		d.metrics.RecordLedgerAction(metrics.ActionSkip)
		return
	}

	if event.Type == domain.EventCreated || !event.PreviousBilled {
		d.metrics.RecordLedgerAction(metrics.ActionCreate)
		d.ledger.Create(ctx, BuildTransactionRequest(event))
		return
	}

	d.metrics.RecordLedgerAction(metrics.ActionUpdate)
	if d.ledger.UpdateByOrderID(ctx, event.OrderID, BuildPartialUpdate(event)) {
		return
	}

	logger.Warn("ledger update failed, falling back to create")
	d.metrics.RecordLedgerAction(metrics.ActionFallbackCreate)
	d.ledger.Create(ctx, BuildTransactionRequest(event))
}

// TransactionType maps an order kind to the ledger direction. Inbound
// (purchase) orders are expenses, outbound (sale) orders are revenue.
func TransactionType(kind domain.OrderKind) string {
	if kind == domain.OrderKindOutbound {
		return TransactionTypeRevenue
	}
	return TransactionTypeExpense
}

func Description(orderID int64, number string) string {
	if number == "" {
		number = missingOrderNumber
	}
	return fmt.Sprintf("Pedido %s (#%d)", number, orderID)
}

func BuildTransactionRequest(event domain.LifecycleEvent) ledger.TransactionRequest {
	paid := event.Hints.PaidFlag()

	req := ledger.TransactionRequest{
		Description: Description(event.OrderID, event.Number),
		Type:        TransactionType(event.Kind),
		Amount:      json.Number(event.Total.String()),
		Paid:        paid,
		DueDate:     ledger.FormatDate(event.Hints.DueDate),
		OrderID:     event.OrderID,
	}
	if paid {
		req.PaymentDate = ledger.FormatDate(event.Hints.PaymentDate)
	}

	return req
}

// BuildPartialUpdate always carries description, type and amount; hint fields
// are included only when the caller supplied them.
func BuildPartialUpdate(event domain.LifecycleEvent) map[string]any {
	partial := map[string]any{
		ledger.FieldDescription: Description(event.OrderID, event.Number),
		ledger.FieldType:        TransactionType(event.Kind),
		ledger.FieldAmount:      json.Number(event.Total.String()),
	}

	if event.Hints.DueDate != nil {
		partial[ledger.FieldDueDate] = *ledger.FormatDate(event.Hints.DueDate)
	}
	if event.Hints.Paid != nil {
		partial[ledger.FieldPaid] = *event.Hints.Paid
	}
	if event.Hints.PaidFlag() && event.Hints.PaymentDate != nil {
		partial[ledger.FieldPaymentDate] = *ledger.FormatDate(event.Hints.PaymentDate)
	}

	return partial
}
