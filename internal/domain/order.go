package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "pedidos/internal/errors"
)

type OrderKind string

const (
	OrderKindInbound  OrderKind = "ENTRADA"
	OrderKindOutbound OrderKind = "SAIDA"
)

func (k OrderKind) Valid() bool {
	return k == OrderKindInbound || k == OrderKindOutbound
}

type BillingStatus string

const (
	BillingStatusPending   BillingStatus = "PENDENTE"
	BillingStatusBilled    BillingStatus = "FATURADO"
	BillingStatusCancelled BillingStatus = "CANCELADO"
)

func (s BillingStatus) Valid() bool {
	switch s {
	case BillingStatusPending, BillingStatusBilled, BillingStatusCancelled:
		return true
	}
	return false
}

const (
	MaxOrderNumberLength = 100

	// MaxTotalScale matches the valor_total DECIMAL(19,2) column.
	MaxTotalScale = 2
)

type Order struct {
	ID            int64
	IssuedAt      *time.Time
	Number        string
	Kind          OrderKind
	Status        BillingStatus
	Total         decimal.Decimal
	ParticipantID *int64
}

func (o Order) Billed() bool {
	return o.Status == BillingStatusBilled
}

// LedgerHints parameterize the ledger call triggered by a create or update.
// They are never stored on the order.
type LedgerHints struct {
	DueDate     *time.Time
	Paid        *bool
	PaymentDate *time.Time
}

// PaidFlag reports whether the caller explicitly marked the transaction as paid.
func (h LedgerHints) PaidFlag() bool {
	return h.Paid != nil && *h.Paid
}

type OrderDraft struct {
	IssuedAt      *time.Time
	Number        string
	Kind          OrderKind
	Status        BillingStatus
	Total         *decimal.Decimal
	ParticipantID *int64
	Hints         LedgerHints
}

func (d OrderDraft) Billed() bool {
	return d.Status == BillingStatusBilled
}

func (d OrderDraft) Validate() error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(d.Number) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "numeroPedido",
			Message: "numeroPedido is required",
		})
	} else if utf8.RuneCountInString(d.Number) > MaxOrderNumberLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "numeroPedido",
			Message: "numeroPedido must have at most 100 characters",
		})
	}

	if d.Kind == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "tipoPedido",
			Message: "tipoPedido is required",
		})
	} else if !d.Kind.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "tipoPedido",
			Message: "tipoPedido must be one of ENTRADA, SAIDA",
		})
	}

	if d.Status == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "situacaoPedido",
			Message: "situacaoPedido is required",
		})
	} else if !d.Status.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "situacaoPedido",
			Message: "situacaoPedido must be one of PENDENTE, FATURADO, CANCELADO",
		})
	}

	if d.Total == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "valorTotal",
			Message: "valorTotal is required",
		})
	} else if !d.Total.IsPositive() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "valorTotal",
			Message: "valorTotal must be greater than zero",
		})
	} else if !d.Total.Equal(d.Total.Round(MaxTotalScale)) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "valorTotal",
			Message: "valorTotal must have at most 2 decimal places",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

// ApplyTo overwrites every mutable field of order with the draft values.
// The order id is left untouched.
func (d OrderDraft) ApplyTo(order *Order) {
	order.IssuedAt = d.IssuedAt
	order.Number = d.Number
	order.Kind = d.Kind
	order.Status = d.Status
	if d.Total != nil {
		order.Total = *d.Total
	} else {
		order.Total = decimal.Zero
	}
	order.ParticipantID = d.ParticipantID
}

func (d OrderDraft) NewOrder() Order {
	var o Order
	d.ApplyTo(&o)
	return o
}
