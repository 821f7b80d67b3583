package domain

import "github.com/shopspring/decimal"

type EventType int

const (
	EventCreated EventType = iota + 1
	EventUpdated
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	}
	return "unknown"
}

// LifecycleEvent is emitted by a create or update and must only be dispatched
// after the owning transaction has committed.
type LifecycleEvent struct {
	Type           EventType
	OrderID        int64
	Number         string
	Kind           OrderKind
	Total          decimal.Decimal
	PreviousBilled bool
	CurrentBilled  bool
	Hints          LedgerHints
}

func NewCreatedEvent(order Order, hints LedgerHints) LifecycleEvent {
	return LifecycleEvent{
		Type:          EventCreated,
		OrderID:       order.ID,
		Number:        order.Number,
		Kind:          order.Kind,
		Total:         order.Total,
		CurrentBilled: order.Billed(),
		Hints:         hints,
	}
}

func NewUpdatedEvent(order Order, previousBilled, currentBilled bool, hints LedgerHints) LifecycleEvent {
	return LifecycleEvent{
		Type:           EventUpdated,
		OrderID:        order.ID,
		Number:         order.Number,
		Kind:           order.Kind,
		Total:          order.Total,
		PreviousBilled: previousBilled,
		CurrentBilled:  currentBilled,
		Hints:          hints,
	}
}
