package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ActionSkip           = "skip"
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionFallbackCreate = "fallback_create"

	LookupFound   = "found"
	LookupMissing = "missing"
)

// IntegrationMetrics counts the side effects sent to sibling services.
// A nil *IntegrationMetrics is valid and records nothing.
type IntegrationMetrics struct {
	ledgerDispatch     *prometheus.CounterVec
	participantLookups *prometheus.CounterVec
}

func NewIntegrationMetrics(registerer prometheus.Registerer) *IntegrationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &IntegrationMetrics{
		ledgerDispatch: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pedidos_ledger_dispatch_total",
			Help: "Ledger actions decided for order lifecycle events",
		}, []string{"action"}),
		participantLookups: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pedidos_participant_lookups_total",
			Help: "Participant lookups performed while enriching order responses",
		}, []string{"result"}),
	}
}

func (m *IntegrationMetrics) RecordLedgerAction(action string) {
	if m == nil {
		return
	}
	m.ledgerDispatch.WithLabelValues(action).Inc()
}

func (m *IntegrationMetrics) RecordParticipantLookup(found bool) {
	if m == nil {
		return
	}
	result := LookupMissing
	if found {
		result = LookupFound
	}
	m.participantLookups.WithLabelValues(result).Inc()
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return counter
}
