package enricher

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pedidos/internal/domain"
	"pedidos/internal/dto"
	"pedidos/internal/metrics"
)

type ParticipantGateway interface {
	FindByID(ctx context.Context, id *int64) (*domain.ParticipantSummary, bool)
}

// ParticipantEnricher attaches participant summaries to order responses.
// Each distinct participant is looked up at most once per call.
type ParticipantEnricher struct {
	gateway     ParticipantGateway
	concurrency int
	metrics     *metrics.IntegrationMetrics
	logger      *zap.Logger
}

func NewParticipantEnricher(gateway ParticipantGateway, concurrency int, m *metrics.IntegrationMetrics, logger *zap.Logger) *ParticipantEnricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ParticipantEnricher{
		gateway:     gateway,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger,
	}
}

func (e *ParticipantEnricher) EnrichOne(ctx context.Context, order dto.OrderResponse) dto.OrderResponse {
	out := e.EnrichList(ctx, []dto.OrderResponse{order})
	return out[0]
}

// EnrichList returns a copy of orders where every order with a resolvable
// participant carries its summary. Lookup failures leave the order untouched.
func (e *ParticipantEnricher) EnrichList(ctx context.Context, orders []dto.OrderResponse) []dto.OrderResponse {
	out := make([]dto.OrderResponse, len(orders))
	copy(out, orders)

	if e.gateway == nil {
		return out
	}

	ids := distinctParticipantIDs(out)
	if len(ids) == 0 {
		return out
	}

	found := e.lookup(ctx, ids)

	for i := range out {
		if out[i].ParticipanteID == nil {
			continue
		}
		if summary, ok := found[*out[i].ParticipanteID]; ok {
			out[i].Participante = dto.FromParticipant(summary)
		}
	}

	return out
}

func (e *ParticipantEnricher) lookup(ctx context.Context, ids []int64) map[int64]domain.ParticipantSummary {
	var (
		mu    sync.Mutex
		found = make(map[int64]domain.ParticipantSummary, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			summary, ok := e.gateway.FindByID(gctx, &id)
			e.metrics.RecordParticipantLookup(ok)
			if !ok || summary == nil {
				return nil
			}

			mu.Lock()
			// Keyed by the requested id, not the one echoed back.
			found[id] = *summary
			mu.Unlock()
			return nil
		})
	}

	// Lookups never return errors; the gateway degrades to "not found".
	_ = g.Wait()

	e.logger.Debug("participants resolved", zap.Int("requested", len(ids)), zap.Int("found", len(found)))
	return found
}

func distinctParticipantIDs(orders []dto.OrderResponse) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)

	for _, o := range orders {
		if o.ParticipanteID == nil || *o.ParticipanteID <= 0 {
			continue
		}
		if _, ok := seen[*o.ParticipanteID]; ok {
			continue
		}
		seen[*o.ParticipanteID] = struct{}{}
		ids = append(ids, *o.ParticipanteID)
	}

	return ids
}
