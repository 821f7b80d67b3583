package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"pedidos/internal/domain"
)

// OrderRequest is the body of create and update calls. The *Transacao fields
// only parameterize the ledger transaction and are not stored.
type OrderRequest struct {
	DataEmissaoPedido       *Timestamp       `json:"dataEmissaoPedido,omitempty"`
	NumeroPedido            string           `json:"numeroPedido"`
	TipoPedido              string           `json:"tipoPedido"`
	SituacaoPedido          string           `json:"situacaoPedido"`
	ValorTotal              *decimal.Decimal `json:"valorTotal"`
	ParticipanteID          *int64           `json:"participanteId,omitempty"`
	DataVencimentoTransacao *Date            `json:"dataVencimentoTransacao,omitempty"`
	PagoTransacao           *bool            `json:"pagoTransacao,omitempty"`
	DataPagamentoTransacao  *Date            `json:"dataPagamentoTransacao,omitempty"`
}

func (r OrderRequest) ToDraft() domain.OrderDraft {
	return domain.OrderDraft{
		IssuedAt:      r.DataEmissaoPedido.timePtr(),
		Number:        r.NumeroPedido,
		Kind:          domain.OrderKind(r.TipoPedido),
		Status:        domain.BillingStatus(r.SituacaoPedido),
		Total:         r.ValorTotal,
		ParticipantID: r.ParticipanteID,
		Hints: domain.LedgerHints{
			DueDate:     r.DataVencimentoTransacao.timePtr(),
			Paid:        r.PagoTransacao,
			PaymentDate: r.DataPagamentoTransacao.timePtr(),
		},
	}
}

type ParticipantDTO struct {
	ID               int64  `json:"id"`
	Codigo           string `json:"codigo,omitempty"`
	Nome             string `json:"nome,omitempty"`
	CpfCnpj          string `json:"cpfCnpj,omitempty"`
	TipoPessoa       string `json:"tipoPessoa,omitempty"`
	TipoParticipante string `json:"tipoParticipante,omitempty"`
}

func FromParticipant(p domain.ParticipantSummary) *ParticipantDTO {
	return &ParticipantDTO{
		ID:               p.ID,
		Codigo:           p.Code,
		Nome:             p.Name,
		CpfCnpj:          p.TaxID,
		TipoPessoa:       p.PersonType,
		TipoParticipante: p.ParticipantType,
	}
}

type OrderResponse struct {
	ID                int64           `json:"id"`
	DataEmissaoPedido *Timestamp      `json:"dataEmissaoPedido,omitempty"`
	NumeroPedido      string          `json:"numeroPedido,omitempty"`
	TipoPedido        string          `json:"tipoPedido,omitempty"`
	SituacaoPedido    string          `json:"situacaoPedido,omitempty"`
	ValorTotal        json.Number     `json:"valorTotal,omitempty"`
	ParticipanteID    *int64          `json:"participanteId,omitempty"`
	Participante      *ParticipantDTO `json:"participante,omitempty"`
}

func FromOrder(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		DataEmissaoPedido: timestampPtr(o.IssuedAt),
		NumeroPedido:      o.Number,
		TipoPedido:        string(o.Kind),
		SituacaoPedido:    string(o.Status),
		ValorTotal:        json.Number(o.Total.String()),
		ParticipanteID:    o.ParticipantID,
	}
}

func FromOrders(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
