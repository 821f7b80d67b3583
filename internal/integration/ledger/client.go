package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"pedidos/internal/config"
)

const DateLayout = "2006-01-02"

// Partial payload keys accepted by the ledger update endpoint.
const (
	FieldDescription = "descricao"
	FieldType        = "tipo_transacao"
	FieldAmount      = "valor"
	FieldPaid        = "pago"
	FieldDueDate     = "data_vencimento"
	FieldPaymentDate = "data_pagamento"
)

// TransactionRequest is the create payload of the ledger service. Absent
// dates are sent as null.
type TransactionRequest struct {
	Description string      `json:"descricao"`
	Type        string      `json:"tipo_transacao"`
	Amount      json.Number `json:"valor"`
	Paid        bool        `json:"pago"`
	DueDate     *string     `json:"data_vencimento"`
	PaymentDate *string     `json:"data_pagamento"`
	OrderID     int64       `json:"pedido_id"`
}

type transactionRef struct {
	ID *int64 `json:"id"`
}

// FormatDate renders t as a ledger date, or nil when t is nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// Client writes transactions to the ledger service. Failures are logged and
// never returned.
type Client struct {
	http    *resty.Client
	enabled bool
	logger  *zap.Logger
}

func NewClient(cfg config.IntegrationConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())

	return &Client{
		http:    httpClient,
		enabled: cfg.Enabled,
		logger:  logger.With(zap.String("integration", "transacoes")),
	}
}

func (c *Client) Create(ctx context.Context, req TransactionRequest) {
	if !c.enabled {
		c.logger.Debug("integration disabled, skipping transaction create", zap.String("descricao", req.Description))
		return
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/transacao")
	if err != nil {
		c.logger.Error("failed to create transaction", zap.String("descricao", req.Description), zap.Error(err))
		return
	}
	if resp.IsError() {
		c.logger.Error("failed to create transaction",
			zap.String("descricao", req.Description),
			zap.Int("status", resp.StatusCode()),
		)
		return
	}

	c.logger.Info("transaction created", zap.String("descricao", req.Description), zap.Int64("pedidoId", req.OrderID))
}

// UpdateByOrderID resolves the transaction correlated to orderID and applies
// partial to it. It returns false on any failure so the caller can decide
// whether to create instead.
func (c *Client) UpdateByOrderID(ctx context.Context, orderID int64, partial map[string]any) bool {
	if !c.enabled {
		c.logger.Debug("integration disabled, skipping transaction update", zap.Int64("pedidoId", orderID))
		return false
	}

	var ref transactionRef
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("pedidoId", strconv.FormatInt(orderID, 10)).
		SetResult(&ref).
		Get("/transacoes/pedido/{pedidoId}")
	if err != nil {
		c.logger.Error("failed to look up transaction", zap.Int64("pedidoId", orderID), zap.Error(err))
		return false
	}
	if resp.StatusCode() == http.StatusNotFound || (resp.IsSuccess() && ref.ID == nil) {
		c.logger.Warn("no transaction found for order", zap.Int64("pedidoId", orderID))
		return false
	}
	if resp.IsError() {
		c.logger.Error("failed to look up transaction", zap.Int64("pedidoId", orderID), zap.Int("status", resp.StatusCode()))
		return false
	}

	transactionID := *ref.ID
	resp, err = c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(transactionID, 10)).
		SetBody(partial).
		Put("/transacao/{id}")
	if err != nil {
		c.logger.Error("failed to update transaction", zap.Int64("transacaoId", transactionID), zap.Int64("pedidoId", orderID), zap.Error(err))
		return false
	}
	if resp.IsError() {
		c.logger.Error("failed to update transaction",
			zap.Int64("transacaoId", transactionID),
			zap.Int64("pedidoId", orderID),
			zap.Int("status", resp.StatusCode()),
		)
		return false
	}

	c.logger.Info("transaction updated", zap.Int64("transacaoId", transactionID), zap.Int64("pedidoId", orderID))
	return true
}
