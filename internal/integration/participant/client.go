package participant

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"pedidos/internal/config"
	"pedidos/internal/domain"
)

type participantResponse struct {
	ID               int64  `json:"id"`
	Codigo           string `json:"codigo"`
	Nome             string `json:"nome"`
	CpfCnpj          string `json:"cpfCnpj"`
	TipoPessoa       string `json:"tipoPessoa"`
	TipoParticipante string `json:"tipoParticipante"`
}

// Client reads participant summaries from the participant service. Every
// failure degrades to "not found"; nothing is retried or cached.
type Client struct {
	http    *resty.Client
	enabled bool
	logger  *zap.Logger
}

func NewClient(cfg config.IntegrationConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())

	return &Client{
		http:    httpClient,
		enabled: cfg.Enabled,
		logger:  logger.With(zap.String("integration", "participantes")),
	}
}

func (c *Client) FindByID(ctx context.Context, id *int64) (*domain.ParticipantSummary, bool) {
	if id == nil || !c.enabled {
		return nil, false
	}

	var body participantResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(*id, 10)).
		SetResult(&body).
		Get("/api/participantes/{id}")
	if err != nil {
		c.logger.Error("participant lookup failed", zap.Int64("participanteId", *id), zap.Error(err))
		return nil, false
	}

	if resp.StatusCode() >= http.StatusBadRequest && resp.StatusCode() < http.StatusInternalServerError {
		c.logger.Warn("participant not found", zap.Int64("participanteId", *id), zap.Int("status", resp.StatusCode()))
		return nil, false
	}
	if resp.IsError() {
		c.logger.Error("participant service error", zap.Int64("participanteId", *id), zap.Int("status", resp.StatusCode()))
		return nil, false
	}
	if len(resp.Body()) == 0 {
		return nil, false
	}

	return &domain.ParticipantSummary{
		ID:              body.ID,
		Code:            body.Codigo,
		Name:            body.Nome,
		TaxID:           body.CpfCnpj,
		PersonType:      body.TipoPessoa,
		ParticipantType: body.TipoParticipante,
	}, true
}
