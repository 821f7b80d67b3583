package order

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pedidos/internal/config"
	"pedidos/internal/infrastructure/mysql"
	"pedidos/internal/integration/ledger"
	"pedidos/internal/integration/participant"
	"pedidos/internal/metrics"
	"pedidos/internal/order/controller"
	"pedidos/internal/order/dispatcher"
	"pedidos/internal/order/enricher"
	orderrepo "pedidos/internal/order/repository"
	"pedidos/internal/order/service"
	"pedidos/internal/order/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, registerer prometheus.Registerer, logger *zap.Logger) *controller.OrderController {
	return newModule(
		orderrepo.NewMySQLOrderRepository(db),
		mysql.NewTxManager(db, cfg.Order.TxTimeout),
		cfg,
		registerer,
		logger,
	)
}

func newModule(
	repo service.OrderRepository,
	txManager usecase.TransactionManager,
	cfg *config.Config,
	registerer prometheus.Registerer,
	logger *zap.Logger,
) *controller.OrderController {
	integrationMetrics := metrics.NewIntegrationMetrics(registerer)

	// Disabled integrations stay untyped nil so consumers skip them outright.
	var ledgerGateway dispatcher.LedgerGateway
	if cfg.Ledger.Enabled {
		ledgerGateway = ledger.NewClient(cfg.Ledger, logger)
	}
	var participantGateway enricher.ParticipantGateway
	if cfg.Participants.Enabled {
		participantGateway = participant.NewClient(cfg.Participants, logger)
	}

	logger.Info("integrations configured",
		zap.Bool("transacoesEnabled", cfg.Ledger.Enabled),
		zap.String("transacoesBaseUrl", cfg.Ledger.BaseURL),
		zap.Bool("participantesEnabled", cfg.Participants.Enabled),
		zap.String("participantesBaseUrl", cfg.Participants.BaseURL),
	)

	orderSvc := service.NewOrderService(repo, logger)
	ledgerDispatcher := dispatcher.NewLedgerDispatcher(ledgerGateway, integrationMetrics, logger)
	participantEnricher := enricher.NewParticipantEnricher(participantGateway, cfg.Order.EnrichmentConcurrency, integrationMetrics, logger)

	orderUseCase := usecase.NewOrderUseCase(orderSvc, txManager, ledgerDispatcher, participantEnricher, logger)

	return controller.NewOrderController(orderUseCase, logger)
}
