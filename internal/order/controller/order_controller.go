package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pedidos/internal/domain"
	"pedidos/internal/dto"
	apperrors "pedidos/internal/errors"
)

const (
	RequestIDHeader = "X-Request-ID"
	basePath        = "/api/pedidos"
)

type OrderUseCase interface {
	Create(ctx context.Context, draft domain.OrderDraft) (*dto.OrderResponse, error)
	Update(ctx context.Context, id int64, draft domain.OrderDraft) (*dto.OrderResponse, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*dto.OrderResponse, error)
	List(ctx context.Context) ([]dto.OrderResponse, error)
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

// Routes mounts the order endpoints under the caller's prefix.
func (c *OrderController) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.List)
	r.Post("/", c.Create)
	r.Get("/{id}", c.Get)
	r.Put("/{id}", c.Update)
	r.Delete("/{id}", c.Delete)
	return r
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(w, r)

	orders, err := c.useCase.List(r.Context())
	if err != nil {
		c.handleUseCaseError(w, r, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, orders)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(w, r)

	id, ok := c.parseID(w, r, logger)
	if !ok {
		return
	}

	order, err := c.useCase.Get(r.Context(), id)
	if err != nil {
		c.handleUseCaseError(w, r, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, order)
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(w, r)

	req, ok := c.decodeOrder(w, r, logger)
	if !ok {
		return
	}

	order, err := c.useCase.Create(r.Context(), req.ToDraft())
	if err != nil {
		c.handleUseCaseError(w, r, err, logger)
		return
	}

	w.Header().Set("Location", basePath+"/"+strconv.FormatInt(order.ID, 10))
	c.writeJSON(w, http.StatusCreated, order)
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(w, r)

	id, ok := c.parseID(w, r, logger)
	if !ok {
		return
	}

	req, ok := c.decodeOrder(w, r, logger)
	if !ok {
		return
	}

	order, err := c.useCase.Update(r.Context(), id, req.ToDraft())
	if err != nil {
		c.handleUseCaseError(w, r, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, order)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(w, r)

	id, ok := c.parseID(w, r, logger)
	if !ok {
		return
	}

	if err := c.useCase.Delete(r.Context(), id); err != nil {
		c.handleUseCaseError(w, r, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requestLogger echoes the inbound request id, generating one when absent.
func (c *OrderController) requestLogger(w http.ResponseWriter, r *http.Request) *zap.Logger {
	traceID := r.Header.Get(RequestIDHeader)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	w.Header().Set(RequestIDHeader, traceID)

	return c.logger.With(zap.String("traceId", traceID))
}

func (c *OrderController) parseID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.Warn("invalid id in path", zap.String("id", idStr), zap.Error(err))
		c.writeProblem(w, r, http.StatusBadRequest, "invalid id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be an integer",
		})
		return 0, false
	}
	return id, true
}

func (c *OrderController) decodeOrder(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (dto.OrderRequest, bool) {
	var req dto.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeProblem(w, r, http.StatusBadRequest, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return req, false
	}
	return req, true
}

func (c *OrderController) handleUseCaseError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		logger.Info("validation failed", zap.Int("fieldErrors", len(ve.Details)))
		c.writeProblem(w, r, http.StatusBadRequest, ve.Message, ve.Details...)
		return
	}

	if nf, ok := apperrors.IsNotFoundError(err); ok {
		c.writeProblem(w, r, http.StatusNotFound, nf.Message)
		return
	}

	if ie, ok := apperrors.IsInternalError(err); ok {
		logger.Error("storage failure", zap.String("operation", ie.Message), zap.Error(ie.Cause))
		c.writeProblem(w, r, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeProblem(w, r, http.StatusInternalServerError, "an unexpected error occurred")
}

func (c *OrderController) writeProblem(w http.ResponseWriter, r *http.Request, status int, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, status, dto.NewProblem(status, http.StatusText(status), message, r.URL.Path, details...))
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
