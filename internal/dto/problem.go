package dto

import (
	"time"

	apperrors "pedidos/internal/errors"
)

// ProblemDetails is the error body returned by every endpoint.
type ProblemDetails struct {
	Timestamp   time.Time                    `json:"timestamp"`
	Status      int                          `json:"status"`
	Error       string                       `json:"error"`
	Message     string                       `json:"message"`
	Path        string                       `json:"path"`
	FieldErrors []apperrors.ValidationDetail `json:"fieldErrors"`
}

func NewProblem(status int, title, message, path string, fieldErrors ...apperrors.ValidationDetail) ProblemDetails {
	if fieldErrors == nil {
		fieldErrors = []apperrors.ValidationDetail{}
	}
	return ProblemDetails{
		Timestamp:   time.Now(),
		Status:      status,
		Error:       title,
		Message:     message,
		Path:        path,
		FieldErrors: fieldErrors,
	}
}
