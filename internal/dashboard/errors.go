package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/news-analyzer/internal/dashboard/middleware"
	"github.com/pribylovaa/news-analyzer/internal/service"
	"github.com/pribylovaa/news-analyzer/internal/storage"
)

// StatusClientClosedRequest — нестандартный код «клиент закрыл соединение».
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки JSON API.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект ответа с ошибкой.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// toHTTP маппит доменную ошибку в HTTP-статус и безопасное сообщение.
func toHTTP(err error) (int, APIError) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, APIError{Code: "invalid_argument", Message: "invalid argument"}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, APIError{Code: "not_found", Message: "not found"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, APIError{Code: "deadline_exceeded", Message: "deadline exceeded"}
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, APIError{Code: "canceled", Message: "request canceled"}
	case errors.Is(err, errStoreUnavailable), errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, APIError{Code: "unavailable", Message: "store unavailable"}
	default:
		return http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"}
	}
}

// writeError пишет JSON-ошибку с request_id, если он есть.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := toHTTP(err)
	apiErr.RequestID = middleware.RequestIDFrom(r.Context())
	writeJSON(w, status, ErrorResponse{Error: apiErr})
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
