package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// deadlineError повторяет формат ошибок JSON API дашборда.
type deadlineError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// Timeout ограничивает запрос дедлайном d, если у контекста его ещё нет.
// d <= 0 делает мидлвар no-op.
//
// Если обработчик вернулся по истёкшему дедлайну, ничего не записав,
// клиент получает 504 с кодом deadline_exceeded.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if sw.status == 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				var body deadlineError
				body.Error.Code = "deadline_exceeded"
				body.Error.Message = "deadline exceeded"
				body.Error.RequestID = RequestIDFrom(ctx)

				sw.Header().Set("Content-Type", "application/json")
				sw.WriteHeader(http.StatusGatewayTimeout)
				_ = json.NewEncoder(sw).Encode(body)
			}
		})
	}
}
