// notify — доставка алертов: рабочий стол, Telegram, Kafka.
//
// Доставка best-effort: ошибки каналов логируются и учитываются в метриках,
// но никогда не возвращаются в цикл опроса.
package notify

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/metrics"
	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/pkg/log"
)

// Sink — один канал доставки.
type Sink interface {
	Name() string
	Send(ctx context.Context, alert models.Alert) error
}

// DefaultSendTimeout — предел одной отправки в канал.
const DefaultSendTimeout = 5 * time.Second

// Multi рассылает алерт во все каналы по очереди.
type Multi struct {
	sinks   []Sink
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewMulti создаёт рассылку по sinks; m может быть nil.
func NewMulti(m *metrics.Metrics, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, metrics: m, timeout: DefaultSendTimeout}
}

// WithTimeout задаёт предел одной отправки; d <= 0 оставляет текущий.
func (n *Multi) WithTimeout(d time.Duration) *Multi {
	if d > 0 {
		n.timeout = d
	}

	return n
}

// Len — количество подключённых каналов.
func (n *Multi) Len() int {
	return len(n.sinks)
}

// Notify реализует service.Notifier.
func (n *Multi) Notify(ctx context.Context, alert models.Alert) {
	const op = "notify.Multi.Notify"

	lg := log.From(ctx)

	for i, s := range n.sinks {
		if err := ctx.Err(); err != nil {
			lg.Warn("alert_delivery_skipped",
				slog.String("op", op),
				slog.Int("channels", len(n.sinks)-i),
				slog.String("link", alert.Article.Link),
				slog.String("err", err.Error()),
			)
			return
		}

		err := n.send(ctx, s, alert)
		n.metrics.ObserveAlert(s.Name(), err)

		if err != nil {
			lg.Warn("alert_delivery_failed",
				slog.String("op", op),
				slog.String("channel", s.Name()),
				slog.String("link", alert.Article.Link),
				slog.String("err", err.Error()),
			)
			continue
		}

		lg.Debug("alert_delivered",
			slog.String("op", op),
			slog.String("channel", s.Name()),
			slog.String("link", alert.Article.Link),
		)
	}
}

func (n *Multi) send(ctx context.Context, s Sink, alert models.Alert) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	return s.Send(ctx, alert)
}

// Close закрывает каналы, которые держат ресурсы (Kafka writer).
func (n *Multi) Close() error {
	var first error
	for _, s := range n.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}

	return first
}
