package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter — подмножество kafka.Writer, нужное каналу.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka публикует алерты в топик; ключ сообщения — ссылка статьи.
type Kafka struct {
	writer MessageWriter
	now    func() time.Time
}

// NewKafkaWriter создаёт синхронный writer для brokers/topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafka создаёт канал поверх writer.
func NewKafka(w MessageWriter) *Kafka {
	return &Kafka{writer: w, now: time.Now}
}

// Name реализует Sink.
func (k *Kafka) Name() string { return "kafka" }

// AlertEvent — полезная нагрузка сообщения Kafka.
type AlertEvent struct {
	Labels    []string `json:"labels"`
	Message   string   `json:"message"`
	Title     string   `json:"title"`
	Link      string   `json:"link"`
	Source    string   `json:"source"`
	Published string   `json:"published"`
	Category  string   `json:"category"`
	Sentiment *float64 `json:"sentiment"`
	CreatedAt string   `json:"created_at"`
}

// Send реализует Sink.
func (k *Kafka) Send(ctx context.Context, alert models.Alert) error {
	const op = "notify.Kafka.Send"

	a := alert.Article
	value, err := json.Marshal(AlertEvent{
		Labels:    alert.Labels,
		Message:   alert.Message(),
		Title:     a.Title,
		Link:      a.Link,
		Source:    a.Source,
		Published: a.Published,
		Category:  string(a.Category),
		Sentiment: a.Sentiment,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(a.Link),
		Value: value,
		Time:  k.now(),
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
