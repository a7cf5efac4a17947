package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/pkg/redact"

	"golang.org/x/time/rate"
)

// ErrRateLimited — сообщение отброшено ограничителем частоты.
var ErrRateLimited = errors.New("rate limited")

// Telegram отправляет алерт через Bot API sendMessage.
type Telegram struct {
	client  *http.Client
	apiURL  string
	token   string
	chatID  string
	limiter *rate.Limiter
}

// TelegramOptions — параметры канала.
type TelegramOptions struct {
	APIURL    string
	Token     string
	ChatID    string
	Timeout   time.Duration
	PerMinute int
}

// NewTelegram создаёт канал. PerMinute <= 0 — без ограничения частоты.
func NewTelegram(client *http.Client, opts TelegramOptions) *Telegram {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.APIURL == "" {
		opts.APIURL = "https://api.telegram.org"
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.PerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.PerMinute)), opts.PerMinute)
	}

	c := *client
	c.Timeout = opts.Timeout

	return &Telegram{
		client:  &c,
		apiURL:  strings.TrimRight(opts.APIURL, "/"),
		token:   opts.Token,
		chatID:  opts.ChatID,
		limiter: limiter,
	}
}

// Name реализует Sink.
func (t *Telegram) Name() string { return "chat" }

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send реализует Sink.
func (t *Telegram) Send(ctx context.Context, alert models.Alert) error {
	const op = "notify.Telegram.Send"

	if !t.limiter.Allow() {
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: t.chatID, Text: alert.Message()})
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	url := t.apiURL + "/bot" + t.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// URL содержит токен.
		return fmt.Errorf("%s: %s", op, redact.Secret(err.Error(), t.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: status=%d: %s", op, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
