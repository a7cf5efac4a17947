// rss загружает и разбирает ленты через gofeed.
package rss

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/metrics"
	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/service"
	"github.com/pribylovaa/news-analyzer/pkg/log"

	"github.com/mmcdole/gofeed"
	rssfeed "github.com/mmcdole/gofeed/rss"
)

// Parser реализует service.Parser для лент семейства RSS (и Atom, который gofeed тоже понимает).
//
// Параллелизм ограничен семафором maxConc, на каждую ленту свой таймаут.
// HTTP-клиент настраивается извне (прокси, транспорт).
type Parser struct {
	client    *http.Client
	maxConc   int
	timeout   time.Duration
	userAgent string
	metrics   *metrics.Metrics
}

// Option настраивает Parser.
type Option func(*Parser)

// WithTimeout задаёт таймаут на одну ленту.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithUserAgent задаёт заголовок User-Agent.
func WithUserAgent(ua string) Option {
	return func(p *Parser) { p.userAgent = ua }
}

// WithMetrics подключает метрики загрузки.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// New создаёт новый парсер.
func New(client *http.Client, maxConcurrent int, opts ...Option) *Parser {
	if client == nil {
		client = &http.Client{}
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 6
	}

	p := &Parser{client: client, maxConc: maxConcurrent, timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseMany разбирает несколько лент конкурентно и отдаёт результаты в канал.
// Канал закрывается после обработки всех источников.
func (p *Parser) ParseMany(ctx context.Context, sources []config.Source) <-chan service.ParseResult {
	output := make(chan service.ParseResult, len(sources))

	go func() {
		defer close(output)

		sem := make(chan struct{}, p.maxConc)

		for _, src := range sources {
			select {
			case <-ctx.Done():
				output <- service.ParseResult{Source: src.Name, Err: ctx.Err()}
				continue
			case sem <- struct{}{}:
			}

			go func(src config.Source) {
				defer func() {
					<-sem
				}()

				start := time.Now()
				entries, err := p.fetchOne(ctx, src)
				p.metrics.ObserveFetch(src.Name, time.Since(start), err)

				output <- service.ParseResult{Source: src.Name, Entries: entries, Err: err}
			}(src)
		}

		for i := 0; i < cap(sem); i++ {
			sem <- struct{}{}
		}
	}()

	return output
}

// fetchOne загружает и разбирает одну ленту.
func (p *Parser) fetchOne(ctx context.Context, src config.Source) ([]models.Entry, error) {
	const op = "rss.fetchOne"

	lg := log.From(ctx)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		lg.Warn("http_error",
			slog.String("op", op),
			slog.String("source", src.Name),
			slog.String("url", src.URL),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	fp := gofeed.NewParser()
	fp.RSSTranslator = &permalinkTranslator{}

	feed, err := fp.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", op, err)
	}

	output := make([]models.Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		// Ссылка хранится как есть: это ключ дедупликации.
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		output = append(output, models.Entry{
			Title:     item.Title,
			Summary:   item.Description,
			Link:      link,
			Published: item.Published,
			Source:    src.Name,
		})
	}

	return output, nil
}

// permalinkTranslator — перевод RSS по умолчанию, но у элемента без <link>
// ссылкой становится <guid>, если это permalink: IsPermalink не равен "false"
// и значение — абсолютный http(s) URL. gofeed сам этого не делает.
//
// gofeed читает атрибут как "isPermalink" с учётом регистра, поэтому
// стандартное isPermaLink="false" до нас не доходит; отсекает http(s)-проверка.
type permalinkTranslator struct {
	gofeed.DefaultRSSTranslator
}

// Translate реализует gofeed.Translator.
func (t *permalinkTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	out, err := t.DefaultRSSTranslator.Translate(feed)
	if err != nil {
		return nil, err
	}

	raw, ok := feed.(*rssfeed.Feed)
	if !ok || len(raw.Items) != len(out.Items) {
		return out, nil
	}

	for i, item := range raw.Items {
		if out.Items[i] == nil || strings.TrimSpace(out.Items[i].Link) != "" {
			continue
		}
		if link, ok := permalink(item.GUID); ok {
			out.Items[i].Link = link
		}
	}

	return out, nil
}

func permalink(guid *rssfeed.GUID) (string, bool) {
	if guid == nil || strings.EqualFold(strings.TrimSpace(guid.IsPermalink), "false") {
		return "", false
	}

	v := strings.TrimSpace(guid.Value)
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return "", false
	}

	return v, true
}
