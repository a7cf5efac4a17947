package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/classify"
	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/storage/sqlite"
	"github.com/pribylovaa/news-analyzer/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// stubParser — минимальный Parser: отдаёт заранее заданные результаты.
type stubParser struct {
	mu    sync.Mutex
	calls int
	res   []ParseResult
}

func (s *stubParser) ParseMany(ctx context.Context, _ []config.Source) <-chan ParseResult {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	ch := make(chan ParseResult, len(s.res))
	for _, r := range s.res {
		ch <- r
	}
	close(ch)
	return ch
}

func (s *stubParser) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recorder — Printer и Notifier, запоминающие вызовы.
type recorder struct {
	mu      sync.Mutex
	printed []models.Article
	alerts  []models.Alert
}

func (r *recorder) PrintCycle(items []models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range items {
		r.printed = append(r.printed, a.Article)
	}
}

func (r *recorder) Notify(_ context.Context, a models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

func sources(names ...string) []config.Source {
	out := make([]config.Source, 0, len(names))
	for _, n := range names {
		out = append(out, config.Source{Name: n, URL: "https://" + n + ".example/rss"})
	}
	return out
}

func entry(source, link, title string) models.Entry {
	return models.Entry{Title: title, Link: link, Source: source}
}

func links(items []models.Article) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Link)
	}
	return out
}

func newSession(st *mocks.MockStorage, p Parser, rec *recorder, interval time.Duration, srcs ...string) *Session {
	return NewSession(st, p, classify.New(nil), config.FetcherConfig{
		Sources:  sources(srcs...),
		Interval: interval,
	}, WithNotifier(rec), WithPrinter(rec))
}

// TestRunCycle_MergesInConfigOrder — результаты собираются в порядке конфига,
// а не в порядке прихода из канала; ошибка одной ленты не мешает другим.
func TestRunCycle_MergesInConfigOrder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	parser := &stubParser{res: []ParseResult{
		{Source: "b", Entries: []models.Entry{entry("b", "https://b/1", "B1")}},
		{Source: "bad", Err: errors.New("boom")},
		{Source: "a", Entries: []models.Entry{entry("a", "https://a/1", "A1"), entry("a", "https://a/2", "A2")}},
	}}

	st.EXPECT().
		SaveArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []models.Article) ([]models.Article, error) {
			require.Equal(t, []string{"https://a/1", "https://a/2", "https://b/1"}, links(items))
			for _, a := range items {
				require.NotNil(t, a.Sentiment)
				require.True(t, a.Category.Valid())
			}
			return nil, nil
		})

	s := newSession(st, parser, &recorder{}, time.Hour, "a", "bad", "b")

	stats, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.Fetched)
	require.Equal(t, 3, stats.New)
	require.Equal(t, 2, stats.FeedsOK)
	require.Equal(t, 1, stats.FeedsErr)
}

// TestRunCycle_DedupAcrossCycles — второй цикл с теми же ссылками ничего не сохраняет.
func TestRunCycle_DedupAcrossCycles(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	parser := &stubParser{res: []ParseResult{
		{Source: "a", Entries: []models.Entry{entry("a", "https://a/1", "A1"), entry("a", "https://a/1", "A1 again"), entry("a", "", "no link")}},
	}}

	st.EXPECT().
		SaveArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []models.Article) ([]models.Article, error) {
			require.Equal(t, []string{"https://a/1"}, links(items))
			return items, nil
		}).
		Times(1)

	s := newSession(st, parser, &recorder{}, time.Hour, "a")

	_, err := s.RunCycle(context.Background())
	require.NoError(t, err)

	stats, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.New)
	require.True(t, s.Seen("https://a/1"))
}

// TestRunCycle_ReportsOnlyInsertedNegative — печатаются и рассылаются только реально
// вставленные статьи с отрицательной тональностью; алерт — только при наличии меток.
func TestRunCycle_ReportsOnlyInsertedNegative(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	parser := &stubParser{res: []ParseResult{
		{Source: "BBC World", Entries: []models.Entry{
			entry("BBC World", "https://x/quake", "Massive earthquake hits city, dollar drops"),
			entry("BBC World", "https://x/calm", "Calm day in parliament"),
			entry("BBC World", "https://x/dup", "Bombing in capital"),
			entry("BBC World", "https://x/happy", "Festival opens"),
		}},
	}}

	st.EXPECT().
		SaveArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []models.Article) ([]models.Article, error) {
			var out []models.Article
			for i, a := range items {
				switch a.Link {
				case "https://x/dup":
					// Уже есть в хранилище: не вставлена.
					continue
				case "https://x/happy":
					a.Sentiment = models.Float(0.5)
				default:
					a.Sentiment = models.Float(-0.4)
				}
				a.ID = int64(i + 1)
				out = append(out, a)
			}
			return out, nil
		})

	rec := &recorder{}
	s := newSession(st, parser, rec, time.Hour, "BBC World")

	stats, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.Inserted)
	require.Equal(t, 2, stats.Negative)
	require.Equal(t, 1, stats.Alerts)

	require.Equal(t, []string{"https://x/quake", "https://x/calm"}, links(rec.printed))
	require.Len(t, rec.alerts, 1)
	require.Equal(t, []string{"Earthquake", "Economy"}, rec.alerts[0].Labels)
	require.Equal(t, "Earthquake; Economy: Massive earthquake hits city, dollar drops (BBC World)", rec.alerts[0].Message())
}

// TestRunCycle_SaveErrorIsReturned — ошибка хранилища поднимается из цикла,
// но вставленные строки всё равно попадают в отчёт.
func TestRunCycle_SaveErrorIsReturned(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	parser := &stubParser{res: []ParseResult{
		{Source: "a", Entries: []models.Entry{entry("a", "https://a/1", "War"), entry("a", "https://a/2", "War")}},
	}}

	st.EXPECT().
		SaveArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []models.Article) ([]models.Article, error) {
			ok := items[0]
			ok.Sentiment = models.Float(-0.5)
			return []models.Article{ok}, errors.New("disk full")
		})

	rec := &recorder{}
	s := newSession(st, parser, rec, time.Hour, "a")

	stats, err := s.RunCycle(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
	require.Equal(t, 1, stats.Inserted)
	require.Len(t, rec.printed, 1)
}

// TestRunCycle_ScenarioABC — A уже в хранилище; цикл с {A,B,C} добавляет ровно B и C.
func TestRunCycle_ScenarioABC(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "news.db"))
	require.NoError(t, err)
	defer st.Close()

	ok, err := st.InsertIfAbsent(ctx, models.Article{Title: "A", Link: "https://x/A", Source: "s", Category: models.CategoryOther, Sentiment: models.Float(0.3)})
	require.NoError(t, err)
	require.True(t, ok)

	parser := &stubParser{res: []ParseResult{
		{Source: "s", Entries: []models.Entry{
			entry("s", "https://x/A", "A changed"),
			entry("s", "https://x/B", "B"),
			entry("s", "https://x/C", "C"),
		}},
	}}

	s := NewSession(st, parser, classify.New(nil), config.FetcherConfig{Sources: sources("s"), Interval: time.Hour})

	stats, err := s.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Inserted)

	sum, err := st.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, sum.Total)

	for _, l := range []string{"https://x/A", "https://x/B", "https://x/C"} {
		require.True(t, s.Seen(l), l)
	}

	a, err := st.ByLink(ctx, "https://x/A")
	require.NoError(t, err)
	require.Equal(t, "A", a.Title)
	require.InDelta(t, 0.3, *a.Sentiment, 1e-9)
}

// blockingParser отдаёт записи только после отмены ctx: имитирует прерывание посреди загрузки.
type blockingParser struct {
	started chan struct{}
	entries []models.Entry
}

func (p *blockingParser) ParseMany(ctx context.Context, srcs []config.Source) <-chan ParseResult {
	ch := make(chan ParseResult, 1)
	go func() {
		defer close(ch)
		close(p.started)
		<-ctx.Done()
		ch <- ParseResult{Source: srcs[0].Name, Entries: p.entries}
	}()
	return ch
}

// TestRun_InterruptDuringCycle_PersistsData — прерывание во время цикла не теряет данные:
// сохранение идёт с неотменённым контекстом, Run возвращает nil.
func TestRun_InterruptDuringCycle_PersistsData(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	parser := &blockingParser{
		started: make(chan struct{}),
		entries: []models.Entry{entry("a", "https://a/1", "A1")},
	}

	st.EXPECT().
		SaveArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, items []models.Article) ([]models.Article, error) {
			require.NoError(t, ctx.Err())
			require.Len(t, items, 1)
			return items, nil
		})

	s := NewSession(st, parser, nil, config.FetcherConfig{Sources: sources("a"), Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-parser.started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for Run to return")
	}
}

// TestRun_InterruptDuringIdle — отмена во время паузы завершает Run сразу.
func TestRun_InterruptDuringIdle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	parser := &stubParser{res: []ParseResult{{Source: "a"}}}
	s := newSession(st, parser, &recorder{}, 24*time.Hour, "a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return parser.Calls() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for Run to return")
	}
	require.Equal(t, 1, parser.Calls())
}

// TestRun_RepeatsAfterInterval — после паузы стартует следующий цикл, даже если предыдущий упал.
func TestRun_RepeatsAfterInterval(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	parser := &stubParser{res: []ParseResult{{Source: "a", Err: errors.New("offline")}}}
	s := newSession(st, parser, &recorder{}, 20*time.Millisecond, "a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return parser.Calls() >= 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRun_Validation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	err := NewSession(st, &stubParser{}, nil, config.FetcherConfig{Interval: time.Minute}).Run(context.Background())
	require.ErrorContains(t, err, "no sources configured")

	err = NewSession(st, &stubParser{}, nil, config.FetcherConfig{Sources: sources("a")}).Run(context.Background())
	require.ErrorContains(t, err, "interval must be > 0")
}
