package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quakeAlert() models.Alert {
	return models.Alert{
		Labels: []string{"Earthquake", "Economy"},
		Article: models.Article{
			Title:     "Massive earthquake hits city, dollar drops",
			Link:      "https://x/quake",
			Source:    "BBC World",
			Category:  models.CategoryConflict,
			Sentiment: models.Float(-0.4),
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

type fakeSink struct {
	name string
	err  error
	mu   sync.Mutex
	got  []models.Alert
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Send(_ context.Context, a models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, a)
	return f.err
}

// TestMulti_FailureDoesNotStopOthers — сбой одного канала не мешает остальным и не всплывает.
func TestMulti_FailureDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	bad := &fakeSink{name: "bad", err: errors.New("boom")}
	good := &fakeSink{name: "good"}

	m := NewMulti(nil, bad, good)
	require.Equal(t, 2, m.Len())

	require.NotPanics(t, func() { m.Notify(context.Background(), quakeAlert()) })
	require.Len(t, bad.got, 1)
	require.Len(t, good.got, 1)
}

// blockingSink висит до отмены контекста.
type blockingSink struct{ calls int }

func (b *blockingSink) Name() string { return "blocking" }

func (b *blockingSink) Send(ctx context.Context, _ models.Alert) error {
	b.calls++
	<-ctx.Done()
	return ctx.Err()
}

// TestMulti_SendTimeout — зависший канал ограничен таймаутом и не мешает следующему.
func TestMulti_SendTimeout(t *testing.T) {
	t.Parallel()

	stuck := &blockingSink{}
	good := &fakeSink{name: "good"}

	m := NewMulti(nil, stuck, good).WithTimeout(50 * time.Millisecond)

	start := time.Now()
	m.Notify(context.Background(), quakeAlert())
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, 1, stuck.calls)
	require.Len(t, good.got, 1)
}

// TestMulti_CanceledContextSkipsChannels — после прерывания алерты не рассылаются.
func TestMulti_CanceledContextSkipsChannels(t *testing.T) {
	t.Parallel()

	stuck := &blockingSink{}
	good := &fakeSink{name: "good"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewMulti(nil, stuck, good).WithTimeout(time.Hour).Notify(ctx, quakeAlert())
	require.Zero(t, stuck.calls)
	require.Empty(t, good.got)
}

func TestDesktop_Send(t *testing.T) {
	t.Parallel()

	var gotTitle, gotMsg string
	run := func(title, message string) error {
		gotTitle, gotMsg = title, message
		return nil
	}

	require.NoError(t, NewDesktopWith(run).Send(context.Background(), quakeAlert()))
	require.Equal(t, "News Alert", gotTitle)
	require.Equal(t, "Earthquake; Economy: Massive earthquake hits city, dollar drops (BBC World)", gotMsg)

	a := quakeAlert()
	a.Article.Title = strings.Repeat("ş", 400)
	require.NoError(t, NewDesktopWith(run).Send(context.Background(), a))
	require.Len(t, []rune(gotMsg), maxDesktopMessage)
	require.True(t, strings.HasPrefix(gotMsg, "Earthquake; Economy: ş"))

	boom := errors.New("no notification daemon")
	err := NewDesktopWith(func(string, string) error { return boom }).Send(context.Background(), quakeAlert())
	require.ErrorIs(t, err, boom)
}

func TestDesktop_SendReturnsOnContextDone(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	stuck := func(string, string) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewDesktopWith(stuck).Send(ctx, quakeAlert())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestTelegram_Send(t *testing.T) {
	t.Parallel()

	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram(srv.Client(), TelegramOptions{APIURL: srv.URL + "/", Token: "TOKEN", ChatID: "42"})
	require.NoError(t, tg.Send(context.Background(), quakeAlert()))
	require.Equal(t, "42", got.ChatID)
	require.Equal(t, "Earthquake; Economy: Massive earthquake hits city, dollar drops (BBC World)", got.Text)
}

func TestTelegram_ErrorStatusAndTimeout(t *testing.T) {
	t.Parallel()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "chat not found", http.StatusBadRequest)
	}))
	defer bad.Close()

	err := NewTelegram(nil, TelegramOptions{APIURL: bad.URL, Token: "T", ChatID: "1"}).Send(context.Background(), quakeAlert())
	require.ErrorContains(t, err, "status=400")

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	err = NewTelegram(nil, TelegramOptions{APIURL: slow.URL, Token: "SECRET", ChatID: "1", Timeout: 50 * time.Millisecond}).Send(context.Background(), quakeAlert())
	require.Error(t, err)
	require.NotContains(t, err.Error(), "SECRET")
}

func TestTelegram_RateLimited(t *testing.T) {
	t.Parallel()

	var calls int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))
	defer srv.Close()

	tg := NewTelegram(nil, TelegramOptions{APIURL: srv.URL, Token: "T", ChatID: "1", PerMinute: 2})

	require.NoError(t, tg.Send(context.Background(), quakeAlert()))
	require.NoError(t, tg.Send(context.Background(), quakeAlert()))
	require.ErrorIs(t, tg.Send(context.Background(), quakeAlert()), ErrRateLimited)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, calls)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafka_Send(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	k := NewKafka(w)

	require.NoError(t, k.Send(context.Background(), quakeAlert()))
	require.Len(t, w.msgs, 1)
	require.Equal(t, "https://x/quake", string(w.msgs[0].Key))

	var ev AlertEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	require.Equal(t, []string{"Earthquake", "Economy"}, ev.Labels)
	require.Equal(t, "conflict/crisis", ev.Category)
	require.Equal(t, "2024-05-01T12:00:00Z", ev.CreatedAt)
	require.InDelta(t, -0.4, *ev.Sentiment, 1e-9)

	w.err = errors.New("broker down")
	require.ErrorContains(t, k.Send(context.Background(), quakeAlert()), "broker down")

	require.NoError(t, NewMulti(nil, k).Close())
	require.True(t, w.closed)
}
