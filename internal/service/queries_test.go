package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/storage"
	"github.com/pribylovaa/news-analyzer/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// newSvcForTest — фабрика Service с контролируемым cfg и мок-хранилищем.
func newSvcForTest(t *testing.T, st storage.Storage) *Service {
	t.Helper()
	cfg := config.Config{
		Limits:  config.LimitsConfig{Default: 12, Max: 100},
		Reports: config.ReportsConfig{ScanLimit: 5000},
	}

	return New(st, cfg)
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	svc := newSvcForTest(t, nil)

	cases := []struct {
		name    string
		in      models.Query
		want    models.Query
		wantErr bool
	}{
		{"defaults", models.Query{}, models.Query{Category: "all", Limit: 12}, false},
		{"negative limit", models.Query{Limit: -5}, models.Query{Category: "all", Limit: 12}, false},
		{"clamped limit", models.Query{Limit: 1000}, models.Query{Category: "all", Limit: 100}, false},
		{"alias", models.Query{Category: "conflict", Hours: 24, Limit: 5}, models.Query{Category: "conflict/crisis", Hours: 24, Limit: 5}, false},
		{"unknown category", models.Query{Category: "sports"}, models.Query{}, true},
		{"negative hours", models.Query{Hours: -1}, models.Query{}, true},
		{"inverted range", models.Query{Sentiment: &models.SentimentRange{Min: 0.5, Max: -0.5}}, models.Query{}, true},
		{"range out of scale", models.Query{Sentiment: &models.SentimentRange{Min: -2, Max: 0}}, models.Query{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.NormalizeQuery(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestQuery_PassesNormalizedQuery — в хранилище уходит нормализованный запрос.
func TestQuery_PassesNormalizedQuery(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	r := models.SentimentRange{Min: -1, Max: 0}
	st.EXPECT().
		Query(gomock.Any(), models.Query{Category: "economy", Hours: 24, Sentiment: &r, Limit: 5}).
		Return([]models.Article{{Link: "https://x/1", Category: models.CategoryEconomy}}, nil)

	svc := newSvcForTest(t, st)

	items, err := svc.Query(context.Background(), models.Query{Category: "economy", Hours: 24, Sentiment: &r, Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestQuery_InvalidArgument_DoesNotHitStorage(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	svc := newSvcForTest(t, st)

	_, err := svc.Query(context.Background(), models.Query{Category: "nope"})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestQuery_StorageErrorWrapped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	boom := errors.New("boom")
	st.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, boom)

	svc := newSvcForTest(t, st)

	_, err := svc.Query(context.Background(), models.Query{})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "service.queries.Query")
}

func TestQuery_EmptyIsNotError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	st.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, nil)

	items, err := newSvcForTest(t, st).Query(context.Background(), models.Query{})
	require.NoError(t, err)
	require.Empty(t, items)
}

// TestMostNegative — сканирование с ScanLimit, сортировка по тональности, NULL пропускаются.
func TestMostNegative(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	st.EXPECT().
		Query(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q models.Query) ([]models.Article, error) {
			require.Equal(t, 5000, q.Limit)
			require.Equal(t, "conflict/crisis", q.Category)
			require.Equal(t, 24, q.Hours)
			return []models.Article{
				{Link: "a", Sentiment: models.Float(0.2)},
				{Link: "b", Sentiment: models.Float(-0.7)},
				{Link: "c"},
				{Link: "d", Sentiment: models.Float(-0.1)},
				{Link: "e", Sentiment: models.Float(-0.7)},
			}, nil
		})

	items, err := newSvcForTest(t, st).MostNegative(context.Background(), models.Query{Category: "conflict", Hours: 24}, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "e", "d"}, links(items))
}

func TestSummaryAndAll(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	st.EXPECT().Summary(gomock.Any()).Return(models.Summary{Total: 2, Sources: 1}, nil)
	st.EXPECT().All(gomock.Any()).Return(nil, errors.New("boom"))

	svc := newSvcForTest(t, st)

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, sum.Total)

	_, err = svc.All(context.Background())
	require.ErrorContains(t, err, "service.queries.All")
}

func TestByLink(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	st.EXPECT().ByLink(gomock.Any(), "https://x/a").Return(&models.Article{Link: "https://x/a"}, nil)
	st.EXPECT().ByLink(gomock.Any(), "https://x/missing").Return(nil, storage.ErrNotFound)

	svc := newSvcForTest(t, st)

	a, err := svc.ByLink(context.Background(), "https://x/a")
	require.NoError(t, err)
	require.Equal(t, "https://x/a", a.Link)

	_, err = svc.ByLink(context.Background(), "https://x/missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.ByLink(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
