package dashboard

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-analyzer/internal/service"
)

func TestParseParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    Params
		wantErr bool
	}{
		{
			name:  "defaults",
			query: "",
			want:  Params{Category: "all", Hours: 24, Limit: 300, Min: -1, Max: 1},
		},
		{
			name:  "all filters",
			query: "category=economy&hours=72&limit=100&min=-0.5&max=0&q=+bank+&alerts=1",
			want:  Params{Category: "economy", Hours: 72, Limit: 100, Min: -0.5, Max: 0, Search: "bank", AlertsOnly: true},
		},
		{
			name:  "conflict alias and all time",
			query: "category=conflict&hours=all",
			want:  Params{Category: "conflict/crisis", Hours: 0, Limit: 300, Min: -1, Max: 1},
		},
		{
			name:  "limit clamped up",
			query: "limit=10",
			want:  Params{Category: "all", Hours: 24, Limit: 50, Min: -1, Max: 1},
		},
		{
			name:  "limit clamped down",
			query: "limit=5000",
			want:  Params{Category: "all", Hours: 24, Limit: 1000, Min: -1, Max: 1},
		},
		{
			name:  "alerts true",
			query: "alerts=true",
			want:  Params{Category: "all", Hours: 24, Limit: 300, Min: -1, Max: 1, AlertsOnly: true},
		},
		{name: "unknown category", query: "category=sports", wantErr: true},
		{name: "hours not in options", query: "hours=12", wantErr: true},
		{name: "hours not a number", query: "hours=day", wantErr: true},
		{name: "limit not a number", query: "limit=many", wantErr: true},
		{name: "min not a number", query: "min=low", wantErr: true},
		{name: "max NaN", query: "max=NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			got, err := parseParams(r, 300, 1000)
			if tt.wantErr {
				require.ErrorIs(t, err, service.ErrInvalidArgument)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParams_Query(t *testing.T) {
	t.Parallel()

	p := Params{Category: "economy", Hours: 24, Limit: 50, Min: -1, Max: 0}
	q := p.Query()

	require.Equal(t, "economy", q.Category)
	require.Equal(t, 24, q.Hours)
	require.Equal(t, 50, q.Limit)
	require.NotNil(t, q.Sentiment)
	require.Equal(t, -1.0, q.Sentiment.Min)
	require.Equal(t, 0.0, q.Sentiment.Max)
}
