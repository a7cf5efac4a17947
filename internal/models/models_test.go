package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlert_Message(t *testing.T) {
	t.Parallel()

	a := Alert{
		Labels:  []string{"Earthquake", "Economy"},
		Article: Article{Title: "Quake hits", Source: "BBC World"},
	}
	require.Equal(t, "Earthquake; Economy: Quake hits (BBC World)", a.Message())
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"", CategoryAll, true},
		{"all", CategoryAll, true},
		{"conflict", "conflict/crisis", true},
		{"conflict/crisis", "conflict/crisis", true},
		{"economy", "economy", true},
		{"other", "other", true},
		{"sports", "", false},
		{"Economy", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseCategory(tc.raw)
		require.Equal(t, tc.ok, ok, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}
}

func TestSentimentRange(t *testing.T) {
	t.Parallel()

	require.True(t, FullSentimentRange.IsFull())
	require.False(t, SentimentRange{Min: -1, Max: 0}.IsFull())

	r := SentimentRange{Min: -0.5, Max: 0}
	require.True(t, r.Contains(Float(-0.5)))
	require.True(t, r.Contains(Float(0)))
	require.False(t, r.Contains(Float(0.1)))
	require.False(t, r.Contains(nil))
}

func TestCategory_Valid(t *testing.T) {
	t.Parallel()

	for _, c := range Categories() {
		require.True(t, c.Valid())
	}
	require.False(t, Category("all").Valid())
	require.Len(t, Categories(), 6)
	require.Equal(t, CategoryConflict, Categories()[0])
	require.Equal(t, CategoryOther, Categories()[5])
}
