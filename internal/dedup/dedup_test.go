package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_IsNew(t *testing.T) {
	t.Parallel()

	s := New()
	require.True(t, s.IsNew("https://example.org/a"))
	require.False(t, s.IsNew("https://example.org/a"))
	require.True(t, s.IsNew("https://example.org/b"))

	require.True(t, s.Contains("https://example.org/a"))
	require.False(t, s.Contains("https://example.org/c"))
	require.False(t, s.IsNew("https://example.org/b"))
	require.Equal(t, 2, s.Len())
}

func TestSet_ContainsDoesNotMark(t *testing.T) {
	t.Parallel()

	s := New()
	require.False(t, s.Contains("x"))
	require.Equal(t, 0, s.Len())
	require.True(t, s.IsNew("x"))
}
