package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var sentimentSamples = []string{
	"",
	"   ",
	"good",
	"terrible terrible terrible",
	"very very excellent best wonderful",
	"extremely devastating tragic disaster worst",
	"not bad at all",
	"iyi değil",
	"çok kötü bir gün",
	"Massive earthquake hits city, dollar drops",
	"no words here match anything at all",
	"123 456 !!! ???",
}

func TestScorers_RangeAndEmpty(t *testing.T) {
	t.Parallel()

	for _, s := range []Scorer{LexiconScorer{}, NewAdvancedScorer()} {
		c := New(s)
		require.Equal(t, 0.0, c.Sentiment("", ""), "%T", s)

		for _, text := range sentimentSamples {
			got := c.Sentiment(text, text)
			require.GreaterOrEqual(t, got, -1.0, "%T %q", s, text)
			require.LessOrEqual(t, got, 1.0, "%T %q", s, text)
			// Детерминированность.
			require.Equal(t, got, c.Sentiment(text, text))
		}
	}
}

func TestLexiconScorer_Polarity(t *testing.T) {
	t.Parallel()

	s := LexiconScorer{}
	require.Greater(t, s.Score("a great and successful day"), 0.0)
	require.Less(t, s.Score("three killed in deadly attack"), 0.0)
	require.Equal(t, 0.0, s.Score("the table is made of wood"))
	require.Equal(t, 1.0, s.Score("excellent"))
	require.Equal(t, -1.0, s.Score("worst"))
}

func TestAdvancedScorer_NegationAndIntensifier(t *testing.T) {
	t.Parallel()

	s := NewAdvancedScorer()
	require.Greater(t, s.Score("not bad"), 0.0)
	require.Less(t, s.Score("not good"), 0.0)
	require.Greater(t, s.Score("very good"), s.Score("good"))
	require.Greater(t, s.Score("good!!!"), s.Score("good"))
	require.LessOrEqual(t, s.Score("extremely excellent"), 1.0)
	require.Less(t, s.Score("Earthquake kills dozens, thousands injured"), 0.0)
}

func TestAdvancedScorer_TurkishFallsBackToRules(t *testing.T) {
	t.Parallel()

	s := NewAdvancedScorer()
	// Турецких слов нет в словаре VADER: работают собственные правила.
	require.Less(t, s.Score("iyi değil"), 0.0)
	require.Greater(t, s.Score("çok iyi"), s.Score("iyi"))
	require.Less(t, s.Score("çok kötü bir gün"), 0.0)
	require.Equal(t, 0.0, s.Score("   "))
}

func TestNewScorer(t *testing.T) {
	t.Parallel()

	s, err := NewScorer("")
	require.NoError(t, err)
	require.IsType(t, LexiconScorer{}, s)

	s, err = NewScorer("Advanced")
	require.NoError(t, err)
	require.IsType(t, &AdvancedScorer{}, s)

	_, err = NewScorer("transformers")
	require.Error(t, err)
}
