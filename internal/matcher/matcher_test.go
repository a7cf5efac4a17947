package matcher

import (
	"strings"
	"testing"

	"github.com/pribylovaa/news-analyzer/internal/keywords"
	"github.com/stretchr/testify/require"
)

// naive — эталон: по правилу проверяем strings.Contains для каждого слова.
func naive(rules []keywords.Rule, text string) []string {
	var out []string
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(text, kw) {
				out = append(out, r.Label)
				break
			}
		}
	}
	return out
}

func TestMatcher_Matches_OverlappingAndNested(t *testing.T) {
	t.Parallel()

	rules := []keywords.Rule{
		{Label: "he", Keywords: []string{"he"}},
		{Label: "she", Keywords: []string{"she"}},
		{Label: "hers", Keywords: []string{"hers"}},
		{Label: "his", Keywords: []string{"his"}},
	}
	m := New(rules)

	require.Equal(t, []string{"he", "she", "hers"}, m.Matches("ushers"))
	require.Equal(t, []string{"his"}, m.Matches("this"))
	require.Nil(t, m.Matches("xyz"))
	require.Nil(t, m.Matches(""))
}

func TestMatcher_First_RespectsRuleOrder(t *testing.T) {
	t.Parallel()

	rules := []keywords.Rule{
		{Label: "a", Keywords: []string{"zzz", "quake"}},
		{Label: "b", Keywords: []string{"dollar"}},
	}
	m := New(rules)

	// «dollar» встречается раньше в тексте, но правило a стоит выше.
	label, ok := m.First("dollar drops after quake")
	require.True(t, ok)
	require.Equal(t, "a", label)

	_, ok = m.First("nothing here")
	require.False(t, ok)
}

func TestMatcher_SubstringInsideWord(t *testing.T) {
	t.Parallel()

	m := New([]keywords.Rule{{Label: "war", Keywords: []string{"war"}}})
	// Совпадение внутри слова — тоже попадание.
	require.Equal(t, []string{"war"}, m.Matches("software award"))
}

func TestMatcher_MultibyteKeywords(t *testing.T) {
	t.Parallel()

	m := New([]keywords.Rule{{Label: "tr", Keywords: []string{"çatışma", "döviz kuru"}}})
	require.Equal(t, []string{"tr"}, m.Matches("sınırda çatışma çıktı"))
	require.Equal(t, []string{"tr"}, m.Matches("bugün döviz kuru yükseldi"))
	require.Nil(t, m.Matches("döviz"))
}

// TestMatcher_AgreesWithNaive — на реальных таблицах автомат совпадает с наивным перебором.
func TestMatcher_AgreesWithNaive(t *testing.T) {
	t.Parallel()

	texts := []string{
		"massive earthquake hits city, dollar drops",
		"prime minister calls snap election",
		"new smartphone app raises privacy concerns",
		"students protest outside university",
		"weather is nice today",
		"hükümet yeni bütçe paketini açıkladı",
		"said the spokesperson",
		"airstrike near the frontline; hostage released",
		"",
	}

	for _, rules := range [][]keywords.Rule{keywords.CategoryRules(), keywords.AlertRules()} {
		m := New(rules)
		for _, text := range texts {
			require.Equal(t, naive(rules, text), m.Matches(text), "text=%q", text)
		}
	}
}

func TestMatcher_SharedKeywordAcrossRules(t *testing.T) {
	t.Parallel()

	rules := []keywords.Rule{
		{Label: "conflict", Keywords: []string{"attack"}},
		{Label: "tech", Keywords: []string{"cyber", "attack"}},
		{Label: "none", Keywords: []string{""}},
	}
	m := New(rules)

	// Одно и то же слово в двух правилах засчитывается обоим.
	require.Equal(t, []string{"conflict", "tech"}, m.Matches("ransomware attack"))
	label, ok := m.First("ransomware attack")
	require.True(t, ok)
	require.Equal(t, "conflict", label)
	require.Equal(t, []bool{true, true, false}, m.Hits("attack"))
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	t.Parallel()

	m := New(keywords.AlertRules())
	text := "massive earthquake hits city, dollar drops"
	want := m.Matches(text)

	done := make(chan []string)
	for i := 0; i < 8; i++ {
		go func() { done <- m.Matches(text) }()
	}
	for i := 0; i < 8; i++ {
		require.Equal(t, want, <-done)
	}
}
