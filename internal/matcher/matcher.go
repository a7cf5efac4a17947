// matcher компилирует упорядоченный список правил (метка -> ключевые слова)
// в один автомат Ахо–Корасик и за один проход по тексту находит все правила,
// у которых есть хотя бы одно вхождение ключевого слова как подстроки.
//
// Матчинг побайтовый и регистрозависимый: вызывающая сторона приводит
// текст и ключевые слова к нижнему регистру.
package matcher

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/pribylovaa/news-analyzer/internal/keywords"
)

// Matcher неизменяем после сборки и безопасен для конкурентного чтения.
type Matcher struct {
	labels []string
	ac     *ahocorasick.Matcher
	// rules[i] — индексы правил, в которых встречается i-й уникальный шаблон.
	// Автомат хранит один индекс на шаблон, поэтому дубликаты между
	// правилами сворачиваются здесь.
	rules [][]int
}

// New собирает автомат. Порядок rules сохраняется в результатах.
func New(rules []keywords.Rule) *Matcher {
	m := &Matcher{labels: make([]string, len(rules))}

	index := make(map[string]int)
	var patterns []string

	for i, r := range rules {
		m.labels[i] = r.Label
		for _, kw := range r.Keywords {
			if kw == "" {
				continue
			}

			p, ok := index[kw]
			if !ok {
				p = len(patterns)
				index[kw] = p
				patterns = append(patterns, kw)
				m.rules = append(m.rules, nil)
			}
			m.rules[p] = append(m.rules[p], i)
		}
	}

	m.ac = ahocorasick.NewStringMatcher(patterns)

	return m
}

// Hits возвращает для каждого правила признак наличия хотя бы одного совпадения.
func (m *Matcher) Hits(text string) []bool {
	hits := make([]bool, len(m.labels))
	if text == "" || len(m.rules) == 0 {
		return hits
	}

	for _, p := range m.ac.MatchThreadSafe([]byte(text)) {
		for _, r := range m.rules[p] {
			hits[r] = true
		}
	}

	return hits
}

// Matches возвращает метки всех сработавших правил в порядке правил.
// Пустой результат — nil.
func (m *Matcher) Matches(text string) []string {
	var labels []string
	for i, hit := range m.Hits(text) {
		if hit {
			labels = append(labels, m.labels[i])
		}
	}

	return labels
}

// First возвращает метку первого (по порядку правил) сработавшего правила.
func (m *Matcher) First(text string) (string, bool) {
	for i, hit := range m.Hits(text) {
		if hit {
			return m.labels[i], true
		}
	}

	return "", false
}
