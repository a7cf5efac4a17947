// classify — чистые функции над текстом (title + " " + summary) в нижнем регистре:
// оценка тональности, выбор категории и детекция меток алертов.
package classify

import (
	"strings"

	"github.com/pribylovaa/news-analyzer/internal/keywords"
	"github.com/pribylovaa/news-analyzer/internal/matcher"
	"github.com/pribylovaa/news-analyzer/internal/models"
)

// Classifier объединяет три независимые функции классификации.
// После создания неизменяем и безопасен для конкурентного использования.
type Classifier struct {
	scorer     Scorer
	categories *matcher.Matcher
	alerts     *matcher.Matcher
}

// New создаёт классификатор с заданным бэкендом тональности.
// scorer == nil -> LexiconScorer.
func New(scorer Scorer) *Classifier {
	if scorer == nil {
		scorer = LexiconScorer{}
	}

	return &Classifier{
		scorer:     scorer,
		categories: matcher.New(keywords.CategoryRules()),
		alerts:     matcher.New(keywords.AlertRules()),
	}
}

// Text склеивает заголовок и аннотацию и приводит к нижнему регистру.
func Text(title, summary string) string {
	return strings.ToLower(title + " " + summary)
}

// Sentiment возвращает полярность в [-1, 1]; пустой текст -> 0.0.
func (c *Classifier) Sentiment(title, summary string) float64 {
	text := Text(title, summary)
	if strings.TrimSpace(text) == "" {
		return 0
	}

	return clamp(c.scorer.Score(text))
}

// Category выбирает категорию по принципу «первое сработавшее правило»:
// conflict/crisis, politics, economy, technology, society; иначе other.
func (c *Classifier) Category(title, summary string) models.Category {
	label, ok := c.categories.First(Text(title, summary))
	if !ok {
		return models.CategoryOther
	}

	return models.Category(label)
}

// Alerts возвращает метки алертов (0, 1 или несколько) в порядке таблицы.
// Матчинг — поиск подстроки без учёта границ слов.
func (c *Classifier) Alerts(title, summary string) []string {
	return c.alerts.Matches(Text(title, summary))
}

// Classify обогащает запись ленты тональностью и категорией.
// CreatedAt и ID остаются нулевыми: их назначает хранилище.
func (c *Classifier) Classify(e models.Entry) models.Article {
	sentiment := c.Sentiment(e.Title, e.Summary)

	return models.Article{
		Title:     e.Title,
		Summary:   e.Summary,
		Link:      e.Link,
		Published: e.Published,
		Source:    e.Source,
		Sentiment: &sentiment,
		Category:  c.Category(e.Title, e.Summary),
	}
}
