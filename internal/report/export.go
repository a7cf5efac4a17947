package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pribylovaa/news-analyzer/internal/models"
)

// Header — колонки CSV-экспорта в порядке схемы.
var Header = []string{"title", "summary", "link", "published", "source", "sentiment", "category", "created_at"}

// WriteCSV пишет статьи в w в формате CSV с заголовком Header.
// Пустая тональность пишется пустой строкой.
func WriteCSV(w io.Writer, items []models.Article) error {
	const op = "report.WriteCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%s: header: %w", op, err)
	}

	for _, a := range items {
		sentiment := ""
		if a.Sentiment != nil {
			sentiment = strconv.FormatFloat(*a.Sentiment, 'f', -1, 64)
		}

		if err := cw.Write([]string{
			a.Title,
			a.Summary,
			a.Link,
			a.Published,
			a.Source,
			sentiment,
			string(a.Category),
			a.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}); err != nil {
			return fmt.Errorf("%s: row %s: %w", op, a.Link, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: flush: %w", op, err)
	}

	return nil
}

// ExportFile записывает статьи в файл path. Пустой список — файл не создаётся, ok == false.
func ExportFile(path string, items []models.Article) (ok bool, err error) {
	const op = "report.ExportFile"

	if len(items) == 0 {
		return false, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := WriteCSV(f, items); err != nil {
		f.Close()
		return false, err
	}

	if err := f.Close(); err != nil {
		return false, fmt.Errorf("%s: close: %w", op, err)
	}

	return true, nil
}
