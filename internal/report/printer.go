// report — консольные отчёты (сводка, самые негативные, недавние, итог цикла) и CSV-экспорт.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"

	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 80

// Printer печатает отчёты в w.
type Printer struct {
	w  io.Writer
	st styles
}

// NewPrinter создаёт Printer; цветность определяется по w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, st: newStyles(lipgloss.NewRenderer(w))}
}

// PrintSummary печатает сводку по корпусу.
func (p *Printer) PrintSummary(sum models.Summary) {
	p.line(p.st.header.Render("=== Database summary ==="))
	p.field("Total articles  ", fmt.Sprint(sum.Total))
	p.field("Distinct sources", fmt.Sprint(sum.Sources))
	p.field("Earliest        ", formatTime(sum.Earliest))
	p.field("Latest          ", formatTime(sum.Latest))
	p.line("")
}

// PrintMostNegative печатает самые негативные статьи корпуса.
func (p *Printer) PrintMostNegative(items []models.Article) {
	if len(items) == 0 {
		p.line("No stored articles or no sentiment data.")
		return
	}

	p.line(p.st.header.Render(fmt.Sprintf("=== %d most negative articles ===", len(items))))
	for i, a := range items {
		p.rule()
		p.line(fmt.Sprintf("#%d", i+1))
		p.field("Source   ", a.Source)
		p.field("Published", a.Published)
		p.field("Category ", string(a.Category))
		p.field("Sentiment", p.sentiment(a.Sentiment))
		p.field("Title    ", a.Title)
		p.field("Link     ", a.Link)
	}
	p.line("")
}

// PrintRecent печатает самые негативные статьи категории за окно hours.
func (p *Printer) PrintRecent(category string, hours int, items []models.Article) {
	if len(items) == 0 {
		p.line(fmt.Sprintf("No articles match in the last %d hours. (category: %s)", hours, category))
		return
	}

	p.line(p.st.header.Render(fmt.Sprintf("=== %d most negative articles of the last %d hours (category: %s) ===", len(items), hours, category)))
	for i, a := range items {
		p.rule()
		p.line(fmt.Sprintf("#%d", i+1))
		p.field("Source    ", a.Source)
		p.field("Category  ", string(a.Category))
		p.field("Sentiment ", p.sentiment(a.Sentiment))
		p.field("Published ", a.Published)
		p.field("Stored at ", formatTime(&a.CreatedAt))
		p.field("Title     ", a.Title)
		p.field("Link      ", a.Link)
	}
	p.line("")
}

// PrintCycle печатает новые негативные статьи цикла опроса с отметкой алерта.
func (p *Printer) PrintCycle(items []models.Alert) {
	for _, it := range items {
		a := it.Article

		p.rule()
		if len(it.Labels) > 0 {
			p.line(p.st.alert.Render("!!! ALERT !!! [" + strings.Join(it.Labels, "; ") + "]"))
		}
		p.field("Source   ", a.Source)
		p.field("Title    ", a.Title)
		p.field("Category ", string(a.Category))
		p.field("Sentiment", p.sentiment(a.Sentiment))
		p.field("Published", a.Published)
		p.field("Link     ", a.Link)
	}

	p.line("")
	p.line(fmt.Sprintf("Total new negative articles: %d", len(items)))
}

func (p *Printer) sentiment(v *float64) string {
	if v == nil {
		return p.st.dim.Render("n/a")
	}

	s := fmt.Sprintf("%.3f", *v)
	if *v < 0 {
		return p.st.negative.Render(s)
	}

	return p.st.positive.Render(s)
}

func (p *Printer) rule() {
	p.line(p.st.rule.Render(strings.Repeat("-", ruleWidth)))
}

func (p *Printer) field(label, value string) {
	p.line(p.st.label.Render(label) + " : " + value)
}

func (p *Printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}

	return t.UTC().Format("2006-01-02 15:04:05")
}
