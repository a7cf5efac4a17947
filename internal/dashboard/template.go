package dashboard

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/pribylovaa/news-analyzer/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"sentiment":      formatSentiment,
		"sentimentClass": sentimentClass,
		"hoursValue":     hoursValue,
		"hoursLabel":     hoursLabel,
	}).ParseFS(templatesFS, "templates/index.html"),
)

// indexPage — данные шаблона главной страницы.
type indexPage struct {
	View  View
	Hours []int
	Error string
}

// Categories — варианты фильтра категории.
func (indexPage) Categories() []string {
	out := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		out = append(out, string(c))
	}
	return out
}

func formatSentiment(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

func sentimentClass(v *float64) string {
	switch {
	case v == nil:
		return ""
	case *v < 0:
		return "neg"
	case *v > 0:
		return "pos"
	default:
		return ""
	}
}

func hoursValue(h int) string {
	if h == 0 {
		return "all"
	}
	return strconv.Itoa(h)
}

func hoursLabel(h int) string {
	switch h {
	case 0:
		return "All time"
	case 72:
		return "Last 3 days"
	case 168:
		return "Last 7 days"
	default:
		return "Last " + strconv.Itoa(h) + " hours"
	}
}
