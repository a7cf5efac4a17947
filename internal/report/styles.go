package report

import "github.com/charmbracelet/lipgloss"

// styles — оформление консольных отчётов; на не-TTY выводе цвета отключаются рендерером.
type styles struct {
	header   lipgloss.Style
	rule     lipgloss.Style
	label    lipgloss.Style
	alert    lipgloss.Style
	negative lipgloss.Style
	positive lipgloss.Style
	dim      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	var (
		colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
		colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
		colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
		colorRed     = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F5F"}
		colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	)

	return styles{
		header:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		rule:     r.NewStyle().Foreground(colorDim),
		label:    r.NewStyle().Bold(true),
		alert:    r.NewStyle().Bold(true).Foreground(colorAccent),
		negative: r.NewStyle().Foreground(colorRed),
		positive: r.NewStyle().Foreground(colorGreen),
		dim:      r.NewStyle().Foreground(colorDim),
	}
}
