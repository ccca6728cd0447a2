// Package console renders generation results for the terminal.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/seo-meta-service/internal/domain"
)

var (
	colorOK   = lipgloss.Color("#8BC34A")
	colorNear = lipgloss.Color("#FFC107")
	colorOver = lipgloss.Color("#e53935")
	colorInfo = lipgloss.Color("#2196F3")
	colorDim  = lipgloss.Color("#8a93a3")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorInfo).
			Padding(0, 1).
			MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	labelStyle  = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOver).
			Foreground(colorOver).
			Padding(0, 1)
)

func statusColor(s domain.LengthStatus) lipgloss.Color {
	switch s {
	case domain.LengthOver:
		return colorOver
	case domain.LengthNear:
		return colorNear
	default:
		return colorOK
	}
}

// CountLabel renders "n / max" in the color of its status.
func CountLabel(n, max int) string {
	style := lipgloss.NewStyle().Foreground(statusColor(domain.GradeLength(n, max)))
	return style.Render(fmt.Sprintf("%d / %d", n, max))
}

// RenderOption draws one option as a card. index is 1-based.
func RenderOption(index int, opt domain.MetaOption) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Option %d · %s", index, opt.Type)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %s\n%s\n\n",
		labelStyle.Render("Meta title"), CountLabel(opt.MetaTitleLength, domain.MaxTitleLength), opt.MetaTitle)
	fmt.Fprintf(&b, "%s  %s\n%s",
		labelStyle.Render("Meta description"), CountLabel(opt.MetaDescriptionLength, domain.MaxDescriptionLength), opt.MetaDescription)
	return cardStyle.Render(b.String())
}

// RenderResult draws both option cards followed by any cited sources.
func RenderResult(resp *domain.SeoResponse, sources []string) string {
	var b strings.Builder
	b.WriteString(RenderOption(1, resp.Option1))
	b.WriteString("\n")
	b.WriteString(RenderOption(2, resp.Option2))
	b.WriteString("\n")
	if len(sources) > 0 {
		b.WriteString(labelStyle.Render("Sources"))
		b.WriteString("\n")
		for _, src := range sources {
			fmt.Fprintf(&b, "  %s\n", src)
		}
	}
	return b.String()
}

// RenderError draws the failure message of an error state.
func RenderError(message string) string {
	return errorStyle.Render("Error: "+message) + "\n"
}
