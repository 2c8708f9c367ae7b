package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"critspeed/internal/service"
)

// DefaultWrap is the markdown word wrap when no width is known
const DefaultWrap = 80

// Markdown renders the results as a markdown document
func Markdown(data *service.ResultsData) string {
	var b strings.Builder
	b.WriteString("# Critical speed\n\n")
	for _, line := range Summary(data) {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n## Predictions\n\n")

	if len(data.Rows) == 0 {
		b.WriteString("_No predictions for these tests._\n")
		return b.String()
	}

	fmt.Fprintf(&b, "| %s |\n", strings.Join(Headers, " | "))
	b.WriteString("|")
	for range Headers {
		b.WriteString("---:|")
	}
	b.WriteString("\n")
	for _, row := range Rows(data) {
		fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
	}
	return b.String()
}

// RenderMarkdown styles markdown for the terminal
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
