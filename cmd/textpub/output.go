package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/textpub/internal/pipeline"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the summary box
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

const barWidth = 30

// progressBar redraws a single status line on w.
type progressBar struct {
	w     io.Writer
	label string
	last  int
}

func newProgressBar(w io.Writer, label string) *progressBar {
	return &progressBar{w: w, label: label, last: -1}
}

// Update draws the bar for fraction f. Repeated percentages are skipped.
func (p *progressBar) Update(f float64) {
	pct := int(f * 100)
	if pct == p.last {
		return
	}
	p.last = pct
	filled := barWidth * pct / 100
	bar := successStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(p.w, "\r%s %s %3d%%", dimStyle.Render(p.label), bar, pct)
}

// Done ends the status line.
func (p *progressBar) Done() {
	if p.last >= 0 {
		fmt.Fprintln(p.w)
	}
}

func printHeader(w io.Writer, input, cleanerName string) {
	fmt.Fprintf(w, "%s %s  %s %s\n",
		dimStyle.Render("Input:"), titleStyle.Render(input),
		dimStyle.Render("Cleaner:"), titleStyle.Render(cleanerName),
	)
}

func printSummary(w io.Writer, path string, out *pipeline.Output) {
	doc := out.Document
	headings := len(doc.Headings())
	content := fmt.Sprintf("%s %s\n%s %s\n%s %d headings, %d paragraphs\n%s %s",
		dimStyle.Render("Title:"), titleStyle.Render(doc.Title),
		dimStyle.Render("Output:"), successStyle.Render(path),
		dimStyle.Render("Blocks:"), headings, len(doc.Blocks)-headings,
		dimStyle.Render("Cleaner:"), out.CleanerUsed,
	)
	fmt.Fprintln(w, boxStyle.Render(content))
	if out.FallbackErr != nil {
		printWarning(w, fmt.Sprintf("ai cleaner failed, used heuristic: %v", out.FallbackErr))
	}
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Render("!"), msg)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("✗"), err)
}
