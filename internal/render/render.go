// Package render formats aliases, details and run history for the terminal.
// Colors are used only when the writer is a color-capable terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/search"
)

// Printer writes styled output to one writer.
type Printer struct {
	w io.Writer

	name  lipgloss.Style
	body  lipgloss.Style
	note  lipgloss.Style
	muted lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
}

// New returns a Printer whose color profile is detected from w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		name:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
		body:  r.NewStyle(),
		note:  r.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
		muted: r.NewStyle().Foreground(lipgloss.Color("241")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
	}
}

// Hits prints one line per hit: name, body and note, with names padded to a
// common column.
func (p *Printer) Hits(hits []search.Hit) {
	width := 0
	for _, h := range hits {
		width = max(width, lipgloss.Width(h.Alias.Name))
	}
	nameCol := p.name.Width(width + 2)
	for _, h := range hits {
		line := nameCol.Render(h.Alias.Name) + p.body.Render(h.Alias.Body)
		if h.Alias.Note != "" {
			line += "  " + p.note.Render("# "+h.Alias.Note)
		}
		fmt.Fprintln(p.w, line)
	}
}

// Aliases prints aliases in the given order.
func (p *Printer) Aliases(aliases []models.Alias) {
	hits := make([]search.Hit, len(aliases))
	for i, a := range aliases {
		hits[i] = search.Hit{Alias: a, Score: 1}
	}
	p.Hits(hits)
}

// Detail prints one alias with its source location and recent runs.
func (p *Printer) Detail(a models.Alias, runs []models.Run) {
	fmt.Fprintln(p.w, p.name.Render(a.Name))
	fmt.Fprintf(p.w, "  %s %s\n", p.muted.Render("body:"), p.body.Render(a.Body))
	if a.Note != "" {
		fmt.Fprintf(p.w, "  %s %s\n", p.muted.Render("note:"), p.note.Render(a.Note))
	}
	fmt.Fprintf(p.w, "  %s %s\n", p.muted.Render("from:"), a.Location())
	if len(runs) > 0 {
		fmt.Fprintf(p.w, "  %s\n", p.muted.Render("recent runs:"))
		for _, r := range runs {
			fmt.Fprintf(p.w, "    %s\n", p.runLine(r, false))
		}
	}
}

// Runs prints run history, newest first.
func (p *Printer) Runs(runs []models.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("no runs recorded"))
		return
	}
	for _, r := range runs {
		fmt.Fprintln(p.w, p.runLine(r, true))
	}
}

// Status prints a one-line status message.
func (p *Printer) Status(msg string) {
	fmt.Fprintln(p.w, p.muted.Render(msg))
}

func (p *Printer) runLine(r models.Run, withName bool) string {
	status := p.ok.Render(fmt.Sprintf("exit %d", r.ExitCode))
	if r.ExitCode != 0 {
		status = p.fail.Render(fmt.Sprintf("exit %d", r.ExitCode))
	}
	parts := []string{
		p.muted.Render(r.StartedAt.Local().Format(time.DateTime)),
		status,
		p.muted.Render(fmt.Sprintf("%dms", r.DurationMS)),
	}
	if withName {
		parts = append(parts, p.name.Render(r.Name))
	}
	cmd := r.Body
	if len(r.Args) > 0 {
		cmd += " " + strings.Join(r.Args, " ")
	}
	parts = append(parts, p.body.Render(cmd))
	return strings.Join(parts, "  ")
}
