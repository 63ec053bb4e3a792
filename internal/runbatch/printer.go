// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/localci/internal/color"
	"github.com/muesli/termenv"
)

type kind int

const (
	kindBanner kind = iota
	kindTitle
	kindSubtitle
	kindError
	kindSuccess
	kindSkip
	kindPending
)

var kindColours = map[kind]lipgloss.Color{
	kindBanner:   "2",
	kindTitle:    "5",
	kindSubtitle: "8",
	kindError:    "1",
	kindSuccess:  "2",
	kindSkip:     "3",
	kindPending:  "4",
}

type status int

const (
	statusPending status = iota
	statusSuccess
	statusError
)

const ruleWidth = 60

// printer writes the report. All output goes through it so plain mode is honoured everywhere.
type printer struct {
	w      io.Writer
	plain  bool
	styles map[kind]lipgloss.Style
}

func newPrinter(w io.Writer, plain bool) *printer {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.ANSI)
	}

	styles := make(map[kind]lipgloss.Style, len(kindColours))
	for k, c := range kindColours {
		styles[k] = r.NewStyle().
			Bold(true).
			Foreground(c).
			TabWidth(lipgloss.NoTabConversion)
	}

	return &printer{
		w:      w,
		plain:  plain,
		styles: styles,
	}
}

// style renders each line on its own so lipgloss does not pad lines to a common width.
func (p *printer) style(k kind, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}

		lines[i] = p.styles[k].Render(l)
	}

	return strings.Join(lines, "\n")
}

func (p *printer) echo(k kind, text string) {
	fmt.Fprintln(p.w, p.style(k, text)) //nolint:errcheck
}

func (p *printer) raw(s string) {
	io.WriteString(p.w, s) //nolint:errcheck
}

func (p *printer) heading(title, subtitle string, k kind, padding bool) {
	if padding {
		title = "\n\n" + title
	}

	p.echo(k, title)

	if subtitle == "" {
		return
	}

	if padding {
		subtitle += "\n"
	}

	p.echo(kindSubtitle, subtitle)
}

func (p *printer) modeInfo(m Mode, resumeFrom string) {
	var parts []string

	if m.FailFast() {
		parts = append(parts, "fail-fast")
	}

	if resumeFrom != "" {
		parts = append(parts, fmt.Sprintf("continue from '%s'", resumeFrom))
	}

	if m.Parallel() {
		parts = append(parts, "parallel")
	}

	if len(parts) == 0 {
		return
	}

	p.echo(kindSubtitle, "Mode: "+strings.Join(parts, ", ")+"\n")
}

func (p *printer) indicator(s status) string {
	if p.plain {
		return [...]string{"-", "OK", "FAIL"}[s]
	}

	return [...]string{"•", "✅", "❌"}[s]
}

func (p *printer) parallelLine(title string, s status, d time.Duration) string {
	if s == statusPending {
		return fmt.Sprintf("   %s %s", p.indicator(s), title)
	}

	return fmt.Sprintf("   %s %s (%s)", p.indicator(s), title, formatDuration(d))
}

// rewriteLine replaces a line printed linesUp lines above the cursor.
func (p *printer) rewriteLine(linesUp int, k kind, text string) {
	p.raw(color.SaveCursor + color.CursorUp(linesUp) + color.ClearLine + p.style(k, text) + color.RestoreCursor)
}

func rule(prefix string, n int) string {
	return prefix + strings.Repeat("─", n)
}

// formatDuration renders 1.23s, or 2m3.45s from one minute up.
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	minutes := int(secs / 60)
	secs -= float64(minutes) * 60

	if minutes > 0 {
		return fmt.Sprintf("%dm%.2fs", minutes, secs)
	}

	return fmt.Sprintf("%.2fs", secs)
}
