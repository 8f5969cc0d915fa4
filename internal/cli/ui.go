package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floorgen/pkg/catalog"
	"github.com/matzehuels/floorgen/pkg/refine"
)

// Palette
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// status marks the start of a printed line.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// printer writes styled, human-oriented command output. Logs go to the
// logger; results go through a printer.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) status(s status, msg string) {
	fmt.Fprintln(p.w, s.style.Render(s.icon)+" "+msg)
}

func (p *printer) success(format string, args ...any) {
	p.status(statusOK, fmt.Sprintf(format, args...))
}

func (p *printer) failure(format string, args ...any) {
	p.status(statusFail, fmt.Sprintf(format, args...))
}

func (p *printer) warn(format string, args ...any) {
	p.status(statusWarn, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) info(format string, args ...any) {
	p.status(statusInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line.
func (p *printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file announces a written output file.
func (p *printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func (p *printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func (p *printer) nextStep(description, cmd string) {
	fmt.Fprintln(p.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// graphStats prints "3 rooms · 2 adjacent pairs · cached" under a heading.
func (p *printer) graphStats(rooms, adjacentPairs int, cached bool) {
	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(p.w, "  "+strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d rooms", rooms)),
		StyleDim.Render(fmt.Sprintf("%d adjacent pairs", adjacentPairs)),
		origin,
	}, sep))
}

// warnings prints one warning line per entry.
func (p *printer) warnings(ws []string) {
	for _, w := range ws {
		p.warn("%s", w)
	}
}

// passes prints the refinement schedule that ran, naming the room types
// held fixed in each pass.
func (p *printer) passes(records []refine.PassRecord, cat *catalog.Catalog) {
	rows := make([][]string, len(records))
	for i, r := range records {
		fixed := "—"
		if len(r.FixedTypes) > 0 {
			names := make([]string, len(r.FixedTypes))
			for j, id := range r.FixedTypes {
				names[j] = fmt.Sprint(id)
				if rt, ok := cat.ByID(id); ok {
					names[j] = rt.Name
				}
			}
			fixed = strings.Join(names, ", ")
		}
		rows[i] = []string{string(r.Phase), fmt.Sprint(r.Step), fmt.Sprint(len(r.Fixed)), fixed, r.Duration.Round(time.Millisecond).String()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	fmt.Fprintln(p.w, table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Phase", "Step", "Fixed", "Fixed types", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render())
}
