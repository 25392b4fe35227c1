package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

type palette struct {
	ok   lipgloss.Style
	fail lipgloss.Style
	warn lipgloss.Style
	dim  lipgloss.Style
}

// styles binds to the printer's writer, so output to a pipe or buffer stays plain.
func (p Printer) styles() palette {
	r := lipgloss.NewRenderer(p.Writer)
	return palette{
		ok:   r.NewStyle().Foreground(lipgloss.Color("#85DCB0")).Bold(true),
		fail: r.NewStyle().Foreground(lipgloss.Color("#E85D75")).Bold(true),
		warn: r.NewStyle().Foreground(lipgloss.Color("#F6AE2D")),
		dim:  r.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
}

func (p Printer) PrintSkipped(skipped []domain.Skipped) {
	s := p.styles()
	for _, item := range skipped {
		fmt.Fprintln(p.Writer, s.warn.Render("Warning: "+item.String()))
	}
}

func (p Printer) PrintSummary(result domain.BatchResult) {
	s := p.styles()

	if p.Verbose && len(result.Successful) > 0 {
		fmt.Fprintln(p.Writer, "Processed:")
		for _, line := range formatSuccessLines(result.Successful) {
			fmt.Fprintln(p.Writer, s.dim.Render(line))
		}
		fmt.Fprintln(p.Writer)
	}

	fmt.Fprintf(p.Writer, "Successful: %s Failures: %s\n",
		s.ok.Render(fmt.Sprint(result.SuccessCount)),
		s.fail.Render(fmt.Sprint(result.FailedCount)),
	)
	for _, line := range FailureLines(result.Failed) {
		fmt.Fprintln(p.Writer, line)
	}
}

func (p Printer) PrintCancelled() {
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, p.styles().warn.Render("Operation cancelled by user"))
}

func (p Printer) PrintFatal(err error) {
	fmt.Fprintln(p.Writer, p.styles().fail.Render("Fatal error: "+appErrors.UserMessage(err)))
}

// FailureLines renders one "<path> - <kind> - <message>" line per failure.
func FailureLines(failed []domain.Failure) []string {
	lines := make([]string, 0, len(failed))
	for _, f := range failed {
		lines = append(lines, fmt.Sprintf("%s - %s - %s", f.Path, f.Kind, f.Message))
	}
	return lines
}

func formatSuccessLines(items []domain.Success) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("  %s  (%d fields)", item.Path, len(item.Metadata)))
	}

	if len(lines) <= 4 {
		return lines
	}
	head := lines[:2]
	tail := lines[len(lines)-2:]
	return append(append(head[:2:2], "  ..."), tail...)
}

func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
