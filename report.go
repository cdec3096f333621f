package memgrade

import (
	"fmt"
	"io"

	"memgrade/checking"

	"github.com/charmbracelet/lipgloss"
)

// Writes the result of the staged checks.
//
// Colors are only used if the writer is a terminal.
type reporter struct {
	w    io.Writer
	pass lipgloss.Style
	fail lipgloss.Style
}

func newReporter(w io.Writer) reporter {
	r := lipgloss.NewRenderer(w)
	return reporter{
		w:    w,
		pass: r.NewStyle().Foreground(lipgloss.Color("10")),
		fail: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (r reporter) result(res checking.CheckResult) {
	style := r.fail
	if res.Passed {
		style = r.pass
	}
	fmt.Fprintln(r.w, style.Render(res.String()))
}

func (r reporter) total(score, checks int) {
	fmt.Fprintf(r.w, "Total score: %v/%v\n", score, checks)
}
