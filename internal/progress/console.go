package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// minBarPages is the page count below which the bar is not worth
// drawing; short documents just log per-page lines.
const minBarPages = 4

const barWidth = 30

var (
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Console renders a single-line progress bar per document on a
// terminal. It assumes it is the only writer to out while a document is
// in flight; the batch driver guarantees that by running documents
// sequentially.
type Console struct {
	out      io.Writer
	barShown bool
}

// NewConsole creates a console renderer writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(u Update) {
	switch u.Status {
	case StatusDocumentStarted:
		c.barShown = u.Total >= minBarPages
		fmt.Fprintf(c.out, "%s %s\n", dimStyle.Render("converting"), u.Document)

	case StatusPageDone:
		if !c.barShown {
			fmt.Fprintf(c.out, "  page %d/%d done\n", u.Page, u.Total)
			return
		}
		fmt.Fprintf(c.out, "\r  %s %d/%d pages", c.bar(u.Page, u.Total), u.Page, u.Total)

	case StatusDocumentDone:
		c.endBar()
		fmt.Fprintf(c.out, "%s %s\n", doneStyle.Render("done"), u.Message)

	case StatusDocumentFailed:
		c.endBar()
		fmt.Fprintf(c.out, "%s %s\n", failStyle.Render("failed"), u.Message)

	case StatusBatchDone:
		fmt.Fprintf(c.out, "%s\n", u.Message)
	}
}

func (c *Console) endBar() {
	if c.barShown {
		fmt.Fprintln(c.out)
		c.barShown = false
	}
}

func (c *Console) bar(page, total int) string {
	if total <= 0 {
		total = 1
	}
	filled := page * barWidth / total
	if filled > barWidth {
		filled = barWidth
	}
	return barStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled))
}
