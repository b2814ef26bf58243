package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jacksmith/lodge/internal/model"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// colorEnabled is set from terminal detection on stdout and can be overridden.
var colorEnabled = IsTerminal(os.Stdout)

// SetColorEnabled allows overriding the color output setting.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

// Green returns s wrapped in green ANSI codes if colors are enabled.
func Green(s string) string { return paint(colorGreen, s) }

// Red returns s wrapped in red ANSI codes if colors are enabled.
func Red(s string) string { return paint(colorRed, s) }

// Yellow returns s wrapped in yellow ANSI codes if colors are enabled.
func Yellow(s string) string { return paint(colorYellow, s) }

// Gray returns s wrapped in gray ANSI codes if colors are enabled.
func Gray(s string) string { return paint(colorGray, s) }

// DefaultMaxTextWidth caps free-text columns such as names and locations.
const DefaultMaxTextWidth = 40

// Table formats columnar output. Columns are separated by two spaces and
// padded to the widest visible cell.
type Table struct {
	header    []string
	rows      [][]string
	colWidths []int
	maxWidths map[int]int
}

// NewTable creates a table. A non-empty header is rendered in gray above the
// rows, but only when there is at least one row.
func NewTable(header ...string) *Table {
	t := &Table{header: header}
	t.track(header)
	return t
}

// SetMaxWidth sets the maximum visible width for a column.
// Longer cells are truncated with "...".
func (t *Table) SetMaxWidth(col, maxWidth int) {
	if t.maxWidths == nil {
		t.maxWidths = make(map[int]int)
	}
	t.maxWidths[col] = maxWidth
	if col < len(t.colWidths) && t.colWidths[col] > maxWidth {
		t.colWidths[col] = maxWidth
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.track(cols)
	t.rows = append(t.rows, cols)
}

// Len returns the number of rows, not counting the header.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) track(cols []string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}
	for i, col := range cols {
		width := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && width > maxW {
			width = maxW
		}
		if width > t.colWidths[i] {
			t.colWidths[i] = width
		}
	}
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) {
	if len(t.rows) == 0 {
		return
	}
	if len(t.header) > 0 {
		header := make([]string, len(t.header))
		for i, h := range t.header {
			header[i] = Gray(h)
		}
		t.renderRow(w, header)
	}
	for _, row := range t.rows {
		t.renderRow(w, row)
	}
}

func (t *Table) renderRow(w io.Writer, row []string) {
	parts := make([]string, len(row))
	for i, col := range row {
		if maxW, ok := t.maxWidths[i]; ok {
			col = Truncate(col, maxW)
		}
		if i < len(row)-1 {
			col += strings.Repeat(" ", t.colWidths[i]-visibleWidth(col))
		}
		parts[i] = col
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

// Truncate cuts s to at most maxWidth visible characters, ending in "..."
// when there is room for it. ANSI codes do not count towards the width and a
// reset is appended if s was colored.
func Truncate(s string, maxWidth int) string {
	const ellipsis = "..."
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < len(ellipsis) {
		return cutVisible(s, maxWidth)
	}

	cut := cutVisible(s, maxWidth-len(ellipsis)) + ellipsis
	if strings.ContainsRune(s, '\033') {
		cut += colorReset
	}
	return cut
}

// cutVisible keeps the first n visible characters of s along with any ANSI
// codes that precede them.
func cutVisible(s string, n int) string {
	var b strings.Builder
	visible := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case visible >= n:
			return b.String()
		default:
			visible++
		}
		b.WriteRune(r)
	}
	return b.String()
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			width++
		}
	}
	return width
}

// CapacityLabel renders a remaining capacity: red "full" at zero, yellow for
// the last unit.
func CapacityLabel(n int) string {
	switch {
	case n <= 0:
		return Red("full")
	case n == 1:
		return Yellow("1")
	default:
		return strconv.Itoa(n)
	}
}

// WriteFacilities prints facilities as a table, or a gray note when empty.
func WriteFacilities(w io.Writer, facilities []model.Facility) {
	if len(facilities) == 0 {
		fmt.Fprintln(w, Gray("no facilities"))
		return
	}
	table := NewTable("NAME", "LOCATION", "CAPACITY", "CONTACT")
	table.SetMaxWidth(0, DefaultMaxTextWidth)
	table.SetMaxWidth(1, DefaultMaxTextWidth)
	for _, f := range facilities {
		table.AddRow(f.Name, f.Location, CapacityLabel(f.Capacity), f.ContactEmail)
	}
	table.Render(w)
}

// WriteCustomers prints customers as a table, or a gray note when empty.
func WriteCustomers(w io.Writer, customers []model.Customer) {
	if len(customers) == 0 {
		fmt.Fprintln(w, Gray("no customers"))
		return
	}
	table := NewTable("EMAIL", "NAME", "PHONE")
	table.SetMaxWidth(1, DefaultMaxTextWidth)
	for _, c := range customers {
		table.AddRow(c.Email, c.Name, c.Phone)
	}
	table.Render(w)
}

// WriteReservations prints reservations as a table, or a gray note when empty.
func WriteReservations(w io.Writer, reservations []model.Reservation) {
	if len(reservations) == 0 {
		fmt.Fprintln(w, Gray("no reservations"))
		return
	}
	table := NewTable("CUSTOMER", "FACILITY")
	for _, r := range reservations {
		table.AddRow(r.CustomerEmail, r.FacilityName)
	}
	table.Render(w)
}

// WriteWarning prints err as a yellow warning line with its hint, if any.
func WriteWarning(w io.Writer, err error) {
	fmt.Fprintln(w, Yellow("warning: ")+err.Error())
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(w, "hint: "+hint)
	}
}
