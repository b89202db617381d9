package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"go.safehomi.dev/homeadmin/internal/notify"
)

const (
	defaultListHeight = 10
	defaultWidth      = 80
	maxContentWidth   = 140
)

// frame is what the app passes down when a view renders.
type frame struct {
	width   int
	height  int
	spinner string
}

func (f frame) contentWidth() int {
	w := f.width - 4
	if w <= 0 {
		w = defaultWidth
	}
	if w > maxContentWidth {
		w = maxContentWidth
	}
	return w
}

// listHeight is how many table rows fit below the header, search box and
// footer.
func (f frame) listHeight() int {
	if f.height <= 0 {
		return defaultListHeight
	}
	h := f.height - 12
	if h < 3 {
		h = 3
	}
	return h
}

// renderTable lays out rows in fixed-width columns. The cursor row is
// highlighted and the window scrolls to keep it visible.
func renderTable(headers []string, widths []int, rows [][]string, cursor, height, width int) []string {
	lines := []string{truncateToWidth("  "+joinCells(headers, widths), width)}
	lines[0] = getStyles().HeaderStyle.Render(lines[0])

	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(rows))
	for i := start; i < end; i++ {
		mark := "  "
		if i == cursor {
			mark = "> "
		}
		line := truncateToWidth(mark+joinCells(rows[i], widths), width)
		if i == cursor {
			line = getStyles().SelectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(rows) > height {
		lines = append(lines, getStyles().SubtleStyle.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(rows))))
	}
	return lines
}

// Table renders rows as plain fixed-width columns for non-interactive
// output.
func Table(headers []string, widths []int, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.TrimRight(joinCells(headers, widths), " "))
	for _, row := range rows {
		lines = append(lines, strings.TrimRight(joinCells(row, widths), " "))
	}
	return strings.Join(lines, "\n")
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := 12
		if i < len(widths) {
			w = widths[i]
		}
		parts[i] = padToWidth(truncateToWidth(cell, w), w)
	}
	return strings.Join(parts, " ")
}

func padToWidth(text string, width int) string {
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func truncateToWidth(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}

func renderTabs(titles []string, active int) string {
	tabs := make([]string, len(titles))
	for i, title := range titles {
		if i == active {
			tabs[i] = getStyles().ActiveTabStyle.Render(title)
		} else {
			tabs[i] = getStyles().TabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderToasts(items []notify.Notification, width int) []string {
	lines := make([]string, 0, len(items))
	for _, n := range items {
		text := n.Text
		switch n.Level {
		case notify.LevelError:
			text = "✗ " + text
		case notify.LevelWarning:
			text = "! " + text
		default:
			text = "✓ " + text
		}
		lines = append(lines, getStyles().toastStyle(n.Level).Render(truncateToWidth(text, width)))
	}
	return lines
}

// renderKeys renders a footer of key hints. Disabled hints are dimmed.
func renderKeys(width int, hints ...keyHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		text := h.key + " " + h.help
		if h.disabled {
			parts = append(parts, getStyles().DisabledStyle.Render(text))
			continue
		}
		parts = append(parts, getStyles().FooterStyle.Render(text))
	}
	return truncateToWidth(strings.Join(parts, " • "), width)
}

type keyHint struct {
	key      string
	help     string
	disabled bool
}

func renderStatus(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return getStyles().ErrorStyle.Render(fmt.Sprintf("Error: %s", message))
	}
	return getStyles().SubtleStyle.Render(message)
}

func statusBadge(active bool) string {
	if active {
		return getStyles().ActiveBadge.Render("Active")
	}
	return getStyles().InactiveBadge.Render("Inactive")
}

// ImageURL joins an image path onto the image base. Absolute URLs pass
// through.
func ImageURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func joinBlocks(blocks ...string) string {
	nonEmpty := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			nonEmpty = append(nonEmpty, b)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}
