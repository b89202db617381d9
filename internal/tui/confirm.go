package tui

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/listdetail"
)

// confirmView is the delete confirmation dialog for the controller's pending
// candidate. A failed delete keeps the dialog up so the operator can retry
// or cancel.
type confirmView[S, D any] struct {
	ctx     context.Context
	kind    entity.Kind[S, D]
	ctrl    *listdetail.Controller[S, D]
	waiting bool
	failure string
}

type deleteResultMsg struct {
	kind string
	err  error
}

func newConfirmView[S, D any](ctx context.Context, kind entity.Kind[S, D], ctrl *listdetail.Controller[S, D]) confirmView[S, D] {
	return confirmView[S, D]{ctx: ctx, kind: kind, ctrl: ctrl}
}

func (m confirmView[S, D]) Title() string { return m.kind.DeleteTitle }

func (m confirmView[S, D]) Init() tea.Cmd { return nil }

func (m confirmView[S, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deleteResultMsg:
		if msg.kind != m.kind.Name {
			return m, nil
		}
		m.waiting = false
		if msg.err == nil {
			return m, tea.Batch(popView(), resultCmd(m.kind.Name, "delete", nil))
		}
		var failure *listdetail.Failure
		if errors.As(msg.err, &failure) {
			m.failure = failure.Message
		}
		return m, resultCmd(m.kind.Name, "delete", msg.err)
	case tea.KeyMsg:
		if m.waiting {
			return m, nil
		}
		switch strings.ToLower(msg.String()) {
		case "y":
			m.waiting = true
			m.failure = ""
			ctx, ctrl, name := m.ctx, m.ctrl, m.kind.Name
			return m, func() tea.Msg {
				return deleteResultMsg{kind: name, err: ctrl.ConfirmDelete(ctx)}
			}
		case "n", "enter", "esc", "q":
			m.ctrl.CancelDelete()
			return m, popView()
		}
	}
	return m, nil
}

func resultCmd(kind, op string, err error) tea.Cmd {
	return func() tea.Msg {
		return opResultMsg{kind: kind, op: op, err: err}
	}
}

func (m confirmView[S, D]) View() tea.View {
	v := tea.NewView("")
	v.SetContent(m.Content(frame{}))
	return v
}

func (m confirmView[S, D]) Content(f frame) string {
	contentWidth := min(max(f.contentWidth()-8, 40), 80)
	fixedWidth := lipgloss.NewStyle().Width(contentWidth)

	pending := m.ctrl.Snapshot().PendingDeletion
	if pending == nil {
		return getStyles().SubtleStyle.Render("Nothing to delete.")
	}

	var lines []string
	lines = append(lines, fixedWidth.Render(getStyles().SelectedStyle.Render(m.kind.DeleteTitle)))
	lines = append(lines, "")
	lines = append(lines, fixedWidth.Render(wrapText(m.kind.DeletePrompt(*pending), contentWidth)))
	lines = append(lines, "")

	switch {
	case m.waiting:
		lines = append(lines, fixedWidth.Render(getStyles().SubtleStyle.Render(f.spinner+" Deleting...")))
	case m.failure != "":
		lines = append(lines, fixedWidth.Render(renderStatus(m.failure, true)))
		lines = append(lines, fixedWidth.Render("Retry? (y/N)"))
	default:
		lines = append(lines, fixedWidth.Render("Delete? (y/N)"))
	}
	lines = append(lines, fixedWidth.Render(getStyles().FooterStyle.Render("Y confirm • N cancel • Esc cancel")))

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(getStyles().Subtle).
		Width(contentWidth+4).
		Padding(0, 1)

	return containerStyle.Render(strings.Join(lines, "\n"))
}
