package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/listdetail"
)

// listView is one tab: the table of summaries with a fuzzy filter.
type listView[S, D any] struct {
	ctx       context.Context
	kind      entity.Kind[S, D]
	ctrl      *listdetail.Controller[S, D]
	imageBase string
	search    textinput.Model
	cursor    int
}

func newListView[S, D any](ctx context.Context, kind entity.Kind[S, D], ctrl *listdetail.Controller[S, D], imageBase string) listView[S, D] {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Type to search..."
	input.SetWidth(40)
	input.Blur() // Start unfocused so hotkeys work immediately

	return listView[S, D]{
		ctx:       ctx,
		kind:      kind,
		ctrl:      ctrl,
		imageBase: imageBase,
		search:    input,
	}
}

func (v listView[S, D]) Title() string {
	return fmt.Sprintf("%s (%d)", v.kind.Title, len(v.ctrl.Items()))
}

func (v listView[S, D]) Init() tea.Cmd { return nil }

// visible is the filtered collection in display order.
func (v listView[S, D]) visible() []S {
	return FilterItems(strings.TrimSpace(v.search.Value()), v.ctrl.Items(), v.kind.SearchText)
}

func (v listView[S, D]) selected() (S, bool) {
	items := v.visible()
	if v.cursor < 0 || v.cursor >= len(items) {
		var zero S
		return zero, false
	}
	return items[v.cursor], true
}

func (v *listView[S, D]) clampCursor() {
	n := len(v.visible())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v listView[S, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.search.SetWidth(frame{width: msg.Width}.contentWidth() - 4)
		return v, nil
	case opResultMsg, refreshMsg:
		v.clampCursor()
		return v, nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	if v.search.Focused() {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v listView[S, D]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if v.search.Focused() {
		switch keyStr {
		case "esc":
			// Unfocus but keep the query for navigation
			v.search.Blur()
			return v, nil
		case "enter":
			v.search.Blur()
			return v.open()
		case "up", "down":
			return v.move(keyStr)
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		v.cursor = 0
		return v, cmd
	}

	switch keyStr {
	case "q":
		return v, quitApp()
	case "esc":
		if v.search.Value() != "" {
			v.search.SetValue("")
			v.cursor = 0
		}
		return v, nil
	case "/":
		cmd := v.search.Focus()
		return v, cmd
	case "tab", "right":
		return v, switchTab(1)
	case "shift+tab", "left":
		return v, switchTab(-1)
	case "up", "k", "down", "j", "home", "g", "end", "G":
		return v.move(keyStr)
	case "enter", "o":
		return v.open()
	case "t", "space", " ":
		return v.toggle()
	case "d", "delete", "x":
		return v.requestDelete()
	case "r":
		return v, v.reload()
	}
	return v, nil
}

func (v listView[S, D]) move(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "up", "k":
		v.cursor--
	case "down", "j":
		v.cursor++
	case "home", "g":
		v.cursor = 0
	case "end", "G":
		v.cursor = len(v.visible()) - 1
	}
	v.clampCursor()
	return v, nil
}

func (v listView[S, D]) open() (tea.Model, tea.Cmd) {
	item, ok := v.selected()
	if !ok {
		return v, nil
	}
	ctx, kind, ctrl, base := v.ctx, v.kind, v.ctrl, v.imageBase
	id := kind.ID(item)
	return v, func() tea.Msg {
		if _, err := ctrl.Open(ctx, id); err != nil {
			return opResultMsg{kind: kind.Name, op: "open", err: err}
		}
		return pushViewMsg{view: newDetailView(ctx, kind, ctrl, base)}
	}
}

func (v listView[S, D]) toggle() (tea.Model, tea.Cmd) {
	item, ok := v.selected()
	if !ok {
		return v, nil
	}
	ctx, name, ctrl := v.ctx, v.kind.Name, v.ctrl
	id := v.kind.ID(item)
	return v, func() tea.Msg {
		return opResultMsg{kind: name, op: "toggle", err: ctrl.Toggle(ctx, id)}
	}
}

func (v listView[S, D]) requestDelete() (tea.Model, tea.Cmd) {
	item, ok := v.selected()
	if !ok {
		return v, nil
	}
	v.ctrl.RequestDelete(item)
	return v, pushView(newConfirmView(v.ctx, v.kind, v.ctrl))
}

func (v listView[S, D]) reload() tea.Cmd {
	ctx, name, ctrl := v.ctx, v.kind.Name, v.ctrl
	return func() tea.Msg {
		_, err := ctrl.Load(ctx)
		return opResultMsg{kind: name, op: "load", err: err}
	}
}

func (v listView[S, D]) View() tea.View {
	view := tea.NewView("")
	view.SetContent(v.Content(frame{}))
	return view
}

func (v listView[S, D]) Content(f frame) string {
	width := f.contentWidth()
	snap := v.ctrl.Snapshot()
	items := FilterItems(strings.TrimSpace(v.search.Value()), snap.Items, v.kind.SearchText)

	header := getStyles().HeaderStyle.Render(v.kind.Title)
	if snap.Loading {
		header += " " + f.spinner
	}

	var body []string
	body = append(body, getStyles().SearchInputStyle.Render(v.search.View()))
	switch {
	case snap.Loading && len(snap.Items) == 0:
		body = append(body, getStyles().SubtleStyle.Render(v.kind.Loading))
	case len(snap.Items) == 0:
		body = append(body, getStyles().SubtleStyle.Render(v.kind.Empty))
	case len(items) == 0:
		body = append(body, getStyles().FooterStyle.Render("(no matches)"))
	default:
		rows := make([][]string, len(items))
		for i, item := range items {
			rows[i] = v.kind.Row(item)
		}
		cursor := min(max(v.cursor, 0), len(items)-1)
		body = append(body, renderTable(v.kind.Headers(), v.widths(), rows, cursor, f.listHeight(), width)...)
	}

	busy := snap.Busy
	footer := renderKeys(width,
		keyHint{key: "↑/↓", help: "move"},
		keyHint{key: "enter", help: "details"},
		keyHint{key: "t", help: "toggle status", disabled: busy},
		keyHint{key: "d", help: "delete", disabled: busy},
		keyHint{key: "/", help: "search"},
		keyHint{key: "r", help: "reload"},
		keyHint{key: "tab", help: "switch"},
		keyHint{key: "q", help: "quit"},
	)

	return joinBlocks(header, strings.Join(body, "\n"), footer)
}

func (v listView[S, D]) widths() []int {
	widths := make([]int, len(v.kind.Columns))
	for i, col := range v.kind.Columns {
		widths[i] = col.Width
	}
	return widths
}
