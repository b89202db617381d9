package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/listdetail"
)

// detailView shows the controller's open record. The record and gallery
// cursors live in the controller; the view only remembers which gallery has
// focus.
type detailView[S, D any] struct {
	ctx       context.Context
	kind      entity.Kind[S, D]
	ctrl      *listdetail.Controller[S, D]
	imageBase string
	focus     int
	status    string
}

func newDetailView[S, D any](ctx context.Context, kind entity.Kind[S, D], ctrl *listdetail.Controller[S, D], imageBase string) detailView[S, D] {
	return detailView[S, D]{
		ctx:       ctx,
		kind:      kind,
		ctrl:      ctrl,
		imageBase: imageBase,
	}
}

func (v detailView[S, D]) Title() string {
	return v.kind.Noun + " Details"
}

func (v detailView[S, D]) Init() tea.Cmd { return nil }

func (v detailView[S, D]) focusedGallery(snap listdetail.Snapshot[S, D]) (listdetail.GalleryView, bool) {
	galleries := snap.Detail.Galleries
	if len(galleries) == 0 {
		return listdetail.GalleryView{}, false
	}
	return galleries[v.focus%len(galleries)], true
}

func (v detailView[S, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg, opResultMsg:
		// A delete confirmed from here closes the record underneath us.
		if !v.ctrl.Snapshot().Detail.Visible() {
			return v, popView()
		}
		return v, nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v detailView[S, D]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := v.ctrl.Snapshot()
	gallery, hasGallery := v.focusedGallery(snap)
	v.status = ""

	keyStr := msg.String()
	switch keyStr {
	case "esc", "q", "backspace":
		v.ctrl.CloseDetail()
		return v, popView()
	case "tab":
		if n := len(snap.Detail.Galleries); n > 0 {
			v.focus = (v.focus + 1) % n
		}
		return v, nil
	case "shift+tab":
		if n := len(snap.Detail.Galleries); n > 0 {
			v.focus = (v.focus - 1 + n) % n
		}
		return v, nil
	case "right", "l", "n":
		if hasGallery {
			v.report(v.ctrl.NextImage(gallery.Key))
		}
		return v, nil
	case "left", "h", "p":
		if hasGallery {
			v.report(v.ctrl.PrevImage(gallery.Key))
		}
		return v, nil
	case "d", "delete":
		if err := v.ctrl.RequestDeleteID(snap.Detail.ID); err != nil {
			v.report(err)
			return v, nil
		}
		return v, pushView(newConfirmView(v.ctx, v.kind, v.ctrl))
	}

	if n, err := strconv.Atoi(keyStr); err == nil && hasGallery {
		v.report(v.ctrl.SelectImage(gallery.Key, n-1))
	}
	return v, nil
}

func (v *detailView[S, D]) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, listdetail.ErrCursorOutOfRange):
		v.status = "No such image."
	case errors.Is(err, listdetail.ErrUnknownEntity):
		v.status = "This record is no longer in the list."
	default:
		v.status = err.Error()
	}
}

func (v detailView[S, D]) View() tea.View {
	view := tea.NewView("")
	view.SetContent(v.Content(frame{}))
	return view
}

func (v detailView[S, D]) Content(f frame) string {
	width := f.contentWidth()
	snap := v.ctrl.Snapshot()
	if !snap.Detail.Visible() {
		return getStyles().SubtleStyle.Render(v.kind.Loading)
	}
	record := snap.Detail.Record

	blocks := []string{getStyles().HeaderStyle.Render(v.Title())}
	for _, section := range v.kind.Sections(record) {
		blocks = append(blocks, renderSection(section, width))
	}
	blocks = append(blocks, getStyles().LabelStyle.Render("Description")+"\n"+
		wrapText(v.kind.Description(record), width))

	focused, _ := v.focusedGallery(snap)
	for _, g := range snap.Detail.Galleries {
		blocks = append(blocks, v.renderGallery(g, g.Key == focused.Key, width))
	}

	if v.status != "" {
		blocks = append(blocks, renderStatus(v.status, true))
	}
	blocks = append(blocks, renderKeys(width,
		keyHint{key: "←/→", help: "image"},
		keyHint{key: "1-9", help: "jump"},
		keyHint{key: "tab", help: "gallery"},
		keyHint{key: "d", help: "delete", disabled: snap.Busy},
		keyHint{key: "esc", help: "close"},
	))
	return joinBlocks(blocks...)
}

func renderSection(s entity.Section, width int) string {
	labelWidth := 0
	for _, field := range s.Fields {
		labelWidth = max(labelWidth, len(field.Label))
	}
	lines := []string{getStyles().LabelStyle.Render(s.Title)}
	for _, field := range s.Fields {
		value := field.Value
		if field.Label == "Status" {
			value = statusBadge(value == entity.StatusLabel(true))
		}
		line := fmt.Sprintf("  %s  %s", padToWidth(field.Label+":", labelWidth+1), value)
		lines = append(lines, truncateToWidth(line, width))
	}
	return strings.Join(lines, "\n")
}

func (v detailView[S, D]) renderGallery(g listdetail.GalleryView, focused bool, width int) string {
	title := g.Title
	if focused {
		title = "> " + title
	} else {
		title = "  " + title
	}
	lines := []string{getStyles().LabelStyle.Render(title)}
	if len(g.Images) == 0 {
		lines = append(lines, "  "+getStyles().SubtleStyle.Render(g.Empty))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "  "+g.Caption())
	lines = append(lines, "  "+truncateToWidth(ImageURL(v.imageBase, g.Current()), width-2))

	marks := make([]string, len(g.Images))
	for i := range g.Images {
		if i == g.Cursor {
			marks[i] = getStyles().SelectedStyle.Render(fmt.Sprintf("[%d]", i+1))
		} else {
			marks[i] = getStyles().SubtleStyle.Render(strconv.Itoa(i + 1))
		}
	}
	lines = append(lines, "  "+truncateToWidth(strings.Join(marks, " "), width-2))
	return strings.Join(lines, "\n")
}

// wrapText breaks text at spaces so no line exceeds width.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		for _, word := range strings.Fields(para) {
			if line.Len() > 0 && line.Len()+1+len(word) > width {
				lines = append(lines, line.String())
				line.Reset()
			}
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(word)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
