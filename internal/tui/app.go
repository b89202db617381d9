// Package tui is the interactive admin console: one tab per record kind, a
// detail view with image galleries, a delete confirmation dialog and
// auto-dismissing toasts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/listdetail"
	"go.safehomi.dev/homeadmin/internal/notify"
)

const toastRefresh = 250 * time.Millisecond

type viewModel interface {
	tea.Model
	Title() string
}

// contentView is a view that renders into the app frame.
type contentView interface {
	viewModel
	Content(f frame) string
}

// Options wires the console to its controllers.
type Options struct {
	Listings  *listdetail.Controller[entity.Listing, entity.Listing]
	Inquiries *listdetail.Controller[entity.Inquiry, entity.Inquiry]
	// Toasts must be the queue the controllers notify into.
	Toasts    *notify.Queue
	ImageBase string
	Logger    *zap.Logger
}

type appModel struct {
	ctx     context.Context
	tabs    []contentView
	active  int
	stack   []contentView
	loaders []func(context.Context) error
	toasts  *notify.Queue
	spinner spinner.Model
	logger  *zap.Logger
	width   int
	height  int
}

type pushViewMsg struct {
	view contentView
}

type popViewMsg struct{}

// refreshMsg tells the view that became current to re-check its state.
type refreshMsg struct{}

type switchTabMsg struct {
	delta int
}

type quitAppMsg struct{}

type toastTickMsg struct{}

type loadedAllMsg struct {
	err error
}

// opResultMsg reports the end of a controller call. Failures have already
// been shown as toasts.
type opResultMsg struct {
	kind string
	op   string
	err  error
}

// Run starts the console and blocks until the operator quits.
func Run(ctx context.Context, opts Options) error {
	program := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newAppModel(ctx context.Context, opts Options) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	toasts := opts.Toasts
	if toasts == nil {
		toasts = notify.NewQueue(3 * time.Second)
	}
	listings := newListView(ctx, entity.Listings(), opts.Listings, opts.ImageBase)
	inquiries := newListView(ctx, entity.Inquiries(), opts.Inquiries, opts.ImageBase)

	return appModel{
		ctx:  ctx,
		tabs: []contentView{listings, inquiries},
		loaders: []func(context.Context) error{
			func(ctx context.Context) error { _, err := opts.Listings.Load(ctx); return err },
			func(ctx context.Context) error { _, err := opts.Inquiries.Load(ctx); return err },
		},
		toasts:  toasts,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		logger:  logger.Named("tui"),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		tea.RequestBackgroundColor,
		m.loadAll(),
		m.spinner.Tick,
		toastTick(),
	)
}

// loadAll fetches every tab concurrently.
func (m appModel) loadAll() tea.Cmd {
	ctx, loaders := m.ctx, m.loaders
	return func() tea.Msg {
		var g errgroup.Group
		for _, load := range loaders {
			g.Go(func() error { return load(ctx) })
		}
		return loadedAllMsg{err: g.Wait()}
	}
}

func toastTick() tea.Cmd {
	return tea.Tick(toastRefresh, func(time.Time) tea.Msg { return toastTickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.BackgroundColorMsg:
		appStyles = newStyles()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case toastTickMsg:
		return m, toastTick()
	case pushViewMsg:
		m.stack = append(m.stack, msg.view)
		return m, nil
	case popViewMsg:
		if len(m.stack) == 0 {
			return m, tea.Quit
		}
		m.stack = m.stack[:len(m.stack)-1]
		return m.forward(refreshMsg{})
	case switchTabMsg:
		n := len(m.tabs)
		m.active = ((m.active+msg.delta)%n + n) % n
		return m, nil
	case quitAppMsg:
		return m, tea.Quit
	case loadedAllMsg:
		if msg.err != nil && !listdetail.IsReported(msg.err) {
			m.logger.Warn("initial load failed", zap.Error(msg.err))
		}
		return m, nil
	case opResultMsg:
		m.logResult(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.forward(msg)
}

// forward hands msg to the current view: the top of the overlay stack, or
// the active tab.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	current := m.currentView()
	updated, cmd := current.Update(msg)
	view, ok := updated.(contentView)
	if !ok {
		return m, cmd
	}
	if len(m.stack) > 0 {
		m.stack[len(m.stack)-1] = view
	} else {
		m.tabs[m.active] = view
	}
	return m, cmd
}

func (m appModel) logResult(msg opResultMsg) {
	switch {
	case msg.err == nil:
		m.logger.Debug("operation finished", zap.String("kind", msg.kind), zap.String("op", msg.op))
	case errors.Is(msg.err, listdetail.ErrSuperseded):
	case listdetail.IsReported(msg.err):
		m.logger.Debug("operation failed", zap.String("kind", msg.kind), zap.String("op", msg.op), zap.Error(msg.err))
	default:
		m.logger.Info("operation refused", zap.String("kind", msg.kind), zap.String("op", msg.op), zap.Error(msg.err))
	}
}

func (m appModel) currentView() contentView {
	if len(m.stack) > 0 {
		return m.stack[len(m.stack)-1]
	}
	return m.tabs[m.active]
}

func (m appModel) tabTitles() []string {
	titles := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		titles[i] = fmt.Sprintf("%d %s", i+1, tab.Title())
	}
	return titles
}

func (m appModel) Content() string {
	f := frame{width: m.width, height: m.height, spinner: m.spinner.View()}
	width := f.contentWidth()

	body := m.currentView().Content(f)
	sections := []string{renderTabs(m.tabTitles(), m.active), body}
	if toasts := renderToasts(m.toasts.Active(), width); len(toasts) > 0 {
		sections = append(sections, strings.Join(toasts, "\n"))
	}
	return getStyles().BorderStyle.Width(width + 4).Render(joinBlocks(sections...))
}

func (m appModel) View() tea.View {
	content := m.Content()
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
	}
	v := tea.NewView("")
	v.SetContent(content)
	v.AltScreen = true
	v.WindowTitle = fmt.Sprintf("SafeHomi Admin • %s", m.currentView().Title())
	return v
}

func pushView(view contentView) tea.Cmd {
	return func() tea.Msg {
		return pushViewMsg{view: view}
	}
}

func popView() tea.Cmd {
	return func() tea.Msg {
		return popViewMsg{}
	}
}

func switchTab(delta int) tea.Cmd {
	return func() tea.Msg {
		return switchTabMsg{delta: delta}
	}
}

func quitApp() tea.Cmd {
	return func() tea.Msg {
		return quitAppMsg{}
	}
}
