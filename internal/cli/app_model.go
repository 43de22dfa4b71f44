package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model for the TUI.
// It owns the tab bar and a view stack whose bottom entry is the active tab.
type appModel struct {
	state     *SharedState
	viewStack []View
	tab       int
	quitting  bool
}

func newAppModel(ctx context.Context, app *App) appModel {
	state := newSharedState(ctx, app)
	if app.SignInErr != nil {
		state.Err = fmt.Errorf("signing in: %w", app.SignInErr)
	}
	return appModel{
		state:     state,
		viewStack: []View{newTabView(state, 0)},
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// broadcast forwards msg to every view on the stack so views underneath the
// active one stay consistent with the shared state.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// switchTab resets the stack to the root view of tabs[i].
func (m *appModel) switchTab(i int) tea.Cmd {
	m.tab = i
	v := newTabView(m.state, i)
	m.viewStack = []View{v}
	return v.Init()
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.state.applySnapshot(msg.items)
		return m, m.broadcast(msg)

	case snapshotErrMsg:
		m.state.Err = msg.err
		return m, nil

	// Navigation messages from views
	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case refreshViewMsg:
		return m, m.broadcast(msg)

	case cmdOutputMsg:
		m.state.Flash = msg.output
		return m, nil

	case wizardCompleteMsg:
		// Atomically pop the wizard view and execute the follow-up command.
		if v := m.activeView(); v != nil && v.ID() == ViewForm && len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case uploadDoneMsg:
		delete(m.state.Uploading, msg.id)
		if msg.err != nil {
			m.state.Flash = errorOutput(msg.err)
		} else {
			m.state.Flash = formatter.StyleGreen.Render("Deliverable uploaded.")
		}
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.state.Flash = errorOutput(msg.err)
			return m, nil
		}
		m.state.Flash = fmt.Sprintf("Deleted %d item(s).", msg.count)
		if v, ok := m.activeView().(*detailView); ok && v.itemID == msg.id && len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	// Forward everything else (form internals, cursor blink) to the active view.
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Forms and pending confirmations receive every key, including q and esc.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	m.state.Flash = ""

	if msg.String() == "q" {
		m.quitting = true
		return m, tea.Quit
	}
	// Nothing to act on until the first snapshot arrives.
	if !m.state.Loaded {
		return m, nil
	}

	switch s := msg.String(); {

	case s == "o":
		m.state.Override = !m.state.Override
		m.state.Flash = formatter.ModeBadge(m.state.Override)
		return m, m.broadcast(refreshViewMsg{})

	case s == "tab":
		return m, m.switchTab((m.tab + 1) % len(tabs))

	case s == "shift+tab":
		return m, m.switchTab((m.tab + len(tabs) - 1) % len(tabs))

	case len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(tabs):
		return m, m.switchTab(int(s[0] - '1'))

	case msg.Type == tea.KeyEsc:
		return m, popView()
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	switch {
	case m.state.Err != nil && !m.state.Loaded:
		sections = append(sections, "\n  "+errorOutput(m.state.Err))
	case !m.state.Loaded:
		sections = append(sections, "\n  "+formatter.Dim("Loading missions..."))
	default:
		if v := m.activeView(); v != nil {
			sections = append(sections, v.View())
		}
	}

	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StyleHeader.Render("MISSION CONTROL")

	// Breadcrumb from the views stacked above the tab
	var crumbs []string
	for _, v := range m.viewStack[1:] {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	header += "  " + formatter.ModeBadge(m.state.Override)
	if u := m.state.App.User; u.ID != "" {
		header += "  " + formatter.Dim("user "+formatter.ShortID(u.ID))
	}

	var tabLabels []string
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.label)
		if i == m.tab {
			tabLabels = append(tabLabels, formatter.StyleHeader.Render("["+label+"]"))
		} else {
			tabLabels = append(tabLabels, formatter.Dim(" "+label+" "))
		}
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + strings.Join(tabLabels, " ") + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil && m.state.Loaded {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if v := m.activeView(); v == nil || !viewCapturesInput(v) {
		if len(m.viewStack) > 1 {
			hints = append(hints, formatter.Dim("esc: back"))
		}
		hints = append(hints, formatter.Dim("o: override"), formatter.Dim("tab: switch"), formatter.Dim("q: quit"))
	}

	flash := m.state.Flash
	if flash == "" && m.state.Err != nil {
		flash = errorOutput(m.state.Err)
	}

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + flash + "\n" + strings.Join(hints, "  ")
}

// viewCapturesInput returns true if the active view should receive all key
// events, bypassing global keybindings like q, o and esc.
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	if v.ID() == ViewForm {
		return true
	}
	if c, ok := v.(inputCapturer); ok {
		return c.capturesInput()
	}
	return false
}
