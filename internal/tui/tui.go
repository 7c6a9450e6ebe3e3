// Package tui is the interactive list view. It only turns key presses
// into controller calls and renders the controller's rows.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts a task to bubbles/list.Item. The task id travels with
// the row so actions never depend on the row's position.
type listItem struct {
	task model.Task
}

func (i listItem) FilterValue() string { return i.task.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 10 {
		width = 10
	}
	task := it.task
	task.Title = ui.Truncate(task.Title, width)
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+ui.TaskLine(task))
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeSearch
)

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctrl   *controller.Controller
	list   list.Model
	input  textinput.Model
	keys   keyMap
	mode   mode
	notice *controller.Notice
	width  int
	height int
}

// New builds the model. startup, when non-nil, is shown before anything
// else (e.g. the file could not be loaded).
func New(ctrl *controller.Controller, startup *controller.Notice) Model {
	t := ui.Current()
	keys := defaultKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 200

	m := Model{
		ctrl:   ctrl,
		list:   l,
		input:  in,
		keys:   keys,
		notice: startup,
		width:  80,
		height: 24,
	}
	m.sync(uuid.Nil)
	m.resize()
	return m
}

// Run starts the full-screen program and blocks until the user quits.
// Every change is already on disk by then.
func Run(ctrl *controller.Controller, startup *controller.Notice) error {
	p := tea.NewProgram(New(ctrl, startup), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// notices block until dismissed
		if m.notice != nil {
			m.notice = nil
			m.resize()
			return m, nil
		}
		switch m.mode {
		case modeAdd, modeSearch:
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	if m.mode != modeBrowse {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		return m.openInput(modeAdd, "New task title...")
	case key.Matches(msg, m.keys.Search):
		return m.openInput(modeSearch, "Keyword...")
	case key.Matches(msg, m.keys.Toggle):
		id := m.selectedID()
		m.apply(m.ctrl.ToggleDone(id), id)
		return m, nil
	case key.Matches(msg, m.keys.MarkDone):
		id := m.selectedID()
		m.apply(m.ctrl.MarkDone(id), id)
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.apply(m.ctrl.Delete(m.selectedID()), uuid.Nil)
		return m, nil
	case key.Matches(msg, m.keys.ShowAll):
		m.ctrl.ShowAll()
		m.sync(m.selectedID())
		return m, nil
	case msg.String() == "esc":
		if _, filtered := m.ctrl.Filter(); filtered {
			m.ctrl.ShowAll()
			m.sync(m.selectedID())
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		var n *controller.Notice
		if m.mode == modeAdd {
			n = m.ctrl.Add(strings.TrimSpace(value))
		} else {
			n = m.ctrl.Search(value)
		}
		if n == nil || m.mode == modeSearch {
			m.closeInput()
		}
		m.apply(n, m.selectedID())
		return m, nil
	case "esc":
		m.closeInput()
		m.resize()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openInput(md mode, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.resize()
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.input.SetValue("")
	m.input.Blur()
}

// apply records a notice (if any) and re-renders, keeping the cursor on
// keep when that task is still visible.
func (m *Model) apply(n *controller.Notice, keep uuid.UUID) {
	m.notice = n
	m.sync(keep)
	m.resize()
}

func (m Model) selectedID() uuid.UUID {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return uuid.Nil
	}
	return it.task.ID
}

// sync copies the controller's rows into the list widget.
func (m *Model) sync(keep uuid.UUID) {
	prev := m.list.Index()
	rows := m.ctrl.Rows()
	items := make([]list.Item, 0, len(rows))
	sel := -1
	for i, t := range rows {
		items = append(items, listItem{task: t})
		if keep != uuid.Nil && t.ID == keep {
			sel = i
		}
	}
	m.list.SetItems(items)

	switch {
	case sel >= 0:
		m.list.Select(sel)
	case prev >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	case prev >= 0 && prev < len(items):
		m.list.Select(prev)
	}

	done, pending, total := m.ctrl.Stats()
	title := ui.Header(done, pending, total)
	if kw, ok := m.ctrl.Filter(); ok {
		title += "   " + ui.Current().Accent.Render(fmt.Sprintf("search: %q", kw))
	}
	m.list.Title = title
}

func (m *Model) resize() {
	reserved := 4 // panel border + progress line
	if m.mode != modeBrowse || m.notice != nil {
		reserved += 4
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, h)
}

func (m Model) View() string {
	t := ui.Current()
	done, _, total := m.ctrl.Stats()
	content := m.list.View() + "\n" + t.Muted.Render(ui.ProgressBar(done, total, 28))

	box := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
	switch {
	case m.notice != nil:
		style := t.Accent
		switch m.notice.Level {
		case controller.LevelError:
			style = t.Error
		case controller.LevelWarning:
			style = t.Pending
		}
		body := style.Render(m.notice.Level.String()) + "\n" + m.notice.Message + "\n" + t.Help.Render("press any key")
		content += "\n" + box.Render(body)
	case m.mode == modeAdd:
		content += "\n" + box.Render("Add task\n"+m.input.View())
	case m.mode == modeSearch:
		content += "\n" + box.Render("Search tasks\n"+m.input.View())
	}
	return ui.Panel(strings.TrimRight(content, "\n"))
}
