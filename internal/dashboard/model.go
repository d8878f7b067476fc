// Package dashboard is the terminal view of today's open tasks.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultRefreshInterval is how often the task list is refetched.
const DefaultRefreshInterval = 30 * time.Second

const initialSeq = 1

// requestTimeout bounds a single fetch or mutation.
const requestTimeout = 10 * time.Second

// tickMsg drives the periodic refresh.
type tickMsg struct{}

// tasksLoadedMsg carries the result of the fetch numbered seq.
type tasksLoadedMsg struct {
	seq   uint64
	tasks []Task
	err   error
}

// completeResultMsg is sent when a complete call returns.
type completeResultMsg struct {
	taskID string
	err    error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	source   Source
	keys     KeyMap
	interval time.Duration
	now      func() time.Time

	tasks  []Task
	cursor int
	loaded bool

	// issuedSeq numbers every fetch; appliedSeq is the newest fetch whose
	// result is on screen. Responses older than appliedSeq are dropped.
	issuedSeq  uint64
	appliedSeq uint64

	// errBanner holds the most recent fetch or mutation error.
	errBanner   string
	lastRefresh time.Time
	completing  string

	width int
}

// NewModel creates a dashboard over source refreshing every interval.
// A non-positive interval uses DefaultRefreshInterval.
func NewModel(source Source, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return Model{
		source:   source,
		keys:     DefaultKeyMap,
		interval: interval,
		now:      time.Now,

		issuedSeq: initialSeq,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.nextFetch(), m.scheduleTick())
}

// initialSeq is reserved in NewModel for the fetch Init issues.
func (m Model) nextFetch() tea.Cmd {
	return fetchTasks(m.source, initialSeq)
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func fetchTasks(source Source, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := source.Today(ctx)
		return tasksLoadedMsg{seq: seq, tasks: tasks, err: err}
	}
}

func completeTask(source Source, taskID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return completeResultMsg{taskID: taskID, err: source.Complete(ctx, taskID)}
	}
}

// refresh issues a new fetch with the next sequence number.
func (m *Model) refresh() tea.Cmd {
	m.issuedSeq++
	return fetchTasks(m.source, m.issuedSeq)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.scheduleTick())

	case tasksLoadedMsg:
		m.applyTasks(msg)

	case completeResultMsg:
		m.completing = ""
		if msg.err != nil {
			m.errBanner = fmt.Sprintf("complete %s: %v", shortID(msg.taskID), msg.err)
			return m, nil
		}
		return m, m.refresh()
	}
	return m, nil
}

func (m *Model) applyTasks(msg tasksLoadedMsg) {
	if msg.seq <= m.appliedSeq {
		return
	}
	m.appliedSeq = msg.seq
	if msg.err != nil {
		m.errBanner = fmt.Sprintf("refresh: %v", msg.err)
		return
	}

	selected := m.selectedID()
	m.tasks = msg.tasks
	m.loaded = true
	m.errBanner = ""
	m.lastRefresh = m.now()
	m.cursor = 0
	for i, t := range m.tasks {
		if t.ID == selected {
			m.cursor = i
			break
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Complete):
		id := m.selectedID()
		if id == "" || m.completing != "" {
			return m, nil
		}
		m.completing = id
		return m, completeTask(m.source, id)
	}
	return m, nil
}

func (m Model) selectedID() string {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return ""
	}
	return m.tasks[m.cursor].ID
}

// Tasks returns the list currently on screen.
func (m Model) Tasks() []Task {
	return m.tasks
}

// Err returns the banner text, empty when the last operation succeeded.
func (m Model) Err() string {
	return m.errBanner
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Today's tasks"))
	if !m.lastRefresh.IsZero() {
		b.WriteString(mutedStyle.Render("  updated " + m.lastRefresh.Format("15:04:05")))
	}
	b.WriteString("\n")

	if m.errBanner != "" {
		b.WriteString(bannerStyle.Render(m.errBanner))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case !m.loaded:
		b.WriteString(mutedStyle.Render("loading..."))
		b.WriteString("\n")
	case len(m.tasks) == 0:
		b.WriteString(mutedStyle.Render("nothing due today"))
		b.WriteString("\n")
	default:
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-6s  %-8s  %-10s  %s", "DUE", "TYPE", "STATUS", "APPLICATION")))
		b.WriteString("\n")
		for i, t := range m.tasks {
			row := fmt.Sprintf("  %-6s  %-8s  %-10s  %s",
				t.DueAt.UTC().Format("15:04"), t.TaskType, t.Status, shortID(t.ApplicationID))
			if t.ID == m.completing {
				row += "  completing..."
			}
			if i == m.cursor {
				row = selectedStyle.Render(row)
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
