package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	launchd "github.com/axondata/go-launchd"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	stoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	unknownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Faint(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
)

type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Start   key.Binding
	Stop    key.Binding
	Restart key.Binding
	Clear   key.Binding
	Agent   key.Binding
	Daemon  key.Binding
	Filter  key.Binding
	Up      key.Binding
	Down    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stop")),
		Restart: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "restart")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear logs")),
		Agent:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "new agent")),
		Daemon:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "new daemon")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	}
}

// scanMsg carries a completed scan result into the update loop
type scanMsg struct {
	set launchd.ServiceSet
	err error
}

// opMsg reports a finished lifecycle, clear, or create operation. rescan
// is set for mutations whose post-state must be re-observed.
type opMsg struct {
	desc   string
	err    error
	rescan bool
}

// rootEventMsg signals a definition-directory change from the root watcher
type rootEventMsg struct{}

type model struct {
	scanner *launchd.Scanner
	client  *launchd.Client
	events  <-chan launchd.RootEvent

	keys     keyMap
	filter   textinput.Model
	set      launchd.ServiceSet
	filtered launchd.ServiceSet
	cursor   int
	logs     []string
	status   string
	scanning bool
	width    int
	height   int
}

func newModel(scanner *launchd.Scanner, client *launchd.Client, events <-chan launchd.RootEvent) model {
	filter := textinput.New()
	filter.Placeholder = "filter services"
	filter.Prompt = "/ "

	return model{
		scanner: scanner,
		client:  client,
		events:  events,
		keys:    newKeyMap(),
		filter:  filter,
		status:  "Ready",
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(), m.waitForRootEvent())
}

func (m model) scanCmd() tea.Cmd {
	scanner := m.scanner
	return func() tea.Msg {
		set, err := scanner.Scan(context.Background())
		return scanMsg{set: set, err: err}
	}
}

func (m model) waitForRootEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return rootEventMsg{}
	}
}

func (m model) lifecycleCmd(desc string, fn func(context.Context, string) error, path string) tea.Cmd {
	return func() tea.Msg {
		return opMsg{desc: desc, err: fn(context.Background(), path), rescan: true}
	}
}

func (m model) createCmd(kind launchd.TemplateKind) tea.Cmd {
	return func() tea.Msg {
		path, err := launchd.CreateService(kind)
		desc := fmt.Sprintf("Created %s", path)
		return opMsg{desc: desc, err: err, rescan: true}
	}
}

func (m model) clearCmd(def *launchd.ServiceDefinition) tea.Cmd {
	return func() tea.Msg {
		cleared, err := launchd.ClearLogs(def)
		desc := "No log files to clear"
		if len(cleared) > 0 {
			desc = fmt.Sprintf("Cleared %s", strings.Join(cleared, ", "))
		}
		return opMsg{desc: desc, err: err}
	}
}

func (m *model) selected() *launchd.ServiceRecord {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[m.cursor]
}

// applyFilter re-derives the visible rows from the full set and the
// current query, keeping the cursor on a valid row.
func (m *model) applyFilter() {
	m.filtered = m.set.Filter(m.filter.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.reloadLogs()
}

func (m *model) reloadLogs() {
	m.logs = nil
	rec := m.selected()
	if rec == nil {
		return
	}
	for _, path := range []string{rec.Definition.StandardOutPath, rec.Definition.StandardErrorPath} {
		if path == "" {
			continue
		}
		lines, err := launchd.TailLog(path, launchd.DefaultTailLines)
		if err != nil {
			m.logs = append(m.logs, fmt.Sprintf("%s: not accessible", path))
			continue
		}
		m.logs = append(m.logs, fmt.Sprintf("== %s", path))
		m.logs = append(m.logs, lines...)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case scanMsg:
		m.scanning = false
		m.set = msg.set
		m.applyFilter()
		if msg.err != nil {
			m.status = fmt.Sprintf("Loaded %d services (warnings: %v)", len(m.set), msg.err)
		} else {
			m.status = fmt.Sprintf("Loaded %d services", len(m.set))
		}
		return m, nil

	case opMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.desc
		}
		if msg.rescan {
			m.scanning = true
			return m, m.scanCmd()
		}
		m.reloadLogs()
		return m, nil

	case rootEventMsg:
		m.scanning = true
		return m, tea.Batch(m.scanCmd(), m.waitForRootEvent())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.filter.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Filter):
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.reloadLogs()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.reloadLogs()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.scanning = true
		m.status = "Scanning..."
		return m, m.scanCmd()

	case key.Matches(msg, m.keys.Start):
		if rec := m.selected(); rec != nil {
			m.status = fmt.Sprintf("Starting %s...", rec.Definition.Label)
			return m, m.lifecycleCmd(fmt.Sprintf("Started %s", rec.Definition.Label), m.client.Start, rec.SourcePath)
		}
		m.status = "No service selected"
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		if rec := m.selected(); rec != nil {
			m.status = fmt.Sprintf("Stopping %s...", rec.Definition.Label)
			return m, m.lifecycleCmd(fmt.Sprintf("Stopped %s", rec.Definition.Label), m.client.Stop, rec.SourcePath)
		}
		m.status = "No service selected"
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if rec := m.selected(); rec != nil {
			m.status = fmt.Sprintf("Restarting %s...", rec.Definition.Label)
			return m, m.lifecycleCmd(fmt.Sprintf("Restarted %s", rec.Definition.Label), m.client.Restart, rec.SourcePath)
		}
		m.status = "No service selected"
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if rec := m.selected(); rec != nil {
			return m, m.clearCmd(rec.Definition)
		}
		m.status = "No service selected"
		return m, nil

	case key.Matches(msg, m.keys.Agent):
		m.status = "Creating user agent..."
		return m, m.createCmd(launchd.UserAgent)

	case key.Matches(msg, m.keys.Daemon):
		m.status = "Creating system daemon..."
		return m, m.createCmd(launchd.SystemDaemon)
	}

	return m, nil
}

func statusCell(status launchd.Status) string {
	switch status.State {
	case launchd.StateRunning:
		return runningStyle.Render(status.String())
	case launchd.StateStopped:
		return stoppedStyle.Render(status.String())
	default:
		return unknownStyle.Render(status.String())
	}
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("launchtui"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	labelW := 38
	statusW := 20
	programW := width - labelW - statusW - 4
	if programW < 10 {
		programW = 10
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %s", labelW, "Label", statusW, "Status", "Program")))
	b.WriteString("\n")

	visible := m.height - 18
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.filtered) && i < start+visible; i++ {
		rec := m.filtered[i]
		row := fmt.Sprintf("%-*s %-*s %s",
			labelW, truncate(rec.Definition.Label, labelW),
			statusW, truncate(rec.Status.String(), statusW),
			truncate(rec.Definition.Program, programW),
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(row))
		} else {
			// Re-render the status cell with its color
			plain := fmt.Sprintf("%-*s ", labelW, truncate(rec.Definition.Label, labelW))
			rest := fmt.Sprintf(" %s", truncate(rec.Definition.Program, programW))
			b.WriteString(plain + statusCell(rec.Status) + strings.Repeat(" ", max(0, statusW-len(rec.Status.String()))) + rest)
		}
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(statusStyle.Render("no services match"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(m.logView())
	b.WriteString("\n")

	status := m.status
	if m.scanning {
		status += " (scanning)"
	}
	b.WriteString(statusStyle.Render("Status: " + status))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("/ filter · ↑↓ move · s start · t stop · e restart · c clear logs · a new agent · d new daemon · r refresh · q quit"))

	return b.String()
}

func (m model) detailView() string {
	rec := m.selected()
	if rec == nil {
		return paneStyle.Render("No service selected")
	}

	def := rec.Definition
	var lines []string
	lines = append(lines,
		labelStyle.Render("Label: ")+def.Label,
		labelStyle.Render("Status: ")+rec.Status.String(),
		labelStyle.Render("Path: ")+rec.SourcePath,
		labelStyle.Render("Program: ")+def.Program,
	)

	if def.RunAtLoad {
		lines = append(lines, labelStyle.Render("RunAtLoad: ")+"true")
	}
	if def.KeepAlive.Enabled {
		lines = append(lines, labelStyle.Render("KeepAlive: ")+"true")
	}
	if def.WorkingDirectory != "" {
		lines = append(lines, labelStyle.Render("WorkingDirectory: ")+def.WorkingDirectory)
	}
	if def.StandardOutPath != "" {
		lines = append(lines, labelStyle.Render("StandardOutPath: ")+def.StandardOutPath)
	}
	if def.StandardErrorPath != "" {
		lines = append(lines, labelStyle.Render("StandardErrorPath: ")+def.StandardErrorPath)
	}
	if len(def.ProgramArguments) > 0 {
		lines = append(lines, labelStyle.Render("ProgramArguments: ")+strings.Join(def.ProgramArguments, " "))
	}

	// Declared keys the engine does not model are still shown
	var extra []string
	for k := range def.Raw {
		switch k {
		case "Label", "Program", "ProgramArguments", "RunAtLoad", "KeepAlive",
			"StandardOutPath", "StandardErrorPath", "WorkingDirectory",
			"UserName", "GroupName":
		default:
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		lines = append(lines, labelStyle.Render("Other keys: ")+strings.Join(extra, ", "))
	}

	return paneStyle.Render(strings.Join(lines, "\n"))
}

func (m model) logView() string {
	if len(m.logs) == 0 {
		return paneStyle.Render(statusStyle.Render("no log output"))
	}

	show := m.logs
	if len(show) > 10 {
		show = show[len(show)-10:]
	}
	return paneStyle.Render(strings.Join(show, "\n"))
}
