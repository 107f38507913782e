package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/events"
)

type view int

const (
	dashboardView view = iota
	linksView
	flowsView
	consoleView
	eventsView
	viewCount
)

var viewNames = []string{"Dashboard", "Links", "Flows", "Console", "Events"}

const (
	maxOutputLines = 200
	maxEventLines  = 100
)

type model struct {
	controller  *controller.Controller
	feed        <-chan events.Event
	currentView view
	input       textinput.Model
	linkTable   table.Model
	flowTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	output      []string
	events      []string
	message     string
	messageErr  bool
	startTime   time.Time
}

type tickMsg time.Time

// eventMsg carries one event read from the bus subscription
type eventMsg events.Event

// feedClosedMsg reports that the subscription channel closed
type feedClosedMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return eventMsg(e)
	}
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#005FFF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(c *controller.Controller, feed <-chan events.Event) model {
	ti := textinput.New()
	ti.Placeholder = "add_flow A D 2 1"
	ti.CharLimit = 200
	ti.Width = 60

	m := model{
		controller:  c,
		feed:        feed,
		currentView: dashboardView,
		input:       ti,
		linkTable: newTable([]table.Column{
			{Title: "Link", Width: 16},
			{Title: "Capacity", Width: 10},
			{Title: "Used", Width: 10},
			{Title: "Util", Width: 8},
			{Title: "Flows", Width: 30},
		}),
		flowTable: newTable([]table.Column{
			{Title: "ID", Width: 18},
			{Title: "Path", Width: 28},
			{Title: "BW", Width: 8},
			{Title: "Prio", Width: 6},
			{Title: "State", Width: 10},
			{Title: "Reroutes", Width: 8},
		}),
		help:      help.New(),
		keys:      keys,
		startTime: time.Now(),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		waitForEvent(m.feed),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		return m, tickCmd()

	case eventMsg:
		m.appendEvent(events.Event(msg))
		m.refresh()
		return m, waitForEvent(m.feed)

	case feedClosedMsg:
		m.feed = nil
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.currentView + viewCount - 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == consoleView {
				if m.runCommand() {
					return m, tea.Quit
				}
				return m, nil
			}
		}
	}

	switch m.currentView {
	case consoleView:
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	case linksView:
		m.linkTable, cmd = m.linkTable.Update(msg)
		cmds = append(cmds, cmd)
	case flowsView:
		m.flowTable, cmd = m.flowTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setView(v view) {
	m.currentView = v
	if v == consoleView {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// runCommand executes the console line and reports whether to quit
func (m *model) runCommand() bool {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line == "" {
		return false
	}

	m.appendOutput("> " + line)
	out, err := execute(m.controller, line)
	switch {
	case errors.Is(err, errExit):
		return true
	case err != nil:
		m.message = err.Error()
		m.messageErr = true
	default:
		m.message = firstLine(out)
		m.messageErr = false
		if out != "" {
			m.appendOutput(out)
		}
	}
	m.refresh()
	return false
}

func (m *model) appendOutput(text string) {
	m.output = append(m.output, strings.Split(text, "\n")...)
	if over := len(m.output) - maxOutputLines; over > 0 {
		m.output = m.output[over:]
	}
}

func (m *model) appendEvent(e events.Event) {
	m.events = append(m.events, describeEvent(e))
	if over := len(m.events) - maxEventLines; over > 0 {
		m.events = m.events[over:]
	}
}

// refresh rebuilds the link and flow tables from the controller
func (m *model) refresh() {
	stats := m.controller.ShowLinkStats()
	linkRows := make([]table.Row, 0, len(stats))
	for _, s := range stats {
		linkRows = append(linkRows, table.Row{
			s.Src + " → " + s.Dst,
			fmt.Sprintf("%g", s.Capacity),
			fmt.Sprintf("%g", s.Utilization),
			fmt.Sprintf("%.1f%%", s.Percent()),
			strings.Join(s.FlowIDs, ","),
		})
	}
	m.linkTable.SetRows(linkRows)

	fs := m.controller.Flows()
	flowRows := make([]table.Row, 0, len(fs))
	for _, f := range fs {
		flowRows = append(flowRows, table.Row{
			f.ID,
			strings.Join(f.Path, ">"),
			fmt.Sprintf("%g", f.Bandwidth),
			fmt.Sprintf("%g", f.Priority),
			f.State.String(),
			fmt.Sprintf("%d", f.Reroutes),
		})
	}
	m.flowTable.SetRows(flowRows)
}

func describeEvent(e events.Event) string {
	stamp := e.Time.Format("15:04:05")
	switch e.Topic {
	case events.TopicSwitchAdded:
		return fmt.Sprintf("%s #%d switch %s added", stamp, e.Seq, e.Switch)
	case events.TopicLinkAdded:
		return fmt.Sprintf("%s #%d link %s-%s up (%g)", stamp, e.Seq, e.Src, e.Dst, e.Bandwidth)
	case events.TopicLinkRemoved:
		return fmt.Sprintf("%s #%d link %s-%s down (%s)", stamp, e.Seq, e.Src, e.Dst, e.Reason)
	case events.TopicFlowAdmitted:
		return fmt.Sprintf("%s #%d flow %s admitted via %s", stamp, e.Seq, e.FlowID, strings.Join(e.Path, ">"))
	case events.TopicFlowRerouted:
		return fmt.Sprintf("%s #%d flow %s rerouted via %s", stamp, e.Seq, e.FlowID, strings.Join(e.Path, ">"))
	case events.TopicFlowRemoved:
		return fmt.Sprintf("%s #%d flow %s removed (%s)", stamp, e.Seq, e.FlowID, e.Reason)
	}
	return fmt.Sprintf("%s #%d %s", stamp, e.Seq, e.Topic)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("SDN Controller"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case linksView:
		s.WriteString(m.renderTable("Link Utilization", m.linkTable))
	case flowsView:
		s.WriteString(m.renderTable("Active Flows", m.flowTable))
	case consoleView:
		s.WriteString(m.renderConsole())
	case eventsView:
		s.WriteString(m.renderEvents())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	rendered := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.currentView {
			rendered = append(rendered, activeTabStyle.Render(name))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderDashboard() string {
	snap := m.controller.VisualizeTopology()
	fs := m.controller.Flows()

	var rerouted int
	for _, f := range fs {
		if f.Reroutes > 0 {
			rerouted++
		}
	}

	var hot []string
	for _, s := range m.controller.ShowLinkStats() {
		if s.Ratio >= 0.8 {
			hot = append(hot, warnStyle.Render(fmt.Sprintf("%s → %s  %.0f%%", s.Src, s.Dst, s.Percent())))
		}
	}
	if len(hot) == 0 {
		hot = []string{"none"}
	}

	stats := fmt.Sprintf("Topology\n────────\nSwitches:  %d\nLinks:     %d\nFlows:     %d\nRerouted:  %d\nEntries:   %d\nUptime:    %s",
		len(snap.Switches),
		len(snap.Links),
		len(fs),
		rerouted,
		len(m.controller.FlowTable()),
		time.Since(m.startTime).Round(time.Second),
	)
	congested := "Links ≥ 80%\n───────────\n" + strings.Join(hot, "\n")

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(stats),
		statsBoxStyle.Render(congested),
	))
}

func (m model) renderTable(title string, t table.Model) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n\n")
	s.WriteString(t.View())
	return contentStyle.Render(s.String())
}

func (m model) renderConsole() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Console"))
	s.WriteString("\n\n")

	lines := m.output
	if height := m.height - 16; height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	if len(lines) > 0 {
		s.WriteString(outputBoxStyle.Render(strings.Join(lines, "\n")))
		s.WriteString("\n\n")
	}

	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("type 'help' for commands"))
	return contentStyle.Render(s.String())
}

func (m model) renderEvents() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Event Stream"))
	s.WriteString("\n\n")
	if len(m.events) == 0 {
		s.WriteString("No events yet")
	} else {
		s.WriteString(strings.Join(m.events, "\n"))
	}
	return contentStyle.Render(s.String())
}
