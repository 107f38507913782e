package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/events"
)

func typeLine(m model, line string) model {
	m.input.SetValue(line)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model)
}

func TestModel_TabCycling(t *testing.T) {
	m := initialModel(controller.New(), nil)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(model)
	assert.Equal(t, eventsView, m.currentView)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	assert.Equal(t, dashboardView, m.currentView)

	for m.currentView != consoleView {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(model)
	}
	assert.True(t, m.input.Focused())
}

func TestModel_ConsoleRefreshesTables(t *testing.T) {
	m := initialModel(controller.New(), nil)
	m.setView(consoleView)

	m = typeLine(m, "add_link A B 10")
	m = typeLine(m, "add_flow A B 4 1")

	assert.False(t, m.messageErr)
	assert.Equal(t, "Flow flow-A-B-0 added via A -> B", m.message)
	assert.Empty(t, m.input.Value())
	require.Len(t, m.linkTable.Rows(), 1)
	assert.Equal(t, "40.0%", m.linkTable.Rows()[0][3])
	require.Len(t, m.flowTable.Rows(), 1)
	assert.Equal(t, "flow-A-B-0", m.flowTable.Rows()[0][0])
	assert.Contains(t, m.output, "> add_flow A B 4 1")
}

func TestModel_ConsoleErrorsAndExit(t *testing.T) {
	m := initialModel(controller.New(), nil)
	m.setView(consoleView)

	m = typeLine(m, "add_flow A")
	assert.True(t, m.messageErr)
	assert.Contains(t, m.message, "Usage: add_flow")

	m.input.SetValue("exit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EventFeed(t *testing.T) {
	bus := events.NewBus(10)
	defer bus.Shutdown()
	sub, err := bus.Subscribe(context.Background())
	require.NoError(t, err)

	c := controller.New(controller.WithEvents(bus))
	m := initialModel(c, sub.Channel())

	c.AddSwitch("A")
	require.NoError(t, c.AddLink("A", "B", 10))

	for i := 0; i < 2; i++ {
		msg := waitForEvent(m.feed)()
		next, cmd := m.Update(msg)
		m = next.(model)
		assert.NotNil(t, cmd)
	}
	require.Len(t, m.events, 2)
	assert.Contains(t, m.events[0], "switch A added")
	assert.Contains(t, m.events[1], "link A-B up (10)")
	assert.Len(t, m.linkTable.Rows(), 1)

	sub.Unsubscribe()
	next, _ := m.Update(waitForEvent(m.feed)())
	assert.Nil(t, next.(model).feed)
}

func TestModel_View(t *testing.T) {
	m := initialModel(controller.New(), nil)
	assert.Equal(t, "Initializing...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(model)
	out := m.View()
	assert.Contains(t, out, "SDN Controller")
	assert.Contains(t, out, "Switches:  0")
}
