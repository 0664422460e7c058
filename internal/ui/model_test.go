package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distrotui/internal/domain"
	"distrotui/internal/eventbus"
	"distrotui/internal/session"
)

type recordingBus struct {
	events []domain.DomainEvent
}

func (b *recordingBus) Publish(e domain.DomainEvent) { b.events = append(b.events, e) }

func (b *recordingBus) Subscribe(domain.EventType, eventbus.EventHandler) func() { return func() {} }
func (b *recordingBus) SubscribeAll(eventbus.EventHandler) func()                { return func() {} }
func (b *recordingBus) Close()                                                   {}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(context.Background(), Options{
		Client:    testClient(t, nil, ""),
		Session:   session.New(false, "Test User"),
		Submitter: &fakeSubmitter{},
	})
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestModel_StartsOnDashboard(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, "/", m.Location())
	view := m.View()
	assert.Contains(t, view, "distrotui")
	assert.Contains(t, view, "Dashboard")
}

func TestModel_NavigateAndBack(t *testing.T) {
	m := newTestModel(t)

	m.Update(navigateMsg{to: "/packages/12"})
	assert.Equal(t, "/packages/12", m.Location())
	m.Update(navigateMsg{to: "/builds/5"})
	assert.Equal(t, "/builds/5", m.Location())
	assert.Equal(t, []string{"/", "/packages/12"}, m.history)

	m.Update(backspaceKey)
	assert.Equal(t, "/packages/12", m.Location())
	m.Update(backspaceKey)
	assert.Equal(t, "/", m.Location())

	_, cmd := m.Update(backspaceKey)
	st, ok := findMsg[statusMsg](collect(cmd))
	require.True(t, ok)
	assert.Equal(t, "Already at the start", st.text)
}

func TestModel_NavigateToUnknownLocation(t *testing.T) {
	m := newTestModel(t)
	gen := m.gen

	_, cmd := m.Update(navigateMsg{to: "/nowhere"})
	assert.Equal(t, "/", m.Location())
	assert.Equal(t, gen, m.gen, "a failed route keeps the current screen")

	st, ok := findMsg[statusMsg](collect(cmd))
	require.True(t, ok)
	assert.True(t, st.isErr)

	m.Update(st)
	assert.Contains(t, m.View(), "unknown location")
}

func TestModel_GoToPrompt(t *testing.T) {
	m := newTestModel(t)

	m.Update(runes("g"))
	require.True(t, m.prompting)
	assert.Equal(t, "/", m.prompt.Value())

	m.prompt.SetValue("builds/5")
	m.Update(enterKey)
	assert.False(t, m.prompting)
	assert.Equal(t, "/builds/5", m.Location())

	m.Update(runes("g"))
	m.Update(escKey)
	assert.False(t, m.prompting)
	assert.Equal(t, "/builds/5", m.Location())
}

func TestModel_StatusClears(t *testing.T) {
	m := newTestModel(t)

	m.Update(statusMsg{text: "first"})
	first := m.statusSeq
	m.Update(statusMsg{text: "second"})

	m.Update(clearStatusMsg{seq: first})
	assert.Equal(t, "second", m.statusText, "an older timer does not clear a newer status")

	m.Update(clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.statusText)
}

func TestModel_HelpFallsBackToPopup(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(runes("?"))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	pm, ok := msgs[0].(pagerMsg)
	require.True(t, ok)
	assert.Contains(t, pm.content, "/packages?search=kernel")

	// Without a program the pager cannot take over the terminal
	m.Update(pm)
	require.True(t, m.popupShown)
	assert.Contains(t, m.View(), "esc close")

	m.Update(downKey)
	assert.Equal(t, 1, m.popupOffset)
	m.Update(runes("g"))
	assert.False(t, m.prompting, "keys go to the popup while it is open")

	m.Update(escKey)
	assert.False(t, m.popupShown)
}

func TestModel_PagerFailureOpensPopup(t *testing.T) {
	m := newTestModel(t)
	m.pending = pagerMsg{title: "Logs", content: "line one"}

	m.Update(pagerDoneMsg{err: assert.AnError})
	require.True(t, m.popupShown)
	assert.Equal(t, "Logs", m.popupTitle)
	assert.Contains(t, m.View(), "line one")
}

func TestModel_PublishesNavigation(t *testing.T) {
	bus := &recordingBus{}
	m := NewModel(context.Background(), Options{
		Client:  testClient(t, nil, ""),
		Session: session.New(false, ""),
		Bus:     bus,
	})
	m.Init()
	m.Update(navigateMsg{to: "/imports/6"})

	var navigated []domain.NavigatedEvent
	for _, e := range bus.events {
		if n, ok := e.(domain.NavigatedEvent); ok {
			navigated = append(navigated, n)
		}
	}
	require.Len(t, navigated, 2)
	assert.Equal(t, "/", navigated[1].From)
	assert.Equal(t, "/imports/6", navigated[1].To)
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
