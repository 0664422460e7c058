package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/session"
	"distrotui/internal/ui/views"
)

// screen is one location of the app
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	Title() string
	// Location is the current address, including query parameters
	Location() string
	// Capturing is true while a text field or modal owns the keyboard
	Capturing() bool
	Keys() []key.Binding
}

// env is what every screen gets from the app
type env struct {
	ctx       context.Context
	gen       uint64
	client    *api.Client
	submitter browser.Submitter
	session   session.Context
	publisher browser.Publisher
	styles    *views.Styles
	logger    *slog.Logger
	pageSize  int
	debounce  time.Duration
}

func navigate(to string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func statusErr(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isErr: true} }
}

// requireAuth returns a status command when the session cannot mutate
func (e *env) requireAuth() tea.Cmd {
	if err := e.session.RequireAuth(); err != nil {
		return statusErr(err.Error())
	}
	return nil
}

// submit runs a confirmed action off the update loop
func (e *env) submit(req browser.ActionRequest) tea.Cmd {
	ctx, gen, s := e.ctx, e.gen, e.submitter
	return func() tea.Msg {
		id, err := s.Submit(ctx, req)
		return submitMsg{gen: gen, id: id, err: err}
	}
}

// load runs fn off the update loop and returns its value as a loadedMsg
func (e *env) load(fn func(ctx context.Context) (interface{}, error)) tea.Cmd {
	ctx, gen := e.ctx, e.gen
	return func() tea.Msg {
		v, err := fn(ctx)
		return loadedMsg{gen: gen, value: v, err: err}
	}
}
