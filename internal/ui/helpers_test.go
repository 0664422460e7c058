package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/session"
	"distrotui/internal/ui/views"
)

const testPackages = `{"items":[
{"id":12,"name":"bash","responsible_username":"alice"},
{"id":13,"name":"kernel","responsible_username":"bob","is_module":true},
{"id":14,"name":"glibc","responsible_username":"carol"}],"total":3,"page":0,"size":25}`

// fakeAPI answers GET requests from canned bodies keyed by path
type fakeAPI struct {
	*httptest.Server
	mu      sync.Mutex
	queries []string
}

func newFakeAPI(t *testing.T, bodies map[string]string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Path+"?"+r.URL.RawQuery)
		f.mu.Unlock()
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// fakeSubmitter records submissions and answers with id or err
type fakeSubmitter struct {
	mu    sync.Mutex
	calls []browser.ActionRequest
	id    domain.ID
	err   error
}

func (s *fakeSubmitter) Submit(_ context.Context, req browser.ActionRequest) (domain.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	return s.id, s.err
}

// detailError carries a server message like api.Error does
type detailError struct{ detail string }

func (e *detailError) Error() string      { return fmt.Sprintf("server said %s", e.detail) }
func (e *detailError) UserDetail() string { return e.detail }

func testClient(t *testing.T, srv *fakeAPI, token string) *api.Client {
	t.Helper()
	url := "http://127.0.0.1:1/api"
	if srv != nil {
		url = srv.URL + "/api"
	}
	client, err := api.NewClient(&api.Config{APIURL: url, Timeout: 5 * time.Second, Token: token})
	require.NoError(t, err)
	return client
}

func testEnv(t *testing.T, srv *fakeAPI, authenticated bool) (*env, *fakeSubmitter) {
	t.Helper()
	token := ""
	if authenticated {
		token = "secret"
	}
	sub := &fakeSubmitter{}
	return &env{
		ctx:       context.Background(),
		gen:       1,
		client:    testClient(t, srv, token),
		submitter: sub,
		session:   session.New(authenticated, "Test User"),
		styles:    views.NewStyles(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		pageSize:  browser.DefaultPageSize,
		debounce:  time.Millisecond,
	}, sub
}

// loadList runs the first fetch of a list screen synchronously
func loadList[T browser.Keyed](t *testing.T, s *listScreen[T]) {
	t.Helper()
	req := s.browser.Init()
	s.Update(s.fetch(req)())
	require.True(t, s.browser.Fetcher.Loaded(), "page should be loaded")
}

func packagesScreen(t *testing.T, srv *fakeAPI, authenticated bool) (*listScreen[domain.Package], *fakeSubmitter) {
	t.Helper()
	e, sub := testEnv(t, srv, authenticated)
	addr, err := browser.ParseAddress("/packages")
	require.NoError(t, err)
	s := newListScreen(packagesSpec(), e, addr)
	loadList(t, s)
	return s, sub
}

// collect runs cmd and flattens batches. Only use it on commands that do
// not wait on timers.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[M any](msgs []tea.Msg) (M, bool) {
	for _, m := range msgs {
		if v, ok := m.(M); ok {
			return v, true
		}
	}
	var zero M
	return zero, false
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey     = tea.KeyMsg{Type: tea.KeyEnter}
	escKey       = tea.KeyMsg{Type: tea.KeyEsc}
	spaceKey     = tea.KeyMsg{Type: tea.KeySpace}
	backspaceKey = tea.KeyMsg{Type: tea.KeyBackspace}
	downKey      = tea.KeyMsg{Type: tea.KeyDown}
)
