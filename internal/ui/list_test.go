package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

func TestListScreen_LoadsFirstPage(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	s, _ := packagesScreen(t, srv, false)

	queries := srv.seen()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "page=0")
	assert.Contains(t, queries[0], "size=25")
	assert.Contains(t, queries[0], "exclude_modular_candidates=true")

	view := s.View(120, 30)
	assert.Contains(t, view, "bash")
	assert.Contains(t, view, "kernel")
	assert.Contains(t, view, "3 total")
	assert.Equal(t, "Packages", s.Title())
}

func TestListScreen_FilterTogglesAreExclusive(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	s, _ := packagesScreen(t, srv, false)

	cmd := s.Update(runes("1"))
	require.NotNil(t, cmd, "turning on a filter should refetch")
	assert.True(t, s.browser.Query().Filters.Flag(api.FilterModulesOnly))

	s.Update(runes("2"))
	filters := s.browser.Query().Filters
	assert.True(t, filters.Flag(api.FilterNonModulesOnly))
	assert.False(t, filters.Flag(api.FilterModulesOnly), "peer filter should be switched off")

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	s.Update(msgs[0])
	assert.Contains(t, srv.seen()[1], "modules_only=true")
}

func TestListScreen_IgnoresOtherGenerations(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	s, _ := packagesScreen(t, srv, false)

	stale := pageMsg[domain.Package]{gen: s.env.gen + 1, res: browser.Result[domain.Package]{
		Seq:  99,
		Page: domain.Page[domain.Package]{Items: []domain.Package{{ID: "1", Name: "other"}}, Total: 1},
	}}
	assert.Nil(t, s.Update(stale))
	assert.NotContains(t, s.View(120, 30), "other")
}

func TestListScreen_SelectionAndBatchBuild(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	s, sub := packagesScreen(t, srv, true)
	sub.id = "42"

	s.Update(spaceKey)
	s.Update(spaceKey)
	assert.Equal(t, 2, s.browser.Selection.Count())
	assert.Equal(t, 2, s.cursor, "cursor advances after selecting")

	assert.Nil(t, s.Update(runes("B")))
	require.True(t, s.Capturing(), "confirmation should own the keyboard")
	assert.Contains(t, s.View(120, 30), "Build 2 packages?")

	cmd := s.Update(runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, browser.PhaseSubmitting, s.browser.Workflow.Phase())

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	followUp := collect(s.Update(msgs[0]))

	require.Len(t, sub.calls, 1)
	req := sub.calls[0]
	assert.Equal(t, browser.ActionBuild, req.Kind)
	assert.Equal(t, domain.BatchBuilds, req.BatchKind)
	assert.False(t, req.Options.ShouldPrecheck)
	assert.ElementsMatch(t, []domain.Target{{PackageID: "12"}, {PackageID: "13"}}, req.Targets)

	nav, ok := findMsg[navigateMsg](followUp)
	require.True(t, ok)
	assert.Equal(t, "/batches/builds/42", nav.to)
	assert.Equal(t, 0, s.browser.Selection.Count(), "selection is cleared after success")
	assert.False(t, s.Capturing())
}

func TestListScreen_BatchNeedsSelection(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	s, _ := packagesScreen(t, srv, true)

	msgs := collect(s.Update(runes("I")))
	st, ok := findMsg[statusMsg](msgs)
	require.True(t, ok)
	assert.True(t, st.isErr)
	assert.Equal(t, "Select at least one row first.", st.text)
	assert.False(t, s.Capturing())
}

func TestListScreen_BatchNeedsToken(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	s, sub := packagesScreen(t, srv, false)

	s.Update(spaceKey)
	msgs := collect(s.Update(runes("B")))
	st, ok := findMsg[statusMsg](msgs)
	require.True(t, ok)
	assert.True(t, st.isErr)
	assert.Contains(t, st.text, "requires an API token")
	assert.False(t, s.Capturing())
	assert.Empty(t, sub.calls)
}

func TestListScreen_FailedBatchStaysOpen(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	s, sub := packagesScreen(t, srv, true)
	sub.err = &detailError{detail: "package bash is already queued"}

	s.Update(spaceKey)
	s.Update(runes("I"))
	msgs := collect(s.Update(enterKey))
	require.Len(t, msgs, 1)
	assert.Nil(t, s.Update(msgs[0]))

	assert.Equal(t, browser.PhaseConfirming, s.browser.Workflow.Phase())
	assert.True(t, s.Capturing())
	assert.Contains(t, s.View(120, 30), "package bash is already queued")
	assert.Equal(t, 1, s.browser.Selection.Count(), "selection survives a failure")

	s.Update(escKey)
	assert.False(t, s.Capturing())
}

func TestListScreen_SearchResetsPage(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	e, _ := testEnv(t, srv, false)
	addr, err := browser.ParseAddress("/packages?page=3")
	require.NoError(t, err)
	s := newListScreen(packagesSpec(), e, addr)
	loadList(t, s)
	require.Equal(t, 3, s.browser.Query().Page)

	s.Update(runes("/"))
	require.True(t, s.Capturing())
	s.Update(runes("k"))
	s.Update(runes("e"))

	cmd := s.Update(enterKey)
	require.NotNil(t, cmd)
	assert.False(t, s.Capturing())

	q := s.browser.Query()
	assert.Equal(t, "ke", q.Search)
	assert.Equal(t, 1, q.Page)
	assert.True(t, strings.Contains(s.Location(), "search=ke"), s.Location())
}

func TestListScreen_EscAbandonsPendingSearch(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/packages/": testPackages})
	e, _ := testEnv(t, srv, false)
	addr, err := browser.ParseAddress("/packages?search=bash")
	require.NoError(t, err)
	s := newListScreen(packagesSpec(), e, addr)
	loadList(t, s)
	fetches := len(srv.seen())

	s.Update(runes("/"))
	settle, ok := findMsg[settleMsg](collect(s.Update(runes("k"))))
	require.True(t, ok)
	assert.Equal(t, "bashk", s.search.Value())

	assert.Nil(t, s.Update(escKey))
	assert.False(t, s.Capturing())
	assert.Equal(t, "bash", s.search.Value(), "the box shows the committed term again")
	assert.False(t, s.browser.Search.IsPending())

	assert.Nil(t, s.Update(settle), "an abandoned keystroke never settles")
	assert.Equal(t, "bash", s.browser.Query().Search)
	assert.Len(t, srv.seen(), fetches)
}

func TestListScreen_NewBatchForm(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{"/api/batches/imports/": `{"items":[],"total":0,"page":0,"size":25}`})
	e, sub := testEnv(t, srv, true)
	sub.id = "7"
	addr, err := browser.ParseAddress("/batches/imports")
	require.NoError(t, err)
	s := newListScreen(batchImportsSpec(), e, addr)
	loadList(t, s)

	s.Update(runes("n"))
	require.True(t, s.Capturing(), "the form should be open")
	assert.Equal(t, browser.PhaseConfirming, s.browser.Workflow.Phase())

	ctrlS := tea.KeyMsg{Type: tea.KeyCtrlS}
	assert.Nil(t, s.Update(ctrlS), "an empty list is rejected locally")
	assert.Contains(t, s.View(120, 40), "Empty package list not allowed!")
	assert.Empty(t, sub.calls)

	s.Update(runes("bash"))
	s.Update(enterKey)
	s.Update(enterKey)
	s.Update(runes(" kernel "))

	msgs := collect(s.Update(ctrlS))
	require.Len(t, msgs, 1)
	nav, ok := findMsg[navigateMsg](collect(s.Update(msgs[0])))
	require.True(t, ok)
	assert.Equal(t, "/batches/imports/7", nav.to)

	require.Len(t, sub.calls, 1)
	req := sub.calls[0]
	assert.Equal(t, browser.ActionImport, req.Kind)
	assert.True(t, req.Options.ShouldPrecheck)
	assert.Equal(t, []domain.Target{{PackageName: "bash"}, {PackageName: "kernel"}}, req.Targets)
	assert.False(t, s.Capturing())
}
