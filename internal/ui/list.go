package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/ui/views"
)

// filterKey binds a key to a boolean filter
type filterKey struct {
	key   string
	name  string
	label string
}

// column renders one field of a row
type column[T any] struct {
	title string
	width int
	cell  func(T, *views.Styles) views.Cell
}

// listSpec declares a listing screen
type listSpec[T browser.Keyed] struct {
	title       string
	collection  domain.Collection
	constraints browser.Constraints
	defaults    browser.Filters
	filters     []filterKey
	columns     []column[T]
	searchable  bool
	// target enables multi-select and the batch import/build keys
	target func(T) domain.Target
	// newBatch enables the create-batch form
	newBatch domain.BatchKind
	open     func(T) string
}

// listScreen is a paginated, filtered listing backed by a browser
type listScreen[T browser.Keyed] struct {
	spec    listSpec[T]
	env     *env
	addr    *browser.Address
	browser *browser.Browser[T]

	search    textinput.Model
	searching bool
	spinner   spinner.Model
	paginator paginator.Model
	cursor    int

	confirm *confirmModal
	form    *batchForm
}

func newListScreen[T browser.Keyed](spec listSpec[T], e *env, addr *browser.Address) *listScreen[T] {
	b := browser.New[T](browser.Config{
		Collection:  spec.collection,
		Constraints: spec.constraints,
		Defaults:    spec.defaults,
		QuietPeriod: e.debounce,
		Publisher:   e.publisher,
	}, addr, api.NewPageSource[T](e.client))

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search by name"
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = e.styles.StatusLoading

	pg := paginator.New()
	pg.Type = paginator.Arabic

	return &listScreen[T]{
		spec:      spec,
		env:       e,
		addr:      addr,
		browser:   b,
		search:    ti,
		spinner:   sp,
		paginator: pg,
		confirm:   newConfirmModal(b.Workflow),
		form:      newBatchForm(b.Workflow),
	}
}

func (s *listScreen[T]) Title() string    { return s.spec.title }
func (s *listScreen[T]) Location() string { return s.addr.String() }

func (s *listScreen[T]) Capturing() bool {
	return s.searching || s.confirm.visible() || s.form.visible()
}

func (s *listScreen[T]) Keys() []key.Binding {
	bindings := []key.Binding{keys.Up, keys.Down, keys.PrevPage, keys.NextPage, keys.PageSize, keys.Open, keys.Refresh}
	if s.spec.searchable {
		bindings = append(bindings, keys.Search)
	}
	if s.spec.target != nil {
		bindings = append(bindings, keys.Toggle, keys.ToggleAll, keys.Clear, keys.Import, keys.Build)
	}
	if s.spec.newBatch != "" {
		bindings = append(bindings, keys.NewBatch)
	}
	return bindings
}

func (s *listScreen[T]) Init() tea.Cmd {
	req := s.browser.Init()
	s.search.SetValue(s.browser.Query().Search)
	return tea.Batch(s.fetch(req), s.spinner.Tick)
}

func (s *listScreen[T]) fetch(req browser.Request) tea.Cmd {
	f, ctx, gen := s.browser.Fetcher, s.env.ctx, s.env.gen
	return func() tea.Msg {
		return pageMsg[T]{gen: gen, res: f.Do(ctx, req)}
	}
}

// sync issues the fetch for a query change, if there was one
func (s *listScreen[T]) sync(req browser.Request, changed bool) tea.Cmd {
	if !changed {
		return nil
	}
	s.cursor = 0
	return s.fetch(req)
}

func (s *listScreen[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageMsg[T]:
		if msg.gen != s.env.gen {
			return nil
		}
		switch s.browser.Apply(msg.res) {
		case browser.Applied:
			page := s.browser.Fetcher.Page()
			if n := s.browser.Fetcher.Overflow(); n > 0 {
				s.env.logger.Warn("server returned more rows than the page size",
					"collection", s.spec.collection, "size", page.Size, "dropped", n)
			}
			s.paginator.TotalPages = max(1, page.PageCount())
			s.paginator.Page = s.browser.Query().Page - 1
			if s.cursor >= len(page.Items) {
				s.cursor = max(0, len(page.Items)-1)
			}
		case browser.Failed:
			s.env.logger.Warn("fetch failed", "collection", s.spec.collection, "error", msg.res.Err)
			return statusErr(fmt.Sprintf("Could not load %s: %s", s.spec.title, browser.ErrorMessage(msg.res.Err, "")))
		}
		return nil

	case settleMsg:
		if msg.gen != s.env.gen {
			return nil
		}
		return s.sync(s.browser.SettleSearch(msg.seq))

	case submitMsg:
		if msg.gen != s.env.gen {
			return nil
		}
		return finish(s.browser.Workflow, msg, queuedText(s.browser.Workflow.Action()))

	case spinner.TickMsg:
		if s.browser.Fetcher.Loaded() {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil
}

func (s *listScreen[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.form.visible() {
		return s.form.update(msg, s.env)
	}
	if s.confirm.visible() {
		return s.confirm.update(msg, s.env)
	}
	if s.searching {
		return s.handleSearchKey(msg)
	}

	items := s.browser.Fetcher.Items()
	switch {
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if s.cursor < len(items)-1 {
			s.cursor++
		}
	case key.Matches(msg, keys.NextPage):
		return s.sync(s.browser.NextPage())
	case key.Matches(msg, keys.PrevPage):
		return s.sync(s.browser.PrevPage())
	case key.Matches(msg, keys.PageSize):
		return s.sync(s.browser.CyclePageSize())
	case key.Matches(msg, keys.Refresh):
		return s.fetch(s.browser.Refresh())
	case key.Matches(msg, keys.Open):
		if s.cursor < len(items) && s.spec.open != nil {
			return navigate(s.spec.open(items[s.cursor]))
		}
	case key.Matches(msg, keys.Search) && s.spec.searchable:
		s.searching = true
		return s.search.Focus()
	case key.Matches(msg, keys.Toggle) && s.spec.target != nil:
		if s.cursor < len(items) {
			s.browser.Selection.ToggleRow(items[s.cursor].Key())
			if s.cursor < len(items)-1 {
				s.cursor++
			}
		}
	case key.Matches(msg, keys.ToggleAll) && s.spec.target != nil:
		s.browser.Selection.ToggleAll()
	case key.Matches(msg, keys.Clear) && s.spec.target != nil:
		s.browser.Selection.Clear()
	case key.Matches(msg, keys.Import) && s.spec.target != nil:
		return s.requestBatch(browser.ActionImport)
	case key.Matches(msg, keys.Build) && s.spec.target != nil:
		return s.requestBatch(browser.ActionBuild)
	case key.Matches(msg, keys.NewBatch) && s.spec.newBatch != "":
		if cmd := s.env.requireAuth(); cmd != nil {
			return cmd
		}
		return s.form.open(s.spec.newBatch, 80)
	default:
		for _, f := range s.spec.filters {
			if msg.String() == f.key {
				return s.sync(s.browser.ToggleFilter(f.name))
			}
		}
	}
	return nil
}

func (s *listScreen[T]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		committed := s.browser.Query().Search
		s.browser.Search.Reset(committed)
		s.search.SetValue(committed)
		s.searching = false
		s.search.Blur()
		return nil
	case "enter":
		s.searching = false
		s.search.Blur()
		return s.sync(s.browser.FlushSearch())
	}

	before := s.search.Value()
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() == before {
		return cmd
	}
	p := s.browser.Keystroke(s.search.Value())
	gen := s.env.gen
	settle := tea.Tick(p.After, func(time.Time) tea.Msg {
		return settleMsg{gen: gen, seq: p.Seq}
	})
	return tea.Batch(cmd, settle)
}

func (s *listScreen[T]) requestBatch(kind browser.ActionKind) tea.Cmd {
	if cmd := s.env.requireAuth(); cmd != nil {
		return cmd
	}
	s.form.active = false
	err := s.browser.RequestBatch(kind, s.spec.target)
	if err != nil {
		return statusErr(browser.ErrorMessage(err, kind))
	}
	s.confirm.title = fmt.Sprintf("%s %d packages?", kind.Verb(), len(s.browser.Workflow.Action().Targets))
	s.confirm.body = targetLines(s.browser.Workflow.Action().Targets, 10)
	s.confirm.field = nil
	// Selected rows come from the server listing, so skip the precheck
	s.confirm.options = browser.Options{ShouldPrecheck: false}
	return nil
}

func targetLines(targets []domain.Target, limit int) []string {
	var lines []string
	for i, t := range targets {
		if i == limit {
			lines = append(lines, fmt.Sprintf("  ... and %d more", len(targets)-limit))
			break
		}
		lines = append(lines, "  "+t.String())
	}
	return lines
}

func queuedText(a browser.Action) string {
	switch a.Kind {
	case browser.ActionCancel:
		return "Batch cancelled"
	case browser.ActionRetryFailed:
		return "Failed items queued again"
	case browser.ActionResetBuild:
		return "Latest build reset"
	}
	if a.Single {
		return fmt.Sprintf("%s queued", a.Kind.Verb())
	}
	return fmt.Sprintf("%s batch created", a.Kind.Verb())
}

func (s *listScreen[T]) View(width, height int) string {
	st := s.env.styles
	var b strings.Builder

	// Filters and search
	var bar []string
	if s.spec.searchable {
		if s.searching {
			bar = append(bar, s.search.View())
		} else if q := s.browser.Query().Search; q != "" {
			bar = append(bar, st.FilterOn.Render("search: "+q))
		} else {
			bar = append(bar, st.Filter.Render("/ search"))
		}
	}
	filters := s.browser.Query().Filters
	for _, f := range s.spec.filters {
		text := fmt.Sprintf("%s %s", f.key, f.label)
		if filters.Flag(f.name) {
			bar = append(bar, st.FilterOn.Render("["+text+"]"))
		} else {
			bar = append(bar, st.Filter.Render(" "+text+" "))
		}
	}
	if len(bar) > 0 {
		b.WriteString(strings.Join(bar, " "))
		b.WriteString("\n\n")
	}

	page := s.browser.Fetcher.Page()
	if !s.browser.Fetcher.Loaded() && s.browser.Fetcher.Err() == nil {
		b.WriteString(s.spinner.View() + " Loading " + s.spec.title + "...")
		return s.overlay(b.String(), width, height)
	}

	table := views.Table{
		Width:  width,
		Height: max(3, height-8),
		Cursor: s.cursor,
		Empty:  "Nothing here.",
	}
	for _, col := range s.spec.columns {
		table.Columns = append(table.Columns, views.Column{Title: col.title, Width: col.width})
	}
	for _, item := range page.Items {
		row := make([]views.Cell, len(s.spec.columns))
		for i, col := range s.spec.columns {
			row[i] = col.cell(item, st)
		}
		table.Rows = append(table.Rows, row)
	}
	if s.spec.target != nil {
		table.Marked = func(i int) bool {
			return i < len(page.Items) && s.browser.Selection.IsSelected(page.Items[i].Key())
		}
	}
	b.WriteString(table.Render(st))
	b.WriteString("\n\n")

	q := s.browser.Query()
	footer := fmt.Sprintf("%s  %d total · %d per page", s.paginator.View(), page.Total, q.Size)
	if n := s.browser.Selection.Count(); n > 0 {
		footer += st.Highlight.Render(fmt.Sprintf(" · %d selected", n))
	}
	if s.browser.Fetcher.Err() != nil {
		footer += st.StatusWarning.Render(" · showing stale data")
	}
	b.WriteString(st.Dim.Render(footer))

	return s.overlay(b.String(), width, height)
}

func (s *listScreen[T]) overlay(content string, width, height int) string {
	popup := views.NewPopupRenderer(s.env.styles)
	switch {
	case s.form.visible():
		return popup.RenderPopupOverlay(content, s.form.view(s.env.styles), height, width)
	case s.confirm.visible():
		return popup.RenderPopupOverlay(content, s.confirm.view(s.env.styles), height, width)
	}
	return content
}
