package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/ui/views"
)

// batchItem is one import or build of a batch
type batchItem struct {
	id      domain.ID
	pkg     string
	status  domain.Status
	created domain.Time
}

func importItems(imports []domain.Import) []batchItem {
	out := make([]batchItem, len(imports))
	for i, imp := range imports {
		out[i] = batchItem{id: imp.ID, pkg: packageName(imp.Package), status: imp.Status, created: imp.CreatedAt}
	}
	return out
}

func buildItems(builds []domain.Build) []batchItem {
	out := make([]batchItem, len(builds))
	for i, b := range builds {
		out[i] = batchItem{id: b.ID, pkg: packageName(b.Package), status: b.Status, created: b.CreatedAt}
	}
	return out
}

// batchScreen shows a batch split by outcome
type batchScreen struct {
	env   *env
	kind  domain.BatchKind
	id    domain.ID
	items []batchItem
	found bool
	err   error

	cursor   int
	bar      progress.Model
	workflow *browser.Workflow
	confirm  *confirmModal
}

func newBatchScreen(e *env, kind domain.BatchKind, id domain.ID) *batchScreen {
	w := browser.NewWorkflow(nil)
	browser.PublishTransitions(w, e.publisher)
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	return &batchScreen{env: e, kind: kind, id: id, bar: bar, workflow: w, confirm: newConfirmModal(w)}
}

func (s *batchScreen) Title() string {
	return fmt.Sprintf("Batch %s %s", strings.TrimSuffix(string(s.kind), "s"), s.id)
}

func (s *batchScreen) Location() string { return s.kind.Collection().ItemPath(s.id) }
func (s *batchScreen) Capturing() bool  { return s.confirm.visible() }

func (s *batchScreen) Keys() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Open, keys.Refresh, keys.Cancel, keys.Retry}
}

func (s *batchScreen) Init() tea.Cmd {
	client, kind, id := s.env.client, s.kind, s.id
	return s.env.load(func(ctx context.Context) (interface{}, error) {
		if kind == domain.BatchBuilds {
			b, err := client.GetBatchBuild(ctx, id)
			if err != nil {
				return nil, err
			}
			return buildItems(b.Builds), nil
		}
		b, err := client.GetBatchImport(ctx, id)
		if err != nil {
			return nil, err
		}
		return importItems(b.Imports), nil
	})
}

// ordered returns failed, then running, then succeeded items
func (s *batchScreen) ordered() (failed, running, succeeded []batchItem) {
	status := func(it batchItem) domain.Status { return it.status }
	failed, succeeded = browser.SplitOutcomes(s.items, status)
	for _, it := range s.items {
		if !it.status.IsFailure() && !it.status.IsSuccess() {
			running = append(running, it)
		}
	}
	return failed, running, succeeded
}

func (s *batchScreen) flat() []batchItem {
	failed, running, succeeded := s.ordered()
	out := append([]batchItem{}, failed...)
	out = append(out, running...)
	return append(out, succeeded...)
}

func (s *batchScreen) progress() browser.Progress {
	statuses := make([]domain.Status, len(s.items))
	for i, it := range s.items {
		statuses[i] = it.status
	}
	return browser.ProgressOf(statuses)
}

func (s *batchScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != s.env.gen {
			return nil
		}
		if msg.err != nil {
			s.err = msg.err
			return loadFailure(s.env, "Batch", s.id, msg.err)
		}
		s.err = nil
		s.found = true
		s.items = msg.value.([]batchItem)
		s.cursor = min(s.cursor, max(0, len(s.items)-1))
		return nil

	case submitMsg:
		if msg.gen != s.env.gen {
			return nil
		}
		return finish(s.workflow, msg, queuedText(s.workflow.Action()))

	case tea.KeyMsg:
		if s.confirm.visible() {
			return s.confirm.update(msg, s.env)
		}
		items := s.flat()
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(items)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Open):
			if s.cursor < len(items) {
				return navigate(s.kind.ItemCollection().ItemPath(items[s.cursor].id))
			}
		case key.Matches(msg, keys.Refresh):
			return s.Init()
		case key.Matches(msg, keys.Cancel):
			if !s.progress().CanCancel() {
				return status("Nothing left to cancel")
			}
			return s.request(browser.ActionCancel, fmt.Sprintf("Cancel the %d pending items of this batch?", s.progress().Pending()))
		case key.Matches(msg, keys.Retry):
			if !s.progress().CanRetry() {
				return status("Retry is available once the batch finished with failures")
			}
			return s.request(browser.ActionRetryFailed, fmt.Sprintf("Retry the %d failed items in a new batch?", s.progress().Failed))
		}
	}
	return nil
}

func (s *batchScreen) request(kind browser.ActionKind, title string) tea.Cmd {
	if cmd := s.env.requireAuth(); cmd != nil {
		return cmd
	}
	err := s.confirm.open(browser.Action{Kind: kind, BatchKind: s.kind, BatchID: s.id}, title)
	if err != nil {
		return statusErr(browser.ErrorMessage(err, kind))
	}
	return nil
}

func (s *batchScreen) View(width, height int) string {
	st := s.env.styles
	if !s.found {
		if s.err != nil {
			return st.StatusError.Render("Batch unavailable. ctrl+r to retry.")
		}
		return st.Dim.Render("Loading batch...")
	}

	p := s.progress()
	var b strings.Builder
	b.WriteString(st.Title.Render(s.Title()))
	b.WriteString("\n\n")
	ratio := 0.0
	if p.Total > 0 {
		ratio = float64(p.Percent()) / 100
	}
	b.WriteString(s.bar.ViewAs(ratio))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s · %s · %s\n\n",
		st.StatusSuccess.Render(fmt.Sprintf("%d succeeded", p.Succeeded)),
		st.StatusError.Render(fmt.Sprintf("%d failed", p.Failed)),
		st.StatusRunning.Render(fmt.Sprintf("%d pending", p.Pending()))))

	table := views.Table{
		Columns: []views.Column{{Title: "ID", Width: 7}, {Title: "Package"}, {Title: "Status", Width: 12}, {Title: "Created", Width: 16}},
		Width:   width,
		Height:  max(3, height-10),
		Cursor:  s.cursor,
		Empty:   "This batch is empty.",
	}
	for _, it := range s.flat() {
		table.Rows = append(table.Rows, []views.Cell{
			views.Text(it.id.String()), views.Text(it.pkg), statusCell(it.status, st), views.Text(it.created.String()),
		})
	}
	b.WriteString(table.Render(st))

	var hints []string
	if p.CanCancel() {
		hints = append(hints, "c cancel pending")
	}
	if p.CanRetry() {
		hints = append(hints, "r retry failed")
	}
	if len(hints) > 0 {
		b.WriteString("\n\n")
		b.WriteString(st.Help.Render(strings.Join(hints, " · ")))
	}

	content := b.String()
	if s.confirm.visible() {
		return views.NewPopupRenderer(st).RenderPopupOverlay(content, s.confirm.view(st), height, width)
	}
	return content
}
