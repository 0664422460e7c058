// Package browser is the paginated, filtered, multi-select resource browser
// behind every listing screen. A Browser ties together the query store, the
// filter constraints and search debounce, the page fetcher, the row
// selection and the batch action workflow for one collection.
//
// Nothing in this package blocks or spawns goroutines. Callers run
// Fetcher.Do and Submitter.Submit wherever suits them and feed the results
// back on the goroutine that owns the Browser.
package browser

import (
	"time"

	"distrotui/internal/domain"
)

// Publisher receives browser events
type Publisher interface {
	Publish(event domain.DomainEvent)
}

// Config declares one listing screen
type Config struct {
	Collection  domain.Collection
	Constraints Constraints
	// Defaults are the filters a fresh screen starts with
	Defaults    Filters
	QuietPeriod time.Duration
	Publisher   Publisher
}

// Browser is one listing screen's state
type Browser[T Keyed] struct {
	Collection  domain.Collection
	Constraints Constraints
	Store       *Store
	Search      *Debouncer
	Fetcher     *Fetcher[T]
	Selection   *Selection[T]
	Workflow    *Workflow

	bar AddressBar
	pub Publisher
}

// New creates a browser reading pages from source and persisting its
// query state to bar
func New[T Keyed](cfg Config, bar AddressBar, source PageSource[T]) *Browser[T] {
	sel := NewSelection[T]()
	b := &Browser[T]{
		Collection:  cfg.Collection,
		Constraints: cfg.Constraints,
		Store:       NewStore(bar, cfg.Defaults),
		Search:      NewDebouncer(cfg.QuietPeriod),
		Fetcher:     NewFetcher[T](cfg.Collection, source),
		Selection:   sel,
		Workflow:    NewWorkflow(sel),
		bar:         bar,
		pub:         cfg.Publisher,
	}
	PublishTransitions(b.Workflow, cfg.Publisher)
	return b
}

// Init reads the address bar and issues the first request
func (b *Browser[T]) Init() Request {
	q := b.Store.Initialize()
	b.Search.Reset(q.Search)
	req := b.Fetcher.Refresh(q)
	b.Selection.Clear()
	return req
}

// Query returns the current query state
func (b *Browser[T]) Query() QueryState {
	return b.Store.State()
}

// SetPage moves to page n
func (b *Browser[T]) SetPage(n int) (Request, bool) {
	return b.sync(b.Store.SetPage(n))
}

// NextPage moves forward unless on the last page
func (b *Browser[T]) NextPage() (Request, bool) {
	q := b.Store.State()
	if count := b.Fetcher.Page().PageCount(); b.Fetcher.Loaded() && q.Page >= count {
		return Request{}, false
	}
	return b.SetPage(q.Page + 1)
}

// PrevPage moves back unless on the first page
func (b *Browser[T]) PrevPage() (Request, bool) {
	q := b.Store.State()
	if q.Page <= 1 {
		return Request{}, false
	}
	return b.SetPage(q.Page - 1)
}

// SetPageSize changes the page size
func (b *Browser[T]) SetPageSize(n int) (Request, bool) {
	return b.sync(b.Store.SetPageSize(n))
}

// CyclePageSize switches to the next allowed page size
func (b *Browser[T]) CyclePageSize() (Request, bool) {
	cur := b.Store.State().Size
	next := PageSizes[0]
	for i, size := range PageSizes {
		if size == cur {
			next = PageSizes[(i+1)%len(PageSizes)]
			break
		}
	}
	return b.SetPageSize(next)
}

// ToggleFilter flips a filter, respecting exclusion groups
func (b *Browser[T]) ToggleFilter(name string) (Request, bool) {
	next := b.Constraints.Toggle(b.Store.State().Filters, name)
	return b.sync(b.Store.SetFilters(next))
}

// Keystroke records search input and returns the pending settle to schedule
func (b *Browser[T]) Keystroke(raw string) Pending {
	return b.Search.Keystroke(raw)
}

// SettleSearch applies a debounced search value if it is still current
func (b *Browser[T]) SettleSearch(seq uint64) (Request, bool) {
	term, ok := b.Search.Settle(seq)
	if !ok {
		return Request{}, false
	}
	return b.sync(b.Store.SetSearch(term))
}

// FlushSearch applies the typed search immediately
func (b *Browser[T]) FlushSearch() (Request, bool) {
	term, ok := b.Search.Flush()
	if !ok {
		return Request{}, false
	}
	return b.sync(b.Store.SetSearch(term))
}

// Refresh re-reads the current page
func (b *Browser[T]) Refresh() Request {
	return b.Fetcher.Refresh(b.Store.State())
}

// Apply publishes a fetch result and resets the selection to the new rows
func (b *Browser[T]) Apply(res Result[T]) ApplyOutcome {
	outcome := b.Fetcher.Apply(res)
	switch outcome {
	case Applied:
		page := b.Fetcher.Page()
		b.Selection.SetVisible(page.Items)
		b.publish(domain.PageLoadedEvent{
			Collection: b.Collection,
			Seq:        res.Seq,
			Page:       page.Page,
			Items:      len(page.Items),
			Total:      page.Total,
		})
		if n := b.Fetcher.Overflow(); n > 0 {
			b.publish(domain.PageOverflowEvent{
				Collection: b.Collection,
				Seq:        res.Seq,
				Size:       page.Size,
				Dropped:    n,
			})
		}
	case Failed:
		b.publish(domain.FetchFailedEvent{Collection: b.Collection, Seq: res.Seq, Err: res.Err})
	case Stale:
		b.publish(domain.StaleDiscardedEvent{Collection: b.Collection, Seq: res.Seq, Latest: b.Fetcher.Latest()})
	}
	return outcome
}

// RequestBatch opens confirmation of an import or build of the selected rows
func (b *Browser[T]) RequestBatch(kind ActionKind, target func(T) domain.Target) error {
	rows := b.Selection.Selected()
	targets := make([]domain.Target, 0, len(rows))
	for _, row := range rows {
		targets = append(targets, target(row))
	}
	return b.Workflow.RequestConfirmation(Action{
		Kind:      kind,
		BatchKind: kind.BatchKind(),
		Targets:   targets,
	})
}

// Location returns the address the browser is persisted to
func (b *Browser[T]) Location() string {
	if s, ok := b.bar.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

func (b *Browser[T]) sync(q QueryState) (Request, bool) {
	req, changed := b.Fetcher.Sync(q)
	if !changed {
		return Request{}, false
	}
	b.Selection.Clear()
	b.publish(domain.QueryChangedEvent{Collection: b.Collection, Location: b.Location()})
	return req, true
}

func (b *Browser[T]) publish(e domain.DomainEvent) {
	if b.pub != nil {
		b.pub.Publish(e)
	}
}
