package browser

import (
	"context"
	"net/url"
	"strconv"

	"distrotui/internal/domain"
)

// Wire parameter names for listing requests
const (
	WireParamPage = "page"
	WireParamSize = "size"
	WireParamName = "name"
)

// PageSource reads one page of a collection. Item ids must already be in
// canonical string form, which domain.ID guarantees when decoding.
type PageSource[T any] interface {
	FetchPage(ctx context.Context, collection domain.Collection, params url.Values) (domain.Page[T], error)
}

// Request is one sequence-numbered page read
type Request struct {
	Seq    uint64
	Query  QueryState
	Params url.Values
}

// Result is the completion of a Request
type Result[T any] struct {
	Seq  uint64
	Page domain.Page[T]
	Err  error
}

// ApplyOutcome says what Apply did with a result
type ApplyOutcome int

const (
	Applied ApplyOutcome = iota
	Failed
	Stale
)

func (o ApplyOutcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	default:
		return "stale"
	}
}

// WireParams converts a query state into request parameters. Pages are
// one-based in QueryState and zero-based on the wire.
func WireParams(q QueryState) url.Values {
	params := url.Values{}
	params.Set(WireParamPage, strconv.Itoa(q.Page-1))
	params.Set(WireParamSize, strconv.Itoa(q.Size))
	if q.Search != "" {
		params.Set(WireParamName, q.Search)
	}
	q.Filters.Encode(params)
	return params
}

// Fetcher keeps the last published page of one collection. Requests are
// numbered; a result is published only if no newer request was issued
// after it, so the last query always wins regardless of completion order.
//
// Sync and Apply must be called from a single goroutine (the UI loop). Do
// touches no mutable state and may run anywhere.
type Fetcher[T any] struct {
	collection domain.Collection
	source     PageSource[T]

	seq     uint64
	issued  bool
	last    QueryState
	page    domain.Page[T]
	loaded   bool
	lastErr  error
	overflow int
}

// NewFetcher creates a fetcher for a collection
func NewFetcher[T any](collection domain.Collection, source PageSource[T]) *Fetcher[T] {
	return &Fetcher[T]{
		collection: collection,
		source:     source,
	}
}

// Collection returns the collection this fetcher reads
func (f *Fetcher[T]) Collection() domain.Collection {
	return f.collection
}

// Sync issues a request if q differs from the last requested state
func (f *Fetcher[T]) Sync(q QueryState) (Request, bool) {
	if f.issued && f.last.Equal(q) {
		return Request{}, false
	}
	return f.Refresh(q), true
}

// Refresh issues a request for q even if it has not changed
func (f *Fetcher[T]) Refresh(q QueryState) Request {
	f.seq++
	f.issued = true
	f.last = q
	return Request{Seq: f.seq, Query: q, Params: WireParams(q)}
}

// Do performs the read for req
func (f *Fetcher[T]) Do(ctx context.Context, req Request) Result[T] {
	page, err := f.source.FetchPage(ctx, f.collection, req.Params)
	return Result[T]{Seq: req.Seq, Page: page, Err: err}
}

// Apply publishes res if it answers the newest request. Errors keep the
// previously published page.
func (f *Fetcher[T]) Apply(res Result[T]) ApplyOutcome {
	if res.Seq != f.seq {
		return Stale
	}
	if res.Err != nil {
		f.lastErr = res.Err
		return Failed
	}
	page := res.Page
	if page.Size <= 0 {
		page.Size = f.last.Size
	}
	f.overflow = 0
	if len(page.Items) > page.Size {
		f.overflow = len(page.Items) - page.Size
		page.Items = page.Items[:page.Size]
	}
	f.page = page
	f.loaded = true
	f.lastErr = nil
	return Applied
}

// Page returns the last published page
func (f *Fetcher[T]) Page() domain.Page[T] {
	return f.page
}

// Overflow returns how many rows beyond the page size the last published
// page carried. They are dropped.
func (f *Fetcher[T]) Overflow() int {
	return f.overflow
}

// Items returns the rows of the last published page
func (f *Fetcher[T]) Items() []T {
	return f.page.Items
}

// Loaded reports whether any page has been published
func (f *Fetcher[T]) Loaded() bool {
	return f.loaded
}

// Loading reports whether the screen should show its first-load state.
// Refetches and refetch errors never bring it back.
func (f *Fetcher[T]) Loading() bool {
	return !f.loaded && f.lastErr == nil
}

// Err returns the error of the latest request, if it failed
func (f *Fetcher[T]) Err() error {
	return f.lastErr
}

// Latest returns the sequence number of the newest request
func (f *Fetcher[T]) Latest() uint64 {
	return f.seq
}

// LastQuery returns the query state of the newest request
func (f *Fetcher[T]) LastQuery() QueryState {
	return f.last
}
