package browser_test

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

type row struct {
	ID   domain.ID
	Name string
}

func (r row) Key() string { return r.ID.String() }

func rows(ids ...string) []row {
	out := make([]row, len(ids))
	for i, id := range ids {
		out[i] = row{ID: domain.ID(id), Name: "pkg-" + id}
	}
	return out
}

// fakeSource records every request and answers from a canned function
type fakeSource struct {
	mu       sync.Mutex
	requests []url.Values
	answer   func(params url.Values) (domain.Page[row], error)
}

func (s *fakeSource) FetchPage(_ context.Context, _ domain.Collection, params url.Values) (domain.Page[row], error) {
	s.mu.Lock()
	s.requests = append(s.requests, params)
	s.mu.Unlock()
	if s.answer == nil {
		return domain.Page[row]{Items: rows("1", "2", "3"), Total: 3, Size: 25}, nil
	}
	return s.answer(params)
}

func (s *fakeSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// fakeSubmitter answers every submission with id or err
type fakeSubmitter struct {
	calls []browser.ActionRequest
	id    domain.ID
	err   error
}

func (s *fakeSubmitter) Submit(_ context.Context, req browser.ActionRequest) (domain.ID, error) {
	s.calls = append(s.calls, req)
	return s.id, s.err
}

// detailError mimics a server error that carries a user-facing detail
type detailError struct {
	status int
	detail string
}

func (e *detailError) Error() string      { return fmt.Sprintf("server returned %d", e.status) }
func (e *detailError) UserDetail() string { return e.detail }

type recorder struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (r *recorder) Publish(e domain.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func address(t interface{ Fatalf(string, ...any) }, raw string) *browser.Address {
	a, err := browser.ParseAddress(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return a
}
