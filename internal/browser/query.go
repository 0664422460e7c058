package browser

import (
	"net/url"
	"strconv"
	"strings"
)

// Page size limits
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// PageSizes is the set of page sizes a listing can be shown with
var PageSizes = []int{25, 50, 100}

// Address parameters that persist a QueryState
const (
	ParamPage   = "page"
	ParamSize   = "size"
	ParamSearch = "search"
)

// QueryState is the view state of one listing screen. Values are never
// mutated in place; every change produces a new QueryState.
type QueryState struct {
	Page    int // one-based
	Size    int
	Search  string // "" means no search filter
	Filters Filters
}

// DefaultQuery returns the state of a listing opened without parameters
func DefaultQuery(filters Filters) QueryState {
	return QueryState{
		Page:    1,
		Size:    DefaultPageSize,
		Filters: filters,
	}
}

// Equal reports whether two states would produce the same request
func (q QueryState) Equal(other QueryState) bool {
	return q.Page == other.Page &&
		q.Size == other.Size &&
		q.Search == other.Search &&
		q.Filters.Equal(other.Filters)
}

// ParsePage reads a one-based page number; anything unusable becomes 1
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePageSize reads a page size from an address parameter
func ParsePageSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageSize
	}
	return NormalizePageSize(n)
}

// NormalizePageSize maps any integer onto PageSizes. Zero, negative and
// below-minimum sizes become the smallest size, sizes above the maximum are
// clamped, and anything in between snaps down to the nearest allowed size.
func NormalizePageSize(n int) int {
	if n > MaxPageSize {
		return MaxPageSize
	}
	size := PageSizes[0]
	for _, allowed := range PageSizes {
		if allowed <= n {
			size = allowed
		}
	}
	return size
}

// AddressBar is where a screen's QueryState is persisted
type AddressBar interface {
	Params() url.Values
	SetParams(params url.Values)
}

// Store holds the QueryState of one screen and mirrors it to the address bar.
// It never fetches; callers hand the returned state to a Fetcher.
type Store struct {
	bar      AddressBar
	defaults Filters
	state    QueryState
}

// NewStore creates a store over the given address bar
func NewStore(bar AddressBar, defaults Filters) *Store {
	return &Store{
		bar:      bar,
		defaults: defaults,
		state:    DefaultQuery(defaults),
	}
}

// Initialize reads page, size and search from the address bar
func (s *Store) Initialize() QueryState {
	params := s.bar.Params()
	s.state = QueryState{
		Page:    ParsePage(params.Get(ParamPage)),
		Size:    ParsePageSize(params.Get(ParamSize)),
		Search:  NormalizeSearch(params.Get(ParamSearch)),
		Filters: s.defaults,
	}
	return s.state
}

// State returns the current query state
func (s *Store) State() QueryState {
	return s.state
}

// SetPage moves to page n
func (s *Store) SetPage(n int) QueryState {
	if n < 1 {
		n = 1
	}
	next := s.state
	next.Page = n
	return s.commit(next)
}

// SetPageSize changes the page size and moves to the page that holds the
// first item of the current one
func (s *Store) SetPageSize(n int) QueryState {
	next := s.state
	next.Size = NormalizePageSize(n)
	if next.Size != s.state.Size {
		next.Page = (s.state.Page-1)*s.state.Size/next.Size + 1
	}
	return s.commit(next)
}

// SetPagination changes page and size together, as a pager control does
func (s *Store) SetPagination(page, size int) QueryState {
	if page < 1 {
		page = 1
	}
	next := s.state
	next.Page = page
	next.Size = NormalizePageSize(size)
	return s.commit(next)
}

// SetFilter sets one boolean filter and returns to the first page
func (s *Store) SetFilter(name string, value bool) QueryState {
	return s.SetFilters(s.state.Filters.WithFlag(name, value))
}

// SetFilterValue sets one string filter and returns to the first page
func (s *Store) SetFilterValue(name, value string) QueryState {
	return s.SetFilters(s.state.Filters.WithValue(name, value))
}

// SetFilters replaces every filter at once and returns to the first page
func (s *Store) SetFilters(filters Filters) QueryState {
	next := s.state
	next.Filters = filters
	if !filters.Equal(s.state.Filters) {
		next.Page = 1
	}
	return s.commit(next)
}

// SetSearch sets the search term and returns to the first page
func (s *Store) SetSearch(term string) QueryState {
	next := s.state
	next.Search = NormalizeSearch(term)
	if next.Search != s.state.Search {
		next.Page = 1
	}
	return s.commit(next)
}

func (s *Store) commit(next QueryState) QueryState {
	s.state = next
	s.write()
	return next
}

// write mirrors page, size and search back to the address bar, keeping any
// other parameters the address carries.
func (s *Store) write() {
	params := url.Values{}
	for k, v := range s.bar.Params() {
		params[k] = append([]string(nil), v...)
	}
	params.Set(ParamPage, strconv.Itoa(s.state.Page))
	params.Set(ParamSize, strconv.Itoa(s.state.Size))
	if s.state.Search != "" {
		params.Set(ParamSearch, s.state.Search)
	} else {
		params.Del(ParamSearch)
	}
	s.bar.SetParams(params)
}

// Address is a location made of a path and query parameters. It satisfies
// AddressBar so a store can be driven without a screen.
type Address struct {
	Path   string
	Values url.Values
}

// ParseAddress parses "/packages?page=2&size=50"
func ParseAddress(raw string) (*Address, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return &Address{Path: path, Values: u.Query()}, nil
}

// Params returns a copy of the address parameters
func (a *Address) Params() url.Values {
	out := url.Values{}
	for k, v := range a.Values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// SetParams replaces the address parameters
func (a *Address) SetParams(params url.Values) {
	a.Values = params
}

func (a *Address) String() string {
	if len(a.Values) == 0 {
		return a.Path
	}
	return a.Path + "?" + a.Values.Encode()
}
