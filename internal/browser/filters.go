package browser

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Filters is an immutable set of named boolean and string filters
type Filters struct {
	flags  map[string]bool
	values map[string]string
}

// NewFilters returns filters with the given flags set
func NewFilters(flags map[string]bool) Filters {
	f := Filters{flags: make(map[string]bool, len(flags))}
	for k, v := range flags {
		f.flags[k] = v
	}
	return f
}

// Flag returns the value of a boolean filter; unset flags are false
func (f Filters) Flag(name string) bool {
	return f.flags[name]
}

// Value returns the value of a string filter
func (f Filters) Value(name string) string {
	return f.values[name]
}

// HasFlag reports whether the flag has been set explicitly
func (f Filters) HasFlag(name string) bool {
	_, ok := f.flags[name]
	return ok
}

// WithFlag returns a copy with one flag changed
func (f Filters) WithFlag(name string, value bool) Filters {
	next := f.clone()
	next.flags[name] = value
	return next
}

// WithValue returns a copy with one string filter changed; "" removes it
func (f Filters) WithValue(name, value string) Filters {
	next := f.clone()
	if value == "" {
		delete(next.values, name)
	} else {
		next.values[name] = value
	}
	return next
}

// Active returns the names of the flags that are true, sorted
func (f Filters) Active() []string {
	var names []string
	for name, on := range f.flags {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Equal compares two filter sets; an unset flag equals false
func (f Filters) Equal(other Filters) bool {
	for name := range f.flags {
		if f.Flag(name) != other.Flag(name) {
			return false
		}
	}
	for name := range other.flags {
		if f.Flag(name) != other.Flag(name) {
			return false
		}
	}
	if len(f.values) != len(other.values) {
		return false
	}
	for name, v := range f.values {
		if other.values[name] != v {
			return false
		}
	}
	return true
}

// Encode adds the filters to request parameters. Explicitly set flags are
// sent as true/false, string filters only when non-empty.
func (f Filters) Encode(params url.Values) {
	for name, on := range f.flags {
		params.Set(name, strconv.FormatBool(on))
	}
	for name, v := range f.values {
		params.Set(name, v)
	}
}

func (f Filters) clone() Filters {
	next := Filters{
		flags:  make(map[string]bool, len(f.flags)+1),
		values: make(map[string]string, len(f.values)+1),
	}
	for k, v := range f.flags {
		next.flags[k] = v
	}
	for k, v := range f.values {
		next.values[k] = v
	}
	return next
}

// Constraints declares groups of filters of which at most one may be true
type Constraints struct {
	groups [][]string
}

// NewConstraints declares the given mutual-exclusion groups
func NewConstraints(groups ...[]string) Constraints {
	c := Constraints{}
	for _, g := range groups {
		c.groups = append(c.groups, append([]string(nil), g...))
	}
	return c
}

// Groups returns the declared groups
func (c Constraints) Groups() [][]string {
	return c.groups
}

// Names returns every filter named in any group, in declaration order
func (c Constraints) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, g := range c.groups {
		for _, name := range g {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Toggle flips the named flag. When the flag turns on, every other member
// of its groups is switched off in the same returned value.
func (c Constraints) Toggle(f Filters, name string) Filters {
	return c.Set(f, name, !f.Flag(name))
}

// Set sets the named flag, switching off its group peers when value is true
func (c Constraints) Set(f Filters, name string, value bool) Filters {
	next := f.clone()
	next.flags[name] = value
	if !value {
		return next
	}
	for _, g := range c.groups {
		if !contains(g, name) {
			continue
		}
		for _, peer := range g {
			if peer != name {
				next.flags[peer] = false
			}
		}
	}
	return next
}

// Validate reports the first group with more than one flag set
func (c Constraints) Validate(f Filters) error {
	for _, g := range c.groups {
		var on []string
		for _, name := range g {
			if f.Flag(name) {
				on = append(on, name)
			}
		}
		if len(on) > 1 {
			return fmt.Errorf("filters %v are mutually exclusive", on)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
