package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is an entity identifier in canonical string form. The server sends ids
// as JSON numbers, but rows, selections and locations compare them as strings.
type ID string

// IDFromInt formats a numeric id
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// ParseID trims s and formats integer ids canonically, so " 042" and "42"
// are the same id
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IDFromInt(n)
	}
	return ID(s)
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset
func (id ID) IsZero() bool { return id == "" }

// Int64 returns the numeric form, for request bodies that need a number
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = numberID(n)
	return nil
}

// numberID maps integral numbers in any notation (42, 42.0, 4.2e1) to the
// same id
func numberID(n json.Number) ID {
	if i, err := n.Int64(); err == nil {
		return IDFromInt(i)
	}
	f, err := n.Float64()
	if err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return IDFromInt(int64(f))
	}
	return ID(n.String())
}

// MarshalJSON writes numeric ids as numbers so request bodies match what the
// server expects for package_id.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}
