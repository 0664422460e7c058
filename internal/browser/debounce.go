package browser

import (
	"strings"
	"time"
)

// DefaultQuietPeriod is how long search input must stay unchanged before it
// reaches the query state
const DefaultQuietPeriod = 200 * time.Millisecond

// NormalizeSearch maps blank input to "no search"
func NormalizeSearch(s string) string {
	return strings.TrimSpace(s)
}

// Pending is a scheduled search update. It only takes effect if it is still
// the latest one when its quiet period has elapsed.
type Pending struct {
	Seq   uint64
	Value string
	After time.Duration
}

// Debouncer delays search input until typing pauses. The raw text is kept
// immediately for display; each keystroke supersedes the pending update
// scheduled by the previous one.
type Debouncer struct {
	quiet   time.Duration
	raw     string
	seq     uint64
	pending bool
}

// NewDebouncer creates a debouncer; a non-positive quiet period uses the default
func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{quiet: quiet}
}

// Keystroke records new raw input and schedules its settle
func (d *Debouncer) Keystroke(raw string) Pending {
	d.raw = raw
	d.seq++
	d.pending = true
	return Pending{Seq: d.seq, Value: NormalizeSearch(raw), After: d.quiet}
}

// Settle is called when the quiet period of a pending update elapses. It
// returns the value to apply, or false if a later keystroke superseded it.
func (d *Debouncer) Settle(seq uint64) (string, bool) {
	if !d.pending || seq != d.seq {
		return "", false
	}
	d.pending = false
	return NormalizeSearch(d.raw), true
}

// Flush applies the current input right away, cancelling the pending update
func (d *Debouncer) Flush() (string, bool) {
	if !d.pending {
		return "", false
	}
	d.Cancel()
	return NormalizeSearch(d.raw), true
}

// Cancel drops the pending update without applying it
func (d *Debouncer) Cancel() {
	d.seq++
	d.pending = false
}

// Reset sets the raw text without scheduling anything, e.g. from an address
func (d *Debouncer) Reset(raw string) {
	d.Cancel()
	d.raw = raw
}

// Raw returns the text as typed
func (d *Debouncer) Raw() string {
	return d.raw
}

// IsPending reports whether an update is waiting for its quiet period
func (d *Debouncer) IsPending() bool {
	return d.pending
}

// QuietPeriod returns the configured delay
func (d *Debouncer) QuietPeriod() time.Duration {
	return d.quiet
}
