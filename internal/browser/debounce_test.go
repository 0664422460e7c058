package browser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"distrotui/internal/browser"
)

// TestDebounceOnlyLastKeystrokeSettles verifies a burst of typing produces one update.
func TestDebounceOnlyLastKeystrokeSettles(t *testing.T) {
	t.Parallel()

	d := browser.NewDebouncer(0)
	var pending []browser.Pending
	for _, raw := range []string{"k", "ke", "ker", "kern", "kernel"} {
		pending = append(pending, d.Keystroke(raw))
		assert.Equal(t, raw, d.Raw(), "raw input is visible immediately")
	}

	var settled []string
	for _, p := range pending {
		assert.Equal(t, browser.DefaultQuietPeriod, p.After)
		if v, ok := d.Settle(p.Seq); ok {
			settled = append(settled, v)
		}
	}

	assert.Equal(t, []string{"kernel"}, settled)
	assert.False(t, d.IsPending())
}

// TestDebounceSettlesOnce verifies a settle cannot be applied twice.
func TestDebounceSettlesOnce(t *testing.T) {
	t.Parallel()

	d := browser.NewDebouncer(0)
	p := d.Keystroke("bash")
	_, ok := d.Settle(p.Seq)
	assert.True(t, ok)
	_, ok = d.Settle(p.Seq)
	assert.False(t, ok)
}

// TestDebounceBlankInputMeansNoSearch verifies whitespace becomes an empty term.
func TestDebounceBlankInputMeansNoSearch(t *testing.T) {
	t.Parallel()

	d := browser.NewDebouncer(0)
	p := d.Keystroke("   ")
	v, ok := d.Settle(p.Seq)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

// TestDebounceFlushAndCancel covers enter and escape behaviour.
func TestDebounceFlushAndCancel(t *testing.T) {
	t.Parallel()

	d := browser.NewDebouncer(0)
	p := d.Keystroke("glibc")
	v, ok := d.Flush()
	assert.True(t, ok)
	assert.Equal(t, "glibc", v)
	_, ok = d.Settle(p.Seq)
	assert.False(t, ok, "the timer that fires after a flush is ignored")

	p = d.Keystroke("gl")
	d.Cancel()
	_, ok = d.Settle(p.Seq)
	assert.False(t, ok)
	_, ok = d.Flush()
	assert.False(t, ok)
}
