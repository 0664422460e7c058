package ui

import (
	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

// navigateMsg asks the app to open a location
type navigateMsg struct {
	to string
	// replace swaps the current history entry instead of pushing
	replace bool
}

// statusMsg sets the status line
type statusMsg struct {
	text  string
	isErr bool
}

// pagerMsg asks the app to show content in the pager
type pagerMsg struct {
	title   string
	content string
}

// pagerDoneMsg contains the result of a pager run
type pagerDoneMsg struct {
	err error
}

// clipboardMsg contains the result of copying the location
type clipboardMsg struct {
	location string
	err      error
}

// pageMsg carries a fetch result back to the list screen that issued it
type pageMsg[T any] struct {
	gen uint64
	res browser.Result[T]
}

// settleMsg fires when the search box has been quiet long enough
type settleMsg struct {
	gen uint64
	seq uint64
}

// submitMsg carries the server's answer to a confirmed action
type submitMsg struct {
	gen uint64
	id  domain.ID
	err error
}

// loadedMsg carries a single-entity or dashboard read
type loadedMsg struct {
	gen   uint64
	value interface{}
	err   error
}

// logsMsg carries import logs for the pager
type logsMsg struct {
	gen  uint64
	id   domain.ID
	text string
	err  error
}
