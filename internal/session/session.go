// Package session carries who is using the dashboard. It is created once at
// startup and passed explicitly to the screens and commands that need it.
package session

import (
	"errors"
	"os"
	"os/user"
)

// ErrNotAuthenticated is returned for mutating actions without a token
var ErrNotAuthenticated = errors.New("this action requires an API token (set api.token or DISTROTUI_API_TOKEN)")

// Context is read-only session state
type Context struct {
	Authenticated bool
	FullName      string
}

// New builds a session. An empty fullName falls back to the login name.
func New(authenticated bool, fullName string) Context {
	if fullName == "" {
		fullName = loginName()
	}
	return Context{Authenticated: authenticated, FullName: fullName}
}

// CanMutate reports whether actions that change server state are allowed
func (c Context) CanMutate() bool {
	return c.Authenticated
}

// RequireAuth returns ErrNotAuthenticated unless the session can mutate
func (c Context) RequireAuth() error {
	if !c.CanMutate() {
		return ErrNotAuthenticated
	}
	return nil
}

// Greeting is the header text for the session
func (c Context) Greeting() string {
	if !c.Authenticated {
		return "read-only"
	}
	if c.FullName == "" {
		return "signed in"
	}
	return c.FullName
}

func loginName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		if u.Name != "" {
			return u.Name
		}
		return u.Username
	}
	return ""
}
