//go:build e2e && unix

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// binPath is set by TestMain
var binPath string

const (
	captureLimit = 1 << 20
	pollEvery    = 25 * time.Millisecond
	seeTimeout   = 3 * time.Second
)

// Keys as the terminal sends them
const (
	keyEnter     = "\r"
	keyCtrlC     = "\x03"
	keySpace     = " "
	keyDown      = "j"
	keyQuit      = "q"
	keyBackspace = "\x7f"
	keyLogs      = "l"
)

// ansiRe matches CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// driver runs one distrotui process in a pseudo terminal against a fake API
type driver struct {
	t     *testing.T
	home  string
	token string
	api   *fakeAPI
	cmd   *exec.Cmd
	term  *os.File

	// waiting is set once exited has taken over reaping the process
	waiting bool

	mu  sync.Mutex
	out bytes.Buffer
}

func newDriver(t *testing.T) *driver {
	d := &driver{t: t, home: t.TempDir()}
	t.Cleanup(d.close)
	return d
}

// withToken makes the app start authenticated
func (d *driver) withToken(token string) *driver {
	d.token = token
	return d
}

// start launches the binary with args in a 120x40 terminal
func (d *driver) start(args ...string) error {
	if d.api == nil {
		d.api = newFakeAPI(d.t)
	}
	d.cmd = exec.Command(binPath, args...)
	d.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"HOME="+d.home,
		"XDG_CONFIG_HOME="+filepath.Join(d.home, "config"),
		"XDG_STATE_HOME="+filepath.Join(d.home, "state"),
		"DISTROTUI_API_URL="+d.api.URL+"/api",
		"DISTROTUI_API_TOKEN="+d.token,
		"DISTROTUI_E2E_TEST=1",
	)

	term, err := pty.StartWithSize(d.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", binPath, err)
	}
	d.term = term
	go d.capture(term)
	return nil
}

func (d *driver) capture(term *os.File) {
	chunk := make([]byte, 8192)
	for {
		n, err := term.Read(chunk)
		if n > 0 {
			d.mu.Lock()
			if d.out.Len()+n > captureLimit {
				d.out.Next(d.out.Len() + n - captureLimit)
			}
			d.out.Write(chunk[:n])
			d.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (d *driver) press(keys string) {
	d.t.Helper()
	if _, err := d.term.Write([]byte(keys)); err != nil {
		d.t.Logf("write %q: %v", keys, err)
	}
}

func (d *driver) enter()     { d.press(keyEnter) }
func (d *driver) down()      { d.press(keyDown) }
func (d *driver) toggle()    { d.press(keySpace) }
func (d *driver) back()      { d.press(keyBackspace) }
func (d *driver) openLogs()  { d.press(keyLogs) }
func (d *driver) quit()      { d.press(keyQuit) }
func (d *driver) interrupt() { d.press(keyCtrlC) }

// exited reports the process exit once it happens
func (d *driver) exited() <-chan error {
	cmd := d.cmd
	d.waiting = true
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return done
}

// raw returns everything the app has written so far
func (d *driver) raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out.String()
}

// screen returns the output with escape sequences removed
func (d *driver) screen() string {
	return ansiRe.ReplaceAllString(d.raw(), "")
}

// ready waits for the marker the app prints once its first frame is drawn
func (d *driver) ready() bool {
	return d.poll(func() bool { return strings.Contains(d.raw(), "__READY__") }, 5*time.Second)
}

// see waits for text to show up on screen
func (d *driver) see(text string) bool {
	return d.poll(func() bool { return strings.Contains(d.screen(), text) }, seeTimeout)
}

// await waits for cond and reports the tail of the screen when it times out
func (d *driver) await(cond func() bool, failMsg string) error {
	if d.poll(cond, seeTimeout) {
		return nil
	}
	tail := d.screen()
	if len(tail) > 4096 {
		tail = tail[len(tail)-4096:]
	}
	return fmt.Errorf("%s\n--- tail ---\n%s", failMsg, tail)
}

func (d *driver) poll(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollEvery)
	}
	return true
}

// dumpTail writes the last n bytes of the screen to a file kept with the test
func (d *driver) dumpTail(name string, n int) {
	s := d.screen()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	p := filepath.Join(d.t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(s), 0o644)
	d.t.Logf("saved screen tail to %s", p)
}

// close hangs up the terminal and reaps the process
func (d *driver) close() {
	if d.term != nil {
		_ = d.term.Close()
		d.term = nil
	}
	if d.cmd != nil && d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
		if !d.waiting {
			_, _ = d.cmd.Process.Wait()
		}
		d.cmd = nil
	}
}
