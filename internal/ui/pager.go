package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// pauseRenderingMsg and resumeRenderingMsg bracket an external pager run
type pauseRenderingMsg struct{}
type resumeRenderingMsg struct{}

// PagerOps shows long text in ov, handing it the terminal
type PagerOps struct {
	program *tea.Program
}

// NewPagerOps creates pager operations for program
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// Show runs ov on content until the user quits it
func (p *PagerOps) Show(title, content string) error {
	if p == nil || p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave the alternate screen
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	text := content
	if title != "" {
		text = title + "\n\n" + content
	}
	root, err := oviewer.NewRoot(strings.NewReader(text))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showPager returns a command that runs the pager off the update loop
func (m *Model) showPager(title, content string) tea.Cmd {
	if m.program == nil {
		return func() tea.Msg { return pagerDoneMsg{err: fmt.Errorf("program not set")} }
	}
	program, pager := m.program, m.pager
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := pager.Show(title, content)
		program.Send(resumeRenderingMsg{})
		return pagerDoneMsg{err: err}
	}
}
