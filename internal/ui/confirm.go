package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"distrotui/internal/browser"
	"distrotui/internal/ui/views"
)

// confirmModal asks before a workflow action is submitted. It is open
// while the workflow is confirming or submitting.
type confirmModal struct {
	workflow *browser.Workflow
	title    string
	body     []string
	// field is an optional single-line input, e.g. a branch override
	field      *textinput.Model
	fieldLabel string
	options    browser.Options
}

func newConfirmModal(w *browser.Workflow) *confirmModal {
	return &confirmModal{workflow: w}
}

// open starts confirmation of a. Errors are local validation failures.
func (m *confirmModal) open(a browser.Action, title string, body ...string) error {
	if err := m.workflow.RequestConfirmation(a); err != nil {
		return err
	}
	m.title = title
	m.body = body
	m.field = nil
	m.fieldLabel = ""
	m.options = browser.Options{}
	return nil
}

// withField adds a text input to the open modal
func (m *confirmModal) withField(label, placeholder string) tea.Cmd {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 40
	m.field = &ti
	m.fieldLabel = label
	return m.field.Focus()
}

func (m *confirmModal) visible() bool {
	switch m.workflow.Phase() {
	case browser.PhaseConfirming, browser.PhaseSubmitting:
		return true
	}
	return false
}

// update handles a key while the modal is open
func (m *confirmModal) update(msg tea.KeyMsg, e *env) tea.Cmd {
	if m.workflow.Busy() {
		// The primary control stays disabled until the server answers
		return nil
	}
	switch msg.String() {
	case "esc":
		m.workflow.Dismiss()
		return nil
	case "enter":
		return m.confirm(e)
	case "y":
		if m.field == nil {
			return m.confirm(e)
		}
	case "n":
		if m.field == nil {
			m.workflow.Dismiss()
			return nil
		}
	}
	if m.field != nil {
		var cmd tea.Cmd
		*m.field, cmd = m.field.Update(msg)
		return cmd
	}
	return nil
}

func (m *confirmModal) confirm(e *env) tea.Cmd {
	opts := m.options
	if m.field != nil {
		opts.OnlyBranch = strings.TrimSpace(m.field.Value())
	}
	req, err := m.workflow.Confirm(browser.Input{Options: opts})
	if err != nil {
		return nil
	}
	return e.submit(req)
}

func (m *confirmModal) view(s *views.Styles) string {
	var b strings.Builder
	b.WriteString(s.ModalTitle.Render(m.title))
	b.WriteString("\n")
	for _, line := range m.body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.field != nil {
		b.WriteString("\n")
		b.WriteString(s.Label.Render(m.fieldLabel))
		b.WriteString("\n")
		b.WriteString(m.field.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(modalFooter(m.workflow, s, m.field == nil))
	return b.String()
}

// modalFooter shows progress, the last error or the available keys
func modalFooter(w *browser.Workflow, s *views.Styles, yesNo bool) string {
	if w.Busy() {
		return s.StatusLoading.Render(fmt.Sprintf("%s: submitting...", w.Action().Kind.Verb()))
	}
	var b strings.Builder
	if w.Err() != nil {
		b.WriteString(s.StatusError.Render(w.Message()))
		b.WriteString("\n")
	}
	if yesNo {
		b.WriteString(s.Help.Render("y/enter confirm · n/esc cancel"))
	} else {
		b.WriteString(s.Help.Render("enter confirm · esc cancel"))
	}
	return b.String()
}

// finish records a submitMsg on w and returns the follow-up commands
func finish(w *browser.Workflow, msg submitMsg, okText string) tea.Cmd {
	if !w.Busy() {
		return nil
	}
	out, err := w.Finish(msg.id, msg.err)
	if err != nil {
		if w.Phase() == browser.PhaseIdle {
			return statusErr(browser.ErrorMessage(err, w.Action().Kind))
		}
		return nil
	}
	w.Dismiss()
	return tea.Batch(status(okText), navigate(out.Location))
}
