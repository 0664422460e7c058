package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/ui/views"
)

type formField int

const (
	fieldPackages formField = iota
	fieldScratch
	fieldIgnoreModules
	fieldArchOverride
	fieldForceTag
)

// batchForm collects a free-text package list for a new batch
type batchForm struct {
	workflow *browser.Workflow
	kind     domain.BatchKind

	packages      textarea.Model
	archOverride  textinput.Model
	forceTag      textinput.Model
	scratch       bool
	ignoreModules bool
	focus         formField
	// active is set while the workflow's confirmation belongs to the form
	active bool
}

func newBatchForm(w *browser.Workflow) *batchForm {
	return &batchForm{workflow: w}
}

// open starts a new batch of kind
func (f *batchForm) open(kind domain.BatchKind, width int) tea.Cmd {
	action := browser.ActionImport
	if kind == domain.BatchBuilds {
		action = browser.ActionBuild
	}
	if err := f.workflow.RequestConfirmation(browser.Action{
		Kind:      action,
		BatchKind: kind,
		FreeText:  true,
	}); err != nil {
		return statusErr(err.Error())
	}

	f.active = true
	f.kind = kind
	f.packages = textarea.New()
	f.packages.Placeholder = "one package name per line"
	f.packages.ShowLineNumbers = false
	f.packages.SetWidth(min(60, max(20, width-12)))
	f.packages.SetHeight(8)

	f.archOverride = textinput.New()
	f.archOverride.Placeholder = "e.g. x86_64"
	f.archOverride.Width = 30
	f.forceTag = textinput.New()
	f.forceTag.Placeholder = "koji tag"
	f.forceTag.Width = 30

	f.scratch = false
	f.ignoreModules = false
	f.focus = fieldPackages
	return f.packages.Focus()
}

func (f *batchForm) visible() bool {
	if !f.active {
		return false
	}
	switch f.workflow.Phase() {
	case browser.PhaseConfirming, browser.PhaseSubmitting:
		return true
	}
	return false
}

func (f *batchForm) fields() []formField {
	if f.kind == domain.BatchBuilds {
		return []formField{fieldPackages, fieldScratch, fieldIgnoreModules, fieldArchOverride, fieldForceTag}
	}
	return []formField{fieldPackages}
}

func (f *batchForm) update(msg tea.KeyMsg, e *env) tea.Cmd {
	if f.workflow.Busy() {
		return nil
	}
	switch msg.String() {
	case "esc":
		f.workflow.Dismiss()
		return nil
	case "ctrl+s":
		return f.submit(e)
	case "tab":
		return f.move(1)
	case "shift+tab":
		return f.move(-1)
	case " ":
		switch f.focus {
		case fieldScratch:
			f.scratch = !f.scratch
			return nil
		case fieldIgnoreModules:
			f.ignoreModules = !f.ignoreModules
			return nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldPackages:
		f.packages, cmd = f.packages.Update(msg)
	case fieldArchOverride:
		f.archOverride, cmd = f.archOverride.Update(msg)
	case fieldForceTag:
		f.forceTag, cmd = f.forceTag.Update(msg)
	}
	return cmd
}

func (f *batchForm) move(delta int) tea.Cmd {
	fields := f.fields()
	idx := 0
	for i, field := range fields {
		if field == f.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	f.focus = fields[idx]

	f.packages.Blur()
	f.archOverride.Blur()
	f.forceTag.Blur()
	switch f.focus {
	case fieldPackages:
		return f.packages.Focus()
	case fieldArchOverride:
		return f.archOverride.Focus()
	case fieldForceTag:
		return f.forceTag.Focus()
	}
	return nil
}

func (f *batchForm) submit(e *env) tea.Cmd {
	req, err := f.workflow.Confirm(browser.Input{
		PackageList: f.packages.Value(),
		Options: browser.Options{
			Scratch:        f.scratch,
			IgnoreModules:  f.ignoreModules,
			ArchOverride:   strings.TrimSpace(f.archOverride.Value()),
			ForceTag:       strings.TrimSpace(f.forceTag.Value()),
			ShouldPrecheck: true,
		},
	})
	if err != nil {
		return nil
	}
	return e.submit(req)
}

func (f *batchForm) view(s *views.Styles) string {
	var b strings.Builder
	b.WriteString(s.ModalTitle.Render(fmt.Sprintf("New %s batch", strings.TrimSuffix(string(f.kind), "s"))))
	b.WriteString("\n")
	b.WriteString(f.label(s, fieldPackages, "Packages"))
	b.WriteString("\n")
	b.WriteString(f.packages.View())
	b.WriteString("\n")

	if f.kind == domain.BatchBuilds {
		b.WriteString("\n")
		b.WriteString(f.label(s, fieldScratch, checkbox(f.scratch)+" Scratch build"))
		b.WriteString("\n")
		b.WriteString(f.label(s, fieldIgnoreModules, checkbox(f.ignoreModules)+" Ignore modules"))
		b.WriteString("\n\n")
		b.WriteString(f.label(s, fieldArchOverride, "Arch override"))
		b.WriteString("\n")
		b.WriteString(f.archOverride.View())
		b.WriteString("\n")
		b.WriteString(f.label(s, fieldForceTag, "Force tag"))
		b.WriteString("\n")
		b.WriteString(f.forceTag.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if f.workflow.Busy() {
		b.WriteString(s.StatusLoading.Render("Creating batch..."))
		return b.String()
	}
	if f.workflow.Err() != nil {
		b.WriteString(s.StatusError.Render(f.workflow.Message()))
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render("ctrl+s create · tab next field · space toggle · esc cancel"))
	return b.String()
}

func (f *batchForm) label(s *views.Styles, field formField, text string) string {
	if f.focus == field {
		return s.Highlight.Render("> " + text)
	}
	return s.Label.Render("  " + text)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
