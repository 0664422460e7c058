package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"distrotui/internal/domain"
)

// Phase is a state of the batch action workflow
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfirming
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfirming:
		return "confirming"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ActionKind says what an action asks the server to do
type ActionKind string

const (
	ActionImport      ActionKind = "import"
	ActionBuild       ActionKind = "build"
	ActionCancel      ActionKind = "cancel"
	ActionRetryFailed ActionKind = "retry-failed"
	ActionResetBuild  ActionKind = "reset-build"
)

// Verb is the imperative shown on confirmation prompts
func (k ActionKind) Verb() string {
	switch k {
	case ActionImport:
		return "Import"
	case ActionBuild:
		return "Build"
	case ActionCancel:
		return "Cancel"
	case ActionRetryFailed:
		return "Retry failed"
	case ActionResetBuild:
		return "Reset latest build"
	}
	return string(k)
}

// BatchKind returns the batch collection an import/build action creates
func (k ActionKind) BatchKind() domain.BatchKind {
	if k == ActionBuild {
		return domain.BatchBuilds
	}
	return domain.BatchImports
}

// Local validation errors. These never reach the network.
var (
	ErrEmptyPackageList = errors.New("empty package list not allowed")
	ErrEmptySelection   = errors.New("no rows selected")
	ErrNotConfirming    = errors.New("no action is waiting for confirmation")
	ErrSubmitting       = errors.New("an action is already being submitted")
	ErrNotSubmitting    = errors.New("no action is being submitted")
)

// Options are the kind-specific inputs of an action
type Options struct {
	Scratch        bool
	IgnoreModules  bool
	ArchOverride   string
	ForceTag       string
	OnlyBranch     string
	ShouldPrecheck bool
}

// Action describes what the user asked for before confirming it
type Action struct {
	Kind ActionKind
	// BatchKind and BatchID name the batch a cancel or retry applies to
	BatchKind domain.BatchKind
	BatchID   domain.ID
	// Targets are resolved rows; a free-text action fills them on Confirm
	Targets  []domain.Target
	FreeText bool
	// Single actions act on one package outside of any batch
	Single bool
}

// Input is what the confirmation form collects
type Input struct {
	PackageList string
	Options     Options
}

// ActionRequest is the request handed to a Submitter. It is built at
// confirmation time and never persisted.
type ActionRequest struct {
	Kind      ActionKind
	Single    bool
	BatchKind domain.BatchKind
	BatchID   domain.ID
	Targets   []domain.Target
	Options   Options
}

// Submitter performs an action and returns the id of what it created. Cancel
// returns an empty id; single create may too.
type Submitter interface {
	Submit(ctx context.Context, req ActionRequest) (domain.ID, error)
}

// Outcome is the result of a successful action
type Outcome struct {
	ID       domain.ID
	Location string
}

// Clearer is cleared after a successful submission
type Clearer interface {
	Clear()
}

// Transition reports a phase change to an observer
type Transition func(from, to Phase, req ActionRequest, err error)

// Workflow drives confirm-then-submit for one screen
type Workflow struct {
	phase   Phase
	action  Action
	request ActionRequest
	lastErr error
	outcome Outcome

	selection Clearer
	observe   Transition
}

// NewWorkflow creates an idle workflow. selection may be nil.
func NewWorkflow(selection Clearer) *Workflow {
	return &Workflow{selection: selection}
}

// OnTransition registers an observer of phase changes
func (w *Workflow) OnTransition(fn Transition) {
	w.observe = fn
}

// Phase returns the current phase
func (w *Workflow) Phase() Phase {
	return w.phase
}

// Action returns the action being confirmed or submitted
func (w *Workflow) Action() Action {
	return w.action
}

// Err returns the error of the last failed confirm or submit
func (w *Workflow) Err() error {
	return w.lastErr
}

// Outcome returns the result of the last successful submission
func (w *Workflow) Outcome() Outcome {
	return w.outcome
}

// CanSubmit reports whether the primary action is enabled
func (w *Workflow) CanSubmit() bool {
	return w.phase == PhaseConfirming
}

// Busy reports whether a submission is in flight
func (w *Workflow) Busy() bool {
	return w.phase == PhaseSubmitting
}

// RequestConfirmation opens the confirmation step. Import and build actions
// need resolved targets unless they take a free-text package list.
func (w *Workflow) RequestConfirmation(a Action) error {
	if w.phase == PhaseSubmitting {
		return ErrSubmitting
	}
	if needsTargets(a) && len(a.Targets) == 0 {
		return ErrEmptySelection
	}
	w.action = a
	w.lastErr = nil
	w.set(PhaseConfirming, nil)
	return nil
}

// Confirm validates the form and moves to submitting. The returned request
// is what the caller must hand to a Submitter before calling Finish.
func (w *Workflow) Confirm(in Input) (ActionRequest, error) {
	switch w.phase {
	case PhaseSubmitting:
		return ActionRequest{}, ErrSubmitting
	case PhaseConfirming:
	default:
		return ActionRequest{}, ErrNotConfirming
	}

	targets := w.action.Targets
	if w.action.FreeText {
		names := ParsePackageList(in.PackageList)
		if len(names) == 0 {
			w.lastErr = ErrEmptyPackageList
			return ActionRequest{}, ErrEmptyPackageList
		}
		targets = make([]domain.Target, len(names))
		for i, name := range names {
			targets[i] = domain.Target{PackageName: name}
		}
	}

	w.request = ActionRequest{
		Kind:      w.action.Kind,
		Single:    w.action.Single,
		BatchKind: w.action.BatchKind,
		BatchID:   w.action.BatchID,
		Targets:   targets,
		Options:   in.Options,
	}
	w.lastErr = nil
	w.set(PhaseSubmitting, nil)
	return w.request, nil
}

// Finish records the submitter's answer. On success the selection is cleared
// and the outcome carries the location to redirect to. On failure the
// workflow goes back to confirming, or to idle for single actions.
func (w *Workflow) Finish(id domain.ID, err error) (Outcome, error) {
	if w.phase != PhaseSubmitting {
		return Outcome{}, ErrNotSubmitting
	}
	if err != nil {
		w.lastErr = err
		w.set(PhaseFailed, err)
		if w.request.Single {
			w.set(PhaseIdle, nil)
		} else {
			w.set(PhaseConfirming, nil)
		}
		return Outcome{}, err
	}
	w.outcome = Outcome{ID: id, Location: RedirectFor(w.request, id)}
	if w.selection != nil {
		w.selection.Clear()
	}
	w.set(PhaseSucceeded, nil)
	return w.outcome, nil
}

// Submit runs Confirm, the submitter and Finish in one call
func (w *Workflow) Submit(ctx context.Context, s Submitter, in Input) (Outcome, error) {
	req, err := w.Confirm(in)
	if err != nil {
		return Outcome{}, err
	}
	id, err := s.Submit(ctx, req)
	return w.Finish(id, err)
}

// Dismiss closes the confirmation step. It is refused while submitting.
func (w *Workflow) Dismiss() bool {
	if w.phase == PhaseSubmitting {
		return false
	}
	w.lastErr = nil
	w.action = Action{}
	w.set(PhaseIdle, nil)
	return true
}

// Message returns the text to show for the last error: the server's detail
// verbatim when it sent one, a generic message otherwise.
func (w *Workflow) Message() string {
	return ErrorMessage(w.lastErr, w.action.Kind)
}

func (w *Workflow) set(next Phase, err error) {
	prev := w.phase
	w.phase = next
	if w.observe != nil && prev != next {
		w.observe(prev, next, w.request, err)
	}
}

// PublishTransitions reports submitted and failed actions of w to pub
func PublishTransitions(w *Workflow, pub Publisher) {
	if pub == nil {
		return
	}
	w.OnTransition(func(_, to Phase, req ActionRequest, err error) {
		switch to {
		case PhaseSucceeded:
			out := w.Outcome()
			pub.Publish(domain.BatchSubmittedEvent{
				Action:   string(req.Kind),
				Targets:  len(req.Targets),
				ID:       out.ID,
				Location: out.Location,
			})
		case PhaseFailed:
			pub.Publish(domain.BatchFailedEvent{Action: string(req.Kind), Err: err})
		}
	})
}

func needsTargets(a Action) bool {
	if a.FreeText {
		return false
	}
	return a.Kind == ActionImport || a.Kind == ActionBuild
}

// ParsePackageList splits a free-text package list into names, one per line,
// dropping blank lines and surrounding whitespace.
func ParsePackageList(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// RedirectFor returns where to go after req succeeded with id
func RedirectFor(req ActionRequest, id domain.ID) string {
	switch req.Kind {
	case ActionCancel:
		return req.BatchKind.Collection().ItemPath(req.BatchID)
	case ActionRetryFailed:
		if id.IsZero() {
			return req.BatchKind.Collection().ItemPath(req.BatchID)
		}
		return req.BatchKind.Collection().ItemPath(id)
	}
	if req.Kind == ActionResetBuild {
		if len(req.Targets) == 1 {
			return domain.CollectionPackages.ItemPath(req.Targets[0].PackageID)
		}
		return domain.CollectionPackages.Path()
	}
	if req.Single {
		if !id.IsZero() {
			return req.Kind.BatchKind().ItemCollection().ItemPath(id)
		}
		if len(req.Targets) == 1 && !req.Targets[0].PackageID.IsZero() {
			return domain.CollectionPackages.ItemPath(req.Targets[0].PackageID)
		}
		return req.Kind.BatchKind().ItemCollection().Path()
	}
	return req.Kind.BatchKind().Collection().ItemPath(id)
}

// Detailer is implemented by errors that carry a server-provided message
type Detailer interface {
	UserDetail() string
}

// ErrorMessage turns a submission error into user-facing text
func ErrorMessage(err error, kind ActionKind) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyPackageList) {
		return "Empty package list not allowed!"
	}
	if errors.Is(err, ErrEmptySelection) {
		return "Select at least one row first."
	}
	var d Detailer
	if errors.As(err, &d) && d.UserDetail() != "" {
		return d.UserDetail()
	}
	if kind == "" {
		return "Request failed, please try again."
	}
	return fmt.Sprintf("%s request failed, please try again.", kind.Verb())
}
