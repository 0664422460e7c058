package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

func freeTextBuild(t *testing.T) *browser.Workflow {
	t.Helper()
	w := browser.NewWorkflow(nil)
	require.NoError(t, w.RequestConfirmation(browser.Action{
		Kind:      browser.ActionBuild,
		BatchKind: domain.BatchBuilds,
		FreeText:  true,
	}))
	return w
}

// TestParsePackageListDropsBlankLines covers the "a\nb\n \nc" scenario.
func TestParsePackageListDropsBlankLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, browser.ParsePackageList("a\nb\n \nc"))
	assert.Equal(t, []string{"bash", "zsh"}, browser.ParsePackageList("  bash\r\n\n\tzsh  \n"))
	assert.Empty(t, browser.ParsePackageList(" \n\t\n"))
}

// TestFreeTextBatchSendsThreeTargets verifies the request carries exactly a, b and c.
func TestFreeTextBatchSendsThreeTargets(t *testing.T) {
	t.Parallel()

	w := freeTextBuild(t)
	sub := &fakeSubmitter{id: "42"}

	out, err := w.Submit(context.Background(), sub, browser.Input{PackageList: "a\nb\n \nc"})
	require.NoError(t, err)
	require.Len(t, sub.calls, 1)

	var names []string
	for _, target := range sub.calls[0].Targets {
		names = append(names, target.PackageName)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, "/batches/builds/42", out.Location)
	assert.Equal(t, browser.PhaseSucceeded, w.Phase())
}

// TestEmptyPackageListIsRejectedLocally verifies no network call and no phase change.
func TestEmptyPackageListIsRejectedLocally(t *testing.T) {
	t.Parallel()

	w := freeTextBuild(t)
	sub := &fakeSubmitter{id: "1"}

	_, err := w.Submit(context.Background(), sub, browser.Input{PackageList: "  \n \n"})
	assert.ErrorIs(t, err, browser.ErrEmptyPackageList)
	assert.Empty(t, sub.calls)
	assert.Equal(t, browser.PhaseConfirming, w.Phase())
	assert.True(t, w.CanSubmit(), "the control is re-enabled immediately")
	assert.Equal(t, "Empty package list not allowed!", w.Message())
}

// TestSuccessRedirectsToNewBatch verifies id 42 leads to the batch page for each kind.
func TestSuccessRedirectsToNewBatch(t *testing.T) {
	t.Parallel()

	for _, kind := range []browser.ActionKind{browser.ActionImport, browser.ActionBuild} {
		w := browser.NewWorkflow(nil)
		require.NoError(t, w.RequestConfirmation(browser.Action{
			Kind:    kind,
			Targets: []domain.Target{{PackageID: "5"}},
		}))
		out, err := w.Submit(context.Background(), &fakeSubmitter{id: domain.IDFromInt(42)}, browser.Input{})
		require.NoError(t, err)
		assert.Equal(t, "/batches/"+string(kind.BatchKind())+"/42", out.Location)
	}
}

// TestFailureReturnsToConfirmingWithServerDetail verifies the detail is surfaced verbatim.
func TestFailureReturnsToConfirmingWithServerDetail(t *testing.T) {
	t.Parallel()

	var phases []browser.Phase
	w := freeTextBuild(t)
	w.OnTransition(func(_, to browser.Phase, _ browser.ActionRequest, _ error) {
		phases = append(phases, to)
	})
	sub := &fakeSubmitter{err: &detailError{status: 404, detail: "package does not exist"}}

	_, err := w.Submit(context.Background(), sub, browser.Input{PackageList: "nope"})
	require.Error(t, err)

	assert.Equal(t, browser.PhaseConfirming, w.Phase())
	assert.True(t, w.CanSubmit())
	assert.Equal(t, "package does not exist", w.Message())
	assert.Equal(t, []browser.Phase{browser.PhaseSubmitting, browser.PhaseFailed, browser.PhaseConfirming}, phases)
}

// TestTransportFailureUsesGenericMessage verifies errors without detail get a generic text.
func TestTransportFailureUsesGenericMessage(t *testing.T) {
	t.Parallel()

	w := freeTextBuild(t)
	_, err := w.Submit(context.Background(), &fakeSubmitter{err: errors.New("dial tcp: refused")}, browser.Input{PackageList: "a"})
	require.Error(t, err)
	assert.Equal(t, "Build request failed, please try again.", w.Message())
}

// TestSingleActionFailureReturnsToIdle verifies single-item actions do not keep a modal open.
func TestSingleActionFailureReturnsToIdle(t *testing.T) {
	t.Parallel()

	w := browser.NewWorkflow(nil)
	require.NoError(t, w.RequestConfirmation(browser.Action{
		Kind:    browser.ActionBuild,
		Single:  true,
		Targets: []domain.Target{{PackageID: "9"}},
	}))
	_, err := w.Submit(context.Background(), &fakeSubmitter{err: &detailError{status: 401, detail: "this package is part of a module. build the main module"}}, browser.Input{})
	require.Error(t, err)

	assert.Equal(t, browser.PhaseIdle, w.Phase())
	assert.Equal(t, "this package is part of a module. build the main module", w.Message())
}

// TestSingleActionSuccessReturnsToPackage verifies the redirect when no id comes back.
func TestSingleActionSuccessReturnsToPackage(t *testing.T) {
	t.Parallel()

	w := browser.NewWorkflow(nil)
	require.NoError(t, w.RequestConfirmation(browser.Action{
		Kind:    browser.ActionImport,
		Single:  true,
		Targets: []domain.Target{{PackageID: "9"}},
	}))
	out, err := w.Submit(context.Background(), &fakeSubmitter{}, browser.Input{})
	require.NoError(t, err)
	assert.Equal(t, "/packages/9", out.Location)
}

// TestSubmittingBlocksDuplicateConfirm verifies the in-flight guard.
func TestSubmittingBlocksDuplicateConfirm(t *testing.T) {
	t.Parallel()

	w := freeTextBuild(t)
	_, err := w.Confirm(browser.Input{PackageList: "a"})
	require.NoError(t, err)

	assert.False(t, w.CanSubmit())
	assert.True(t, w.Busy())
	_, err = w.Confirm(browser.Input{PackageList: "a"})
	assert.ErrorIs(t, err, browser.ErrSubmitting)
	assert.False(t, w.Dismiss())
	assert.ErrorIs(t, w.RequestConfirmation(browser.Action{Kind: browser.ActionCancel}), browser.ErrSubmitting)
}

// TestConfirmWithoutRequestIsRefused verifies confirm needs a pending confirmation.
func TestConfirmWithoutRequestIsRefused(t *testing.T) {
	t.Parallel()

	w := browser.NewWorkflow(nil)
	_, err := w.Confirm(browser.Input{})
	assert.ErrorIs(t, err, browser.ErrNotConfirming)

	_, err = w.Finish("1", nil)
	assert.ErrorIs(t, err, browser.ErrNotSubmitting)
}

// TestEmptySelectionCannotBeConfirmed verifies selection actions need rows.
func TestEmptySelectionCannotBeConfirmed(t *testing.T) {
	t.Parallel()

	w := browser.NewWorkflow(nil)
	err := w.RequestConfirmation(browser.Action{Kind: browser.ActionImport})
	assert.ErrorIs(t, err, browser.ErrEmptySelection)
	assert.Equal(t, browser.PhaseIdle, w.Phase())
}

// TestCancelAndRetryRedirects verifies cancel stays on the batch and retry follows the new one.
func TestCancelAndRetryRedirects(t *testing.T) {
	t.Parallel()

	cancel := browser.ActionRequest{Kind: browser.ActionCancel, BatchKind: domain.BatchImports, BatchID: "12"}
	assert.Equal(t, "/batches/imports/12", browser.RedirectFor(cancel, ""))

	retry := browser.ActionRequest{Kind: browser.ActionRetryFailed, BatchKind: domain.BatchBuilds, BatchID: "12"}
	assert.Equal(t, "/batches/builds/13", browser.RedirectFor(retry, "13"))
}

// TestDismissResetsToIdle verifies closing the modal clears the error.
func TestDismissResetsToIdle(t *testing.T) {
	t.Parallel()

	w := freeTextBuild(t)
	_, _ = w.Confirm(browser.Input{})
	require.Error(t, w.Err())

	assert.True(t, w.Dismiss())
	assert.Equal(t, browser.PhaseIdle, w.Phase())
	assert.NoError(t, w.Err())
}
