//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBatchBuildNeedsToken(t *testing.T) {
	t.Parallel()
	d := newDriver(t)

	require.NoError(t, d.start("tui", "/packages"))
	require.True(t, d.ready(), "Should receive ready signal")
	require.True(t, d.see("bash"), "Should list packages")

	d.toggle()
	require.True(t, d.see("1 selected"), "Should count the selection")

	d.press("B")
	require.True(t, d.see("requires an API token"), "Should refuse to build without a token")
}

func TestBatchBuildFromSelection(t *testing.T) {
	t.Parallel()
	d := newDriver(t).withToken("e2e-token")

	require.NoError(t, d.start("tui", "/packages"))
	require.True(t, d.ready(), "Should receive ready signal")
	require.True(t, d.see("glibc"), "Should list packages")

	// bash, then skip kernel and take glibc
	d.toggle()
	d.down()
	d.toggle()
	require.True(t, d.see("2 selected"), "Should count the selection")

	d.press("B")
	require.True(t, d.see("Build 2 packages?"), "Should ask for confirmation")

	d.press("y")
	require.NoError(t, d.await(func() bool {
		return d.api.Requested("POST /api/batches/builds/", `"package_id":12`, `"package_id":14`)
	}, "Should build the selected packages"))
	require.False(t, d.api.Requested("POST /api/batches/builds/", `"package_id":13`), "The skipped row is not built")
	require.True(t, d.see("/batches/builds/42"), "Should open the new batch")
}

func TestConfirmationCanBeDismissed(t *testing.T) {
	t.Parallel()
	d := newDriver(t).withToken("e2e-token")

	require.NoError(t, d.start("tui", "/packages"))
	require.True(t, d.ready(), "Should receive ready signal")
	require.True(t, d.see("bash"), "Should list packages")

	d.toggle()
	d.press("I")
	require.True(t, d.see("Import 1 packages?"), "Should ask for confirmation")

	d.press("n")
	time.Sleep(300 * time.Millisecond)
	require.False(t, d.api.Requested("POST "), "Nothing should be submitted")
}
