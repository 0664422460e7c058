package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" in_progress ")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("DONE")
	assert.Error(t, err)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status   Status
		failure  bool
		success  bool
		terminal bool
	}{
		{StatusQueued, false, false, false},
		{StatusBuilding, false, false, false},
		{StatusInProgress, false, false, false},
		{StatusSucceeded, false, true, true},
		{StatusFailed, true, false, true},
		{StatusCancelled, true, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.failure, tt.status.IsFailure())
			assert.Equal(t, tt.success, tt.status.IsSuccess())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "In progress", StatusInProgress.Label())
	assert.Equal(t, "Queued", StatusQueued.Label())
	assert.Equal(t, "-", Status("").Label())
}

func TestParseBatchKind(t *testing.T) {
	k, err := ParseBatchKind("build")
	require.NoError(t, err)
	assert.Equal(t, BatchBuilds, k)
	assert.Equal(t, CollectionBatchBuilds, k.Collection())
	assert.Equal(t, "/batches/builds/", k.Collection().Path())

	_, err = ParseBatchKind("deploys")
	assert.Error(t, err)
}
