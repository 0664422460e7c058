package browser

import "distrotui/internal/domain"

// SplitOutcomes partitions items into failed and succeeded by status.
// Cancelled items count as failed. Items still running are in neither.
func SplitOutcomes[T any](items []T, status func(T) domain.Status) (failed, succeeded []T) {
	for _, item := range items {
		st := status(item)
		switch {
		case st.IsFailure():
			failed = append(failed, item)
		case st.IsSuccess():
			succeeded = append(succeeded, item)
		}
	}
	return failed, succeeded
}

// Progress summarizes the statuses of a batch
type Progress struct {
	Total     int
	Failed    int
	Succeeded int
}

// ProgressOf counts statuses
func ProgressOf(statuses []domain.Status) Progress {
	p := Progress{Total: len(statuses)}
	for _, st := range statuses {
		switch {
		case st.IsFailure():
			p.Failed++
		case st.IsSuccess():
			p.Succeeded++
		}
	}
	return p
}

// Pending returns how many items have not finished
func (p Progress) Pending() int {
	return p.Total - p.Failed - p.Succeeded
}

// CanCancel reports whether anything is left to cancel
func (p Progress) CanCancel() bool {
	return p.Pending() > 0
}

// CanRetry reports whether the batch finished with failures
func (p Progress) CanRetry() bool {
	return !p.CanCancel() && p.Failed > 0
}

// Percent returns the share of finished items, 0-100
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Failed + p.Succeeded) * 100 / p.Total
}
