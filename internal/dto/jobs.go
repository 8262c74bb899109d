package dto

// NotifyRunResult summarizes one notification dispatch run.
type NotifyRunResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// PendingCleanupResult reports how many expired pending actions a sweep
// removed.
type PendingCleanupResult struct {
	Removed int `json:"removed"`
}
