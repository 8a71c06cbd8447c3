package entity

// SyncStatus is the top-level outcome of one sync invocation.
type SyncStatus string

const (
	// SyncStatusOK means the day loop ran to completion. Individual
	// resource fetches may still have failed; those land in Errors.
	SyncStatusOK SyncStatus = "ok"
	// SyncStatusNoCredential means the participant has no stored Fitbit
	// credential. This is an expected state, not an error.
	SyncStatusNoCredential SyncStatus = "no_credential"
	// SyncStatusError means something outside the day loop failed and the
	// range was aborted.
	SyncStatusError SyncStatus = "error"
)

// RateLimitInfo carries the provider's advisory rate-limit quota headers as
// observed on the last response of a sync. Absence of headers is not an
// error; the zero value means "nothing observed".
type RateLimitInfo struct {
	Limit     int `json:"limit"`     // Requests allowed per window.
	Remaining int `json:"remaining"` // Requests left in the current window.
	Reset     int `json:"reset"`     // Seconds until the window resets.
}

// SyncResult summarizes one sync invocation over a date range.
//
// A date appears in SyncedDays as long as its per-day block completed,
// even when individual resource fetches inside it failed and were recorded
// in Errors. Downstream consumers decide what data exists by looking at the
// artifact directory, not at this list.
type SyncResult struct {
	Status     SyncStatus     `json:"status"`
	Message    string         `json:"message,omitempty"`
	SyncedDays []string       `json:"synced_days"`
	Errors     []string       `json:"errors"`
	Count      int            `json:"count"`
	RateLimit  *RateLimitInfo `json:"rate_limit_info,omitempty"`
}
