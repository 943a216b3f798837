package model

// Job states for a tracked asynchronous backend task. Jobs are ephemeral and
// never persisted; they exist only while a poller is running.
const (
	JobPending  = "pending"
	JobPolling  = "polling"
	JobDone     = "done"
	JobError    = "error"
	JobNotFound = "not_found"
	JobTimedOut = "timed_out"
)

// Job kinds
const (
	JobKindProcess             = "process"
	JobKindClauseAnalysisStart = "clause_analysis_start"
)
