package constants

// RunStatus is the terminal state of a cleaning run, recorded on the QA report.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning RunStatus = "RUNNING" // in progress
	RunStatusCleaned RunStatus = "CLEANED" // canonical table produced
	RunStatusWritten RunStatus = "WRITTEN" // sinks accepted the table
	RunStatusFailed  RunStatus = "FAILED"  // batch-level fatal defect
)
