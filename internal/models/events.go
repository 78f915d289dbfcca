package models

// JobEventType names a change to the public job list.
type JobEventType string

const (
	JobPosted   JobEventType = "posted"
	JobUpdated  JobEventType = "updated"
	JobFrozen   JobEventType = "frozen"
	JobUnfrozen JobEventType = "unfrozen"
)

// JobEvent is published on the jobs feed so live lists can refresh.
type JobEvent struct {
	Type    JobEventType `json:"type"`
	JobID   string       `json:"job_id"`
	HirerID string       `json:"hirer_id"`
}
