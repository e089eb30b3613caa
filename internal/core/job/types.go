// Package job owns the durable lifecycle around one research run: the
// pollable document, its store, the queue runner and the HTTP handler.
package job

import "researcher/internal/core/research"

type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Document is the whole job record as stored and as returned to pollers.
// It is always written as one value, so a reader sees either the previous
// snapshot or the new one, never a mix. Stages only ever add fields and
// append to StepsComplete; nothing is removed on the way to a terminal
// status.
type Document struct {
	ID                string                `json:"job_id"`
	Status            Status                `json:"status"`
	Input             string                `json:"input"`
	URL               string                `json:"url,omitempty"`
	StepsComplete     []string              `json:"steps_complete"`
	Profile           *research.Profile     `json:"profile,omitempty"`
	JobOpenings       []research.JobListing `json:"job_openings"`
	RecentNewsSummary string                `json:"recent_news_summary,omitempty"`
	ClientBrief       *research.Brief       `json:"client_brief,omitempty"`
	CareersURL        string                `json:"careers_url,omitempty"`
	Error             string                `json:"error,omitempty"`
	CreatedAt         string                `json:"created_at"`
	CompletedAt       string                `json:"completed_at,omitempty"`
}

// Terminal reports whether the document will no longer change.
func (d *Document) Terminal() bool {
	return d.Status == StatusComplete || d.Status == StatusError
}
