package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"researcher/internal/config"
	"researcher/internal/core/research"
	"researcher/internal/logger"
	"researcher/internal/platform/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskPayload is the queue message for one research run.
type TaskPayload struct {
	JobID string `json:"job_id"`
	Input string `json:"input"`
	URL   string `json:"url,omitempty"`
}

// Runner accepts research requests, dispatches them through the task queue
// and drives the pipeline on the worker side, persisting progress after
// every stage.
type Runner struct {
	jobs     *Service
	tasks    *tasks.Client
	pipeline *research.Pipeline
	config   config.Config
	log      *logger.Logger
}

func NewRunner(jobs *Service, tasks *tasks.Client, pipeline *research.Pipeline, cfg config.Config) *Runner {
	return &Runner{jobs: jobs, tasks: tasks, pipeline: pipeline, config: cfg, log: logger.New("Runner")}
}

// Enqueue creates the pending document and dispatches the task. The id is
// pollable as soon as Enqueue returns.
func (r *Runner) Enqueue(ctx context.Context, input, url string) (string, error) {
	id := uuid.New().String()
	if _, err := r.jobs.InitPending(ctx, id, input, url); err != nil {
		return "", err
	}
	payload, _ := json.Marshal(TaskPayload{JobID: id, Input: input, URL: url})
	task := asynq.NewTask(tasks.TaskTypeResearch, payload)
	if err := r.tasks.Enqueue(task, "default", r.config.TaskMaxRetries); err != nil {
		return "", err
	}
	r.log.LogInfof("enqueued research job %s for %q", id, input)
	return id, nil
}

// HandleResearchTask is the asynq handler. Application-level failures are
// recorded on the document and swallowed so the queue never retries them;
// only a payload decode error is returned.
func (r *Runner) HandleResearchTask(ctx context.Context, task *asynq.Task) error {
	var p TaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	r.run(ctx, p)
	return nil
}

// run drives the pipeline for one job. It is the terminal error boundary:
// nothing propagates past it, including panics.
func (r *Runner) run(ctx context.Context, p TaskPayload) {
	doc, err := r.jobs.Get(ctx, p.JobID)
	if err != nil {
		// Pending doc expired or was never written; rebuild it.
		doc, err = r.jobs.InitPending(ctx, p.JobID, p.Input, p.URL)
		if err != nil {
			r.log.LogErrorf("job %s: init failed: %v", p.JobID, err)
			return
		}
	}
	if doc.Terminal() {
		r.log.LogWarnf("job %s already %s, skipping redelivery", doc.ID, doc.Status)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(ctx, doc, fmt.Sprintf("panic: %v", rec))
		}
	}()

	doc.Status = StatusRunning
	if err := r.jobs.Save(ctx, doc); err != nil {
		r.log.LogErrorf("job %s: save running: %v", doc.ID, err)
		return
	}
	r.log.LogInfof("processing research job %s for %q", doc.ID, doc.Input)

	seed := research.Seed{RawInput: p.Input, ExplicitURL: p.URL}
	_, err = r.pipeline.Run(ctx, seed, func(stage research.Stage, rec *research.Record) error {
		merge(doc, rec)
		doc.StepsComplete = append(doc.StepsComplete, string(stage))
		return r.jobs.Save(ctx, doc)
	})
	if err != nil {
		r.fail(ctx, doc, err.Error())
		return
	}

	doc.Status = StatusComplete
	doc.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	if err := r.jobs.Save(ctx, doc); err != nil {
		r.log.LogErrorf("job %s: save complete: %v", doc.ID, err)
		return
	}
	r.log.LogInfof("research job %s complete with %d steps", doc.ID, len(doc.StepsComplete))
}

func (r *Runner) fail(ctx context.Context, doc *Document, msg string) {
	doc.Status = StatusError
	doc.Error = msg
	doc.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	if err := r.jobs.Save(ctx, doc); err != nil {
		r.log.LogErrorf("job %s: save error state: %v", doc.ID, err)
	}
	r.log.LogErrorf("research job %s failed: %s", doc.ID, msg)
}

// merge copies the record's caller-visible fields onto the document.
// Additive only: fields already set are replaced with the record's current
// value, never cleared.
func merge(doc *Document, rec *research.Record) {
	doc.Profile = rec.Profile
	doc.RecentNewsSummary = rec.NewsSummary
	doc.JobOpenings = rec.JobListings
	doc.ClientBrief = rec.Brief
	if rec.CareersURL != "" {
		doc.CareersURL = rec.CareersURL
	}
	if rec.WebsiteURL != "" && doc.URL == "" {
		doc.URL = rec.WebsiteURL
	}
}
