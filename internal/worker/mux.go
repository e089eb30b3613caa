// Package worker hosts the task mux the queue consumer side of the
// research service runs. Handlers are registered per task type and served
// by the asynq server in cmd/main.go.
package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

// Mux maps task types to their handlers.
type Mux struct{ mux *asynq.ServeMux }

func NewMux() *Mux { return &Mux{mux: asynq.NewServeMux()} }

// HandleFunc registers a handler for one task type, e.g. the research
// runner for tasks.TaskTypeResearch.
func (m *Mux) HandleFunc(taskType string, h func(ctx context.Context, task *asynq.Task) error) {
	m.mux.HandleFunc(taskType, h)
}

// Mux exposes the underlying asynq mux for the server to serve.
func (m *Mux) Mux() *asynq.ServeMux { return m.mux }
