package job

import (
	"context"
	"fmt"
	"time"

	"researcher/internal/core/research"
)

// Store is the persistence surface the job service needs. The Redis
// platform service satisfies it; tests use an in-memory map.
type Store interface {
	CacheGet(ctx context.Context, key string, dest interface{}) error
	CacheSet(ctx context.Context, key string, value interface{}, ttlSeconds int) error
}

type Service struct{ store Store }

func NewService(store Store) *Service { return &Service{store: store} }

// InitPending writes the initial pending document for a freshly accepted
// request so the id is pollable before the worker picks the task up.
func (s *Service) InitPending(ctx context.Context, jobID, input, url string) (*Document, error) {
	doc := &Document{
		ID:            jobID,
		Status:        StatusPending,
		Input:         input,
		URL:           url,
		StepsComplete: []string{},
		JobOpenings:   []research.JobListing{},
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, jobID string) (*Document, error) {
	var doc Document
	if err := s.store.CacheGet(ctx, key(jobID), &doc); err != nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return &doc, nil
}

// Save persists the whole document. Terminal documents get a longer TTL
// so results stay pollable after the run finishes.
func (s *Service) Save(ctx context.Context, doc *Document) error {
	if doc.StepsComplete == nil {
		doc.StepsComplete = []string{}
	}
	if doc.JobOpenings == nil {
		doc.JobOpenings = []research.JobListing{}
	}
	return s.store.CacheSet(ctx, key(doc.ID), doc, ttl(doc.Status))
}

func key(id string) string { return "job:" + id }

func ttl(s Status) int {
	if s == StatusComplete || s == StatusError {
		return 3600
	}
	return 600
}
