package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusExecuting JobStatus = "executing"
	StatusCompleted JobStatus = "completed"
	StatusError     JobStatus = "error"
)

// Job tracks one submitted review from upload to stored run.
type Job struct {
	Token     string    `json:"token"`
	Project   string    `json:"project"`
	Mode      string    `json:"mode"`
	Status    JobStatus `json:"status"`
	RunID     string    `json:"run_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

func (s *JobStore) Create(project, mode string) *Job {
	job := &Job{
		Token:     uuid.NewString(),
		Project:   project,
		Mode:      mode,
		Status:    StatusQueued,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.jobs[job.Token] = job
	s.mu.Unlock()
	return job
}

// Get returns a copy so callers never race with status transitions.
func (s *JobStore) Get(token string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[token]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (s *JobStore) MarkExecuting(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[token]; ok {
		job.Status = StatusExecuting
	}
}

func (s *JobStore) MarkCompleted(token, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[token]; ok {
		job.Status = StatusCompleted
		job.RunID = runID
	}
}

func (s *JobStore) MarkError(token, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[token]; ok {
		job.Status = StatusError
		job.Error = reason
	}
}
