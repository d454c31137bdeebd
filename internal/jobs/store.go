package jobs

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultRetention is how long a job record survives after its first
// observed terminal status.
const DefaultRetention = 60 * time.Second

// Record tracks one in-flight edit job. Only Status mutates after insertion.
type Record struct {
	ID             string    `json:"jobId"`
	Status         string    `json:"status"`
	Prompt         string    `json:"prompt"`
	SourceImageURL string    `json:"sourceImageUrl,omitempty"`
	ModelType      string    `json:"modelType"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store is the transient, process-local job map. Records exist only between
// a provider-acknowledged submission and eviction; everything is lost on
// restart by design.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]Record
	scheduled map[string]struct{}
	retention time.Duration
	logger    *zap.Logger
}

// NewStore builds a store. A retention of zero or less falls back to
// DefaultRetention.
func NewStore(retention time.Duration, logger *zap.Logger) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		jobs:      make(map[string]Record),
		scheduled: make(map[string]struct{}),
		retention: retention,
		logger:    logger,
	}
}

// Put inserts a record. Called only on first submission from the edit path.
func (s *Store) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[rec.ID] = rec
}

// Get returns the record for id, if present.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.jobs[id]
	return rec, ok
}

// UpdateStatus replaces the status of an existing record, preserving every
// other field. Concurrent updates on the same id race benignly: status is
// monotonic toward terminal, so last-write-wins is acceptable.
func (s *Store) UpdateStatus(id, status string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok {
		return Record{}, false
	}
	rec.Status = status
	s.jobs[id] = rec
	return rec, true
}

// ScheduleEviction arms a one-shot removal of id after the retention window.
// Idempotent: two polls both observing a terminal status arm exactly one
// timer. Returns true if a timer was armed by this call.
func (s *Store) ScheduleEviction(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return false
	}
	if _, already := s.scheduled[id]; already {
		return false
	}
	s.scheduled[id] = struct{}{}

	time.AfterFunc(s.retention, func() {
		s.remove(id)
	})
	return true
}

// Len reports the number of live records, for health reporting.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	delete(s.scheduled, id)
	if s.logger != nil {
		s.logger.Debug("evicted terminal job", zap.String("job_id", id))
	}
}
