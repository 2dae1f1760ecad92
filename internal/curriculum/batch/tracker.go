package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Progress is a point-in-time snapshot of one batch.
type Progress struct {
	BatchID        uuid.UUID `json:"batchId"`
	UserID         uuid.UUID `json:"-"`
	Status         Status    `json:"status"`
	TotalUnits     int       `json:"totalUnits"`
	CompletedUnits int       `json:"completedUnits"`
	Lessons        int       `json:"lessons"`
	Report         *Report   `json:"report,omitempty"`
	Error          string    `json:"error,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Tracker keeps in-memory progress for polling. Finished batches are evicted
// after retain.
type Tracker struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*Progress
	retain  time.Duration
	now     func() time.Time
}

func NewTracker(retain time.Duration) *Tracker {
	return &Tracker{batches: map[uuid.UUID]*Progress{}, retain: retain, now: time.Now}
}

func (t *Tracker) Start(batchID, userID uuid.UUID, totalUnits int) Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictLocked()
	p := &Progress{
		BatchID:    batchID,
		UserID:     userID,
		Status:     StatusRunning,
		TotalUnits: totalUnits,
		UpdatedAt:  t.now(),
	}
	t.batches[batchID] = p
	return *p
}

func (t *Tracker) UnitDone(batchID uuid.UUID, lessons int) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.batches[batchID]
	if !ok {
		return Progress{}, false
	}
	p.CompletedUnits++
	p.Lessons += lessons
	p.UpdatedAt = t.now()
	return *p, true
}

func (t *Tracker) Finish(batchID uuid.UUID, report Report, err error) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.batches[batchID]
	if !ok {
		return Progress{}, false
	}
	r := report
	p.Report = &r
	p.Lessons = len(report.Items)
	switch {
	case err != nil:
		p.Status = StatusFailed
		p.Error = err.Error()
	case report.Cancelled:
		p.Status = StatusCancelled
	default:
		p.Status = StatusCompleted
	}
	p.UpdatedAt = t.now()
	return *p, true
}

func (t *Tracker) Get(batchID uuid.UUID) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.batches[batchID]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}

func (t *Tracker) evictLocked() {
	if t.retain <= 0 {
		return
	}
	cutoff := t.now().Add(-t.retain)
	for id, p := range t.batches {
		if p.Status != StatusRunning && p.UpdatedAt.Before(cutoff) {
			delete(t.batches, id)
		}
	}
}
