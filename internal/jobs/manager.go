// Package jobs runs batch extractions asynchronously and tracks their
// progress for polling and websocket subscribers.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/invoice-agent/backend/internal/logger"
	"github.com/invoice-agent/backend/internal/models"
)

// Status represents the batch job processing status.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Job represents an async batch extraction job.
type Job struct {
	ID          string                 `json:"id"`
	Status      Status                 `json:"status"`
	Progress    float64                `json:"progress"` // 0-100
	TotalFiles  int                    `json:"totalFiles"`
	DoneFiles   int                    `json:"doneFiles"`
	Results     []models.OCRFileResult `json:"results,omitempty"`
	Error       string                 `json:"error,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
}

// Extractor is the slice of the OCR service the manager needs.
type Extractor interface {
	ExtractBatchFunc(ctx context.Context, files []models.FileRef, done func(index int, result models.OCRFileResult)) []models.OCRFileResult
}

// Manager handles async batch extraction processing.
type Manager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	subscribers map[string][]chan Job
	extractor   Extractor
}

// NewManager creates a new batch job manager.
func NewManager(extractor Extractor) *Manager {
	return &Manager{
		jobs:        make(map[string]*Job),
		subscribers: make(map[string][]chan Job),
		extractor:   extractor,
	}
}

// StartJob begins async processing of a batch and returns immediately.
func (m *Manager) StartJob(files []models.FileRef) Job {
	job := &Job{
		ID:         uuid.New().String(),
		Status:     StatusProcessing,
		TotalFiles: len(files),
		CreatedAt:  time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go m.process(job.ID, files)
	return *job
}

// GetJob returns a snapshot of a job by id.
func (m *Manager) GetJob(id string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return snapshot(job), true
}

// Subscribe returns a channel receiving job snapshots after every
// per-file completion; it is closed when the job finishes. The second
// return is false when the job does not exist.
func (m *Manager) Subscribe(id string) (<-chan Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}

	ch := make(chan Job, 16)
	if job.Status != StatusProcessing {
		// Already done: deliver the final state and close.
		ch <- snapshot(job)
		close(ch)
		return ch, true
	}

	m.subscribers[id] = append(m.subscribers[id], ch)
	return ch, true
}

func (m *Manager) process(id string, files []models.FileRef) {
	logger.Sugar.Infow("batch job started", "job", id, "files", len(files))

	results := m.extractor.ExtractBatchFunc(context.Background(), files, func(index int, result models.OCRFileResult) {
		m.mu.Lock()
		job := m.jobs[id]
		job.DoneFiles = index + 1
		job.Progress = float64(job.DoneFiles) / float64(job.TotalFiles) * 100
		snap := snapshot(job)
		subs := m.subscribers[id]
		m.mu.Unlock()

		notify(subs, snap)
	})

	now := time.Now()
	m.mu.Lock()
	job := m.jobs[id]
	job.Results = results
	job.Progress = 100
	job.Status = StatusComplete
	job.CompletedAt = &now
	if allFailed(results) {
		job.Status = StatusError
		job.Error = "all files failed"
	}
	snap := snapshot(job)
	subs := m.subscribers[id]
	delete(m.subscribers, id)
	m.mu.Unlock()

	notifyFinal(subs, snap)
	for _, ch := range subs {
		close(ch)
	}
	logger.Sugar.Infow("batch job finished", "job", id, "status", job.Status)
}

// CleanupOldJobs drops finished jobs older than maxAge.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, job := range m.jobs {
		if job.Status == StatusProcessing {
			continue
		}
		if job.CompletedAt != nil && time.Since(*job.CompletedAt) > maxAge {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

func notify(subs []chan Job, snap Job) {
	for _, ch := range subs {
		select {
		case ch <- snap:
		default: // drop updates for slow subscribers
		}
	}
}

// notifyFinal must not drop: the terminal snapshot is the one frame
// every subscriber relies on seeing before the channel closes. When a
// buffer is full, stale progress frames give way to it.
func notifyFinal(subs []chan Job, snap Job) {
	for _, ch := range subs {
	send:
		for {
			select {
			case ch <- snap:
				break send
			default:
				select {
				case <-ch:
				default:
				}
			}
		}
	}
}

func allFailed(results []models.OCRFileResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Success {
			return false
		}
	}
	return true
}

func snapshot(job *Job) Job {
	copied := *job
	if job.Results != nil {
		copied.Results = append([]models.OCRFileResult(nil), job.Results...)
	}
	return copied
}
