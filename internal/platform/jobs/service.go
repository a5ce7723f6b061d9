package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Service runs queued jobs on a single background worker. Enqueue never
// blocks; jobs that do not fit in the queue are dropped with a warning.
type Service struct {
	queue   chan job
	timeout time.Duration
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool

	// OnResult observes each finished job. Optional.
	OnResult func(jobType string, err error)
}

type job struct {
	Type string
	Run  func(context.Context) error
}

func New(size int, timeout time.Duration) *Service {
	if size <= 0 {
		size = 128
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		queue:   make(chan job, size),
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

func (s *Service) Start() {
	go s.worker()
}

// Enqueue reports whether the job was accepted.
func (s *Service) Enqueue(jobType string, run func(context.Context) error) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		slog.Warn("job queue closed", "jobType", jobType)
		return false
	}
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish or ctx to end.
func (s *Service) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
	})
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) worker() {
	defer close(s.done)
	for j := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.runJob(ctx, j); err != nil {
			slog.Warn("job run failed", "jobType", j.Type, "err", err)
		}
		cancel()
	}
}

func (s *Service) runJob(ctx context.Context, j job) error {
	err := j.Run(ctx)
	if s.OnResult != nil {
		s.OnResult(j.Type, err)
	}
	return err
}
