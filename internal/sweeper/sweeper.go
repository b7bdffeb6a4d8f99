package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one unit of reconciliation work. Tasks must be idempotent: the
// guarded status updates underneath make a repeated run a no-op.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Config struct {
	Interval   time.Duration
	MaxWorkers int
	BatchSize  int
}

// Sweeper periodically reconciles stored state that is only updated lazily:
// elapsed approved bookings become completed, stale payments expire. Reads
// never depend on it having run; it exists so stored rows converge with what
// the read path already reports.
type Sweeper struct {
	config Config
	tasks  []Task
	logger *slog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(config Config, logger *slog.Logger) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 2
	}

	return &Sweeper{
		config: config,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

func (s *Sweeper) Register(task Task) {
	s.tasks = append(s.tasks, task)
	s.logger.Info("sweep task registered", "task", task.Name)
}

// Start runs the sweep loop until Stop is called or ctx is cancelled. One
// sweep runs immediately so a restart does not wait a full interval.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.logger.Info("sweeper started",
			"interval", s.config.Interval,
			"workers", s.config.MaxWorkers,
			"tasks", len(s.tasks))

		s.sweep(ctx)

		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stopCh:
				s.logger.Info("sweeper stopped")
				return
			case <-ctx.Done():
				s.logger.Info("sweeper context cancelled")
				return
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

// sweep fans the registered tasks out over a bounded worker pool and waits
// for the round to finish before the next tick fires.
func (s *Sweeper) sweep(ctx context.Context) {
	if len(s.tasks) == 0 {
		return
	}

	jobs := make(chan Task, len(s.tasks))
	var wg sync.WaitGroup

	workers := s.config.MaxWorkers
	if workers > len(s.tasks) {
		workers = len(s.tasks)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				started := time.Now()
				if err := task.Run(ctx); err != nil {
					s.logger.Error("sweep task failed",
						"task", task.Name,
						"error", err,
						"elapsed", time.Since(started))
					continue
				}
				s.logger.Debug("sweep task finished",
					"task", task.Name,
					"elapsed", time.Since(started))
			}
		}()
	}

	for _, task := range s.tasks {
		jobs <- task
	}
	close(jobs)

	wg.Wait()
}
