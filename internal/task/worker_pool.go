package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue. Workers exit once the queue is closed and drained.
type WorkerPool struct {
	taskQueue   TaskQueueReader
	workerCount int
	taskTimeout time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	logger *slog.Logger

	// errorHandler is called when a task execution fails
	// If nil, errors are only logged
	errorHandler func(task Task, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int

	// TaskTimeout bounds a single task execution. Zero means no limit.
	TaskTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
		TaskTimeout: 30 * time.Second,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "worker_pool")

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		taskTimeout: config.TaskTimeout,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// SetErrorHandler allows setting a custom error handler for task execution failures.
// It must be called before Start.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// Start launches the workers. Calling it more than once has no effect.
func (p *WorkerPool) Start() {
	p.once.Do(func() {
		p.logger.Info("starting worker pool", "worker_count", p.workerCount)
		for i := 0; i < p.workerCount; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
	})
}

// Stop waits for the workers to drain the queue, which the caller must have
// closed. If ctx ends first, running tasks are cancelled and ctx.Err() is returned.
func (p *WorkerPool) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		p.logger.Warn("worker pool stopped before queue was drained", "error", ctx.Err())
		return ctx.Err()
	}
}

func (p *WorkerPool) worker(n int) {
	defer p.wg.Done()
	log := p.logger.With("worker", n)

	for task := range p.taskQueue.GetChannel() {
		if p.ctx.Err() != nil {
			log.Warn("skipping task after shutdown", "task_id", task.ID(), "task_type", task.Type())
			continue
		}
		p.run(log, task)
	}
}

func (p *WorkerPool) run(log *slog.Logger, task Task) {
	ctx := p.ctx
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("task panicked", "task_id", task.ID(), "task_type", task.Type(), "panic", r)
		}
	}()

	start := time.Now()
	if err := task.Execute(ctx); err != nil {
		log.Error("task failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err,
			"duration", time.Since(start))
		if p.errorHandler != nil {
			p.errorHandler(task, err)
		}
		return
	}

	log.Debug("task completed",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"duration", time.Since(start))
}
