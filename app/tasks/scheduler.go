package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/miapress/newsmill/app/cfg"
	"github.com/miapress/newsmill/app/generate"
	"github.com/miapress/newsmill/app/ingest"
	"github.com/miapress/newsmill/app/publish"
	"github.com/miapress/newsmill/app/sources"
	"github.com/miapress/newsmill/app/topics"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache    *sources.Cache
	ingester       *ingest.Ingester
	generator      *generate.Generator
	themeGenerator *generate.ThemeGenerator
	ideator        *topics.Ideator
	publisher      *publish.Publisher

	interval         time.Duration
	ideationInterval time.Duration
	workerCount      int

	mu           sync.Mutex
	lastIdeation time.Time
	inFlight     map[TaskType]string

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(configCache *sources.Cache, ingester *ingest.Ingester,
	generator *generate.Generator, themeGenerator *generate.ThemeGenerator,
	ideator *topics.Ideator, publisher *publish.Publisher) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		configCache:      configCache,
		ingester:         ingester,
		generator:        generator,
		themeGenerator:   themeGenerator,
		ideator:          ideator,
		publisher:        publisher,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		ideationInterval: time.Duration(cfg.IdeationInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		inFlight:         make(map[TaskType]string),
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueuePipelineTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueuePipelineTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueuePipelineTasks schedules one full pipeline pass: ingest every enabled
// source, then generation, theme generation and publishing. Ideation runs on
// its own longer cadence since each run spends completion calls per category.
func (s *Scheduler) enqueuePipelineTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
	}

	for _, sourceConfig := range sourceConfigs {
		task := NewIngestSourceTask(sourceConfig.Name, sourceConfig, s.ingester)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue IngestSourceTask", "source", sourceConfig.Name, "error", err)
		}
	}

	s.enqueuePass(NewGeneratePassTask(s.generator))

	if s.ideationDue() {
		categories := s.configCache.GetCategories()
		s.enqueuePass(NewIdeatePassTask(s.ideator, categories))
	}

	s.enqueuePass(NewThemePassTask(s.themeGenerator))
	s.enqueuePass(NewPublishPassTask(s.publisher))
}

// enqueuePass submits a pipeline pass unless the previous pass of the same
// type is still running. A pass is global per type, so overlapping runs would
// pick up the same candidate rows from the database.
func (s *Scheduler) enqueuePass(task TaskInterface) {
	if !s.tryAcquirePass(task) {
		slog.Debug("Previous pass still running, skipping", "type", string(task.GetType()))
		return
	}

	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue pipeline pass", "type", string(task.GetType()), "error", err)
		s.releasePass(task)
	}
}

// tryAcquirePass marks the task's type as in flight. It fails while another
// task of the same type holds the slot.
func (s *Scheduler) tryAcquirePass(task TaskInterface) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.inFlight[task.GetType()]; held {
		return false
	}

	s.inFlight[task.GetType()] = task.GetID()
	return true
}

// releasePass frees the task's type slot. The task ID must match the holder
// so a task that never acquired the slot cannot release it.
func (s *Scheduler) releasePass(task TaskInterface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[task.GetType()] == task.GetID() {
		delete(s.inFlight, task.GetType())
	}
}

func (s *Scheduler) ideationDue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if !s.lastIdeation.IsZero() && now.Sub(s.lastIdeation) < s.ideationInterval {
		return false
	}

	s.lastIdeation = now
	return true
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 15*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err == nil {
		s.releasePass(task)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.releasePass(task)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// The retrying task keeps its in-flight slot until it settles
	go func() {
		time.Sleep(retryDelay)
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.releasePass(task)
			return
		default:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				s.releasePass(task)
			}
		}
	}()
}
