package datasync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/ashare/pkg/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

// Scheduler runs sync jobs on cron schedules with retry on failure.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
	jobs   map[string]Job
	mu     sync.RWMutex

	maxRetries int
	retryDelay time.Duration
}

// NewScheduler creates a scheduler.
func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		logger:     log,
		jobs:       make(map[string]Job),
		maxRetries: 3,
		retryDelay: 1 * time.Minute,
	}
}

// AddJob registers a job with the scheduler.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	if _, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	}); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// RunJob runs a registered job immediately, outside its schedule.
func (s *Scheduler) RunJob(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	go s.runJob(job)
	return nil
}

func (s *Scheduler) runJob(job Job) {
	name := job.Name()
	start := time.Now()
	s.logger.WithField("job", name).Info("Job started")

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		lastErr = job.Run(context.Background())
		if lastErr == nil {
			break
		}
		s.logger.WithFields(map[string]interface{}{
			"job":     name,
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		}).Warn("Job execution failed, retrying")
		if attempt < s.maxRetries {
			time.Sleep(s.retryDelay)
		}
	}

	duration := time.Since(start)
	if lastErr != nil {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": duration,
			"error":    lastErr.Error(),
		}).Error("Job failed after all retries")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"duration": duration,
	}).Info("Job completed successfully")
}

// SyncJob runs a full sync for a set of securities on a cron schedule.
type SyncJob struct {
	service  *Service
	tsCodes  []string
	schedule string
}

// NewSyncJob creates a sync job. The schedule uses standard five-field
// cron syntax.
func NewSyncJob(service *Service, tsCodes []string, schedule string) *SyncJob {
	return &SyncJob{service: service, tsCodes: tsCodes, schedule: schedule}
}

func (j *SyncJob) Name() string     { return "data_sync" }
func (j *SyncJob) Schedule() string { return j.schedule }

func (j *SyncJob) Run(ctx context.Context) error {
	for _, tsCode := range j.tsCodes {
		if err := j.service.SyncAll(ctx, tsCode); err != nil {
			return err
		}
	}
	return nil
}
