// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job represents a scheduled job.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

// NewJob wraps fn as a named Job.
func NewJob(name string, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// parser accepts standard five-field specs, an optional leading seconds
// field, and descriptors such as @hourly or @every 15m.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler manages background jobs.
type Scheduler struct {
	cron   *cron.Cron
	log    *zap.SugaredLogger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler. Jobs still running when their next tick
// arrives are skipped for that tick.
func New(log *zap.SugaredLogger) *Scheduler {
	log = log.With("component", "scheduler")
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Validate reports whether schedule can be parsed.
func Validate(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	stopped := s.cron.Stop()
	s.cancel()
	<-stopped.Done()
	s.log.Info("Scheduler stopped")
}

// AddJob registers a new job with a cron schedule.
// Schedule examples:
//   - "*/15 * * * *"       - Every 15 minutes
//   - "0 */5 * * * *"      - Every 5 minutes, with seconds
//   - "@hourly"            - Every hour
//   - "30 9-15 * * MON-FRI" - Half past, 9 AM to 3 PM on weekdays
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.execute(job)
	})
	if err != nil {
		return err
	}

	s.log.Infow("Job registered", "schedule", schedule, "job", job.Name())
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Infow("Running job immediately", "job", job.Name())
	return job.Run(s.ctx)
}

// Entries returns the next run time of every registered job.
func (s *Scheduler) Entries() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Next)
	}
	return next
}

func (s *Scheduler) execute(job Job) {
	start := time.Now()
	s.log.Debugw("Running job", "job", job.Name())

	if err := job.Run(s.ctx); err != nil {
		s.log.Errorw("Job failed", "job", job.Name(), "error", err, "duration", time.Since(start))
		return
	}
	s.log.Debugw("Job completed", "job", job.Name(), "duration", time.Since(start))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
