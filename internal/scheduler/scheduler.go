package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-today/internal/app"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-today/internal/observability/logging"
)

const (
	DayRolloverSchedule = "@midnight"
	DefaultResync       = "@every 5m"
	AlertSchedule       = "* * * * *"

	jobTimeout = 30 * time.Second
)

type Config struct {
	Location       *time.Location
	ResyncSchedule string
}

// Scheduler runs the periodic reminder jobs: day rollover notifications,
// store resyncs and due alert dispatch.
type Scheduler struct {
	cron      *cron.Cron
	publisher pubsub.Publisher
	alerts    app.AlertUseCase
	clock     app.Clock
	cfg       Config

	mu       sync.Mutex
	entryIDs map[string]cron.EntryID
	stopOnce sync.Once
}

func New(cfg Config, publisher pubsub.Publisher, alerts app.AlertUseCase, clock app.Clock) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	if cfg.ResyncSchedule == "" {
		cfg.ResyncSchedule = DefaultResync
	}

	if clock == nil {
		clock = time.Now
	}

	return &Scheduler{
		cron:      newCron(cfg.Location),
		publisher: publisher,
		alerts:    alerts,
		clock:     clock,
		cfg:       cfg,
		entryIDs:  make(map[string]cron.EntryID),
	}
}

func newCron(loc *time.Location) *cron.Cron {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	logger := cronLogger{}

	return cron.New(
		cron.WithParser(parser),
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
}

// Register adds every job without starting the cron loop.
func (s *Scheduler) Register() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) error
	}{
		{name: "day_rollover", schedule: DayRolloverSchedule, run: s.RolloverDay},
		{name: "resync", schedule: s.cfg.ResyncSchedule, run: s.Resync},
		{name: "due_alerts", schedule: AlertSchedule, run: s.DispatchAlerts},
	}

	for _, job := range jobs {
		if _, exists := s.entryIDs[job.name]; exists {
			continue
		}

		j := job
		entryID, err := s.cron.AddFunc(j.schedule, func() {
			s.execute(j.name, j.run)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression for %q: %w", j.name, err)
		}

		s.entryIDs[j.name] = entryID

		slog.Info("scheduler job registered",
			"job", j.name,
			"schedule", j.schedule,
		)
	}

	return nil
}

// Start registers the jobs and runs them until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.Register(); err != nil {
		return err
	}

	s.cron.Start()

	slog.Info("scheduler started",
		"jobs", len(s.cron.Entries()),
		"location", s.cfg.Location.String(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for running jobs. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()

		slog.Info("scheduler stopped")
	})
}

// Next reports when job runs next, or false when it is not registered.
func (s *Scheduler) Next(job string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entryIDs[job]
	s.mu.Unlock()

	if !ok {
		return time.Time{}, false
	}

	entry := s.cron.Entry(id)

	return entry.Schedule.Next(s.clock().In(s.cfg.Location)), entry.Valid()
}

func (s *Scheduler) RolloverDay(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}

	return s.publisher.PublishRemindersChanged(ctx, pubsub.ChangeEvent{
		Reason:     pubsub.ReasonDayRollover,
		OccurredAt: s.clock(),
	})
}

func (s *Scheduler) Resync(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}

	return s.publisher.PublishStoreChanged(ctx, pubsub.StoreChangedEvent{
		Source:     "scheduler",
		OccurredAt: s.clock(),
	})
}

func (s *Scheduler) DispatchAlerts(ctx context.Context) error {
	if s.alerts == nil {
		return nil
	}

	_, err := s.alerts.DispatchDue(ctx, s.clock())

	return err
}

func (s *Scheduler) execute(name string, run func(context.Context) error) {
	ctx := logging.WithModule(context.Background(), logging.ModuleScheduler)
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()

	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "scheduler job failed",
			"job", name,
			"error", err,
		)

		return
	}

	slog.DebugContext(ctx, "scheduler job finished",
		"job", name,
		"duration", time.Since(start),
	)
}

// cronLogger routes robfig/cron output through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
