package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// SweepSchedule runs the SLA sweep every five minutes.
const SweepSchedule = "*/5 * * * *"

const sweepTimeout = time.Minute

// Sweeper finds and reports overdue tickets.
type Sweeper interface {
	Sweep(ctx context.Context) ([]domain.Ticket, error)
}

// SLAWatchdog schedules periodic sweeps. A failed or panicking sweep is logged and the schedule continues.
type SLAWatchdog struct {
	sweeper Sweeper
	metrics *observability.Metrics
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewSLAWatchdog builds the watchdog on the given schedule.
func NewSLAWatchdog(sweeper Sweeper, metrics *observability.Metrics, logger *zap.Logger, schedule string) (*SLAWatchdog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := zapCronLogger{logger: logger.Named("cron")}
	w := &SLAWatchdog{
		sweeper: sweeper,
		metrics: metrics,
		logger:  logger,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}
	if _, err := w.cron.AddFunc(schedule, w.RunOnce); err != nil {
		return nil, err
	}
	return w, nil
}

// Start begins the schedule in the background.
func (w *SLAWatchdog) Start() {
	w.cron.Start()
	w.logger.Info("sla watchdog started")
}

// Stop halts the schedule and waits for a running sweep.
func (w *SLAWatchdog) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info("sla watchdog stopped")
}

// RunOnce performs a single sweep.
func (w *SLAWatchdog) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	overdue, err := w.sweeper.Sweep(ctx)
	w.metrics.RecordWatchdogRun(len(overdue), err)
	if err != nil {
		w.logger.Error("sla sweep failed", zap.Error(err))
		return
	}
	if len(overdue) > 0 {
		w.logger.Warn("sla breached", zap.Int("tickets", len(overdue)))
	}
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
