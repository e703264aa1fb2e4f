// File: internal/jobs/token_sweep.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"fintrack_backend/internal/config"
	"fintrack_backend/internal/user"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshTokenSweepJob holds dependencies for the refresh token sweep job.
// The sweep clears stored refresh tokens whose expiry has passed so stale
// credentials do not linger on user rows indefinitely.
type RefreshTokenSweepJob struct {
	userRepo      user.Repository
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewRefreshTokenSweepJob creates a new RefreshTokenSweepJob.
func NewRefreshTokenSweepJob(
	userRepo user.Repository,
	logger *zap.Logger,
	cfg *config.Config,
) *RefreshTokenSweepJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &RefreshTokenSweepJob{
		userRepo:      userRepo,
		logger:        logger.Named("RefreshTokenSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *RefreshTokenSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.RefreshTokenSweepSchedule // e.g. "@daily", "0 2 * * *"
	if jobSpec == "" {
		j.logger.Warn("Refresh token sweep schedule not defined (REFRESH_TOKEN_SWEEP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule refresh token sweep job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Refresh token sweep job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *RefreshTokenSweepJob) runJob() {
	j.logger.Info("Starting refresh token sweep run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cleared, err := j.userRepo.ClearExpiredRefreshTokens(ctx, time.Now())
	if err != nil {
		j.logger.Error("Refresh token sweep run failed", zap.Error(err))
	} else {
		j.logger.Info("Refresh token sweep run completed", zap.Int64("tokens_cleared", cleared))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *RefreshTokenSweepJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping refresh token sweep scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Refresh token sweep scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Refresh token sweep scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
