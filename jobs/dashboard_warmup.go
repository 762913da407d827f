package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/samudra-erp/samudra-erp/internal/dashboard"
)

// DashboardWarmupJob recomputes the dashboard summary ahead of requests.
type DashboardWarmupJob struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc *dashboard.Service, logger *slog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboard: svc, Logger: logger}
}

// Handle processes TaskDashboardWarmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Reason == "" {
		payload.Reason = "scheduled"
	}

	started := time.Now()
	summary, err := j.Dashboard.Refresh(ctx)
	if err != nil {
		j.logger().Error("dashboard warmup failed",
			slog.String("reason", payload.Reason),
			slog.Any("error", err),
		)
		return err
	}
	j.logger().Info("dashboard warmup completed",
		slog.String("reason", payload.Reason),
		slog.Time("generated_at", summary.GeneratedAt),
		slog.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
