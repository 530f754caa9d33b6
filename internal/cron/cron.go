package cron

import (
	"context"
	"time"

	"intake/config"
	"intake/internal/ratelimit"
	"intake/internal/service"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

const (
	// 每日 03:00 UTC 清理過期紀錄
	defaultRetentionSchedule = "0 0 3 * * *"
	// 每 10 分鐘回收閒置的 rate-limit key
	idleSweepSchedule = "0 */10 * * * *"
)

type Cron struct {
	logger           *zap.Logger
	config           *config.Configuration
	server           *cron.Cron
	retentionService *service.RetentionService
	limiter          *ratelimit.Limiter
}

// NewCron .
func NewCron(
	logger *zap.Logger,
	config *config.Configuration,
	retentionService *service.RetentionService,
	limiter *ratelimit.Limiter,
) *Cron {
	server := cron.New(
		cron.WithSeconds(),
	)

	return &Cron{
		logger:           logger,
		config:           config,
		server:           server,
		retentionService: retentionService,
		limiter:          limiter,
	}
}

func (c *Cron) Run() error {
	if c.config.Retention.Enabled {
		schedule := c.config.Retention.Schedule
		if schedule == "" {
			schedule = defaultRetentionSchedule
		}
		if _, err := c.server.AddFunc(schedule, c.retentionJob); err != nil {
			return err
		}
		c.logger.Info("retention job scheduled",
			zap.String("schedule", schedule),
			zap.Int("days", c.config.Retention.Days),
		)
	}

	if _, err := c.server.AddFunc(idleSweepSchedule, c.idleSweepJob); err != nil {
		return err
	}

	c.server.Start()
	return nil
}

func (c *Cron) retentionJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := c.retentionService.Sweep(ctx, "cron"); err != nil {
		c.logger.Error("scheduled retention sweep failed", zap.Error(err))
	}
}

func (c *Cron) idleSweepJob() {
	removed := c.limiter.SweepIdle(time.Now(), ratelimit.DefaultIdleCutoff)
	if removed > 0 {
		c.logger.Info("rate limit idle keys swept",
			zap.Int("removed", removed),
			zap.Int("remaining", c.limiter.Len()),
		)
	}
}

func (c *Cron) Stop(ctx context.Context) error {
	stopped := c.server.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
