package job

import (
	"context"
	"fmt"
	"time"

	"rentassist/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ActivityPruner trims the activity feed to the most recent entries.
type ActivityPruner struct {
	log       repository.ActivityLog
	retention int
	logger    *zap.Logger
}

// NewActivityPruner creates an ActivityPruner keeping retention entries.
func NewActivityPruner(log repository.ActivityLog, retention int, logger *zap.Logger) *ActivityPruner {
	return &ActivityPruner{log: log, retention: retention, logger: logger}
}

// Run prunes once.
func (p *ActivityPruner) Run(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	removed, err := p.log.Prune(ctx, p.retention)
	if err != nil {
		p.logger.Error("activity prune failed", zap.Error(err))
		return 0, err
	}
	p.logger.Info("activity pruned", zap.Int64("removed", removed), zap.Int("kept", p.retention))
	return removed, nil
}

// StartCronJob schedules the pruner. spec uses the six-field format with
// seconds, e.g. "0 0 3 * * *" for 03:00 every day. Stop the returned cron
// on shutdown.
func StartCronJob(spec string, pruner *ActivityPruner) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		_, _ = pruner.Run(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}
