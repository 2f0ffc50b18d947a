package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"

	"github.com/zelican/chat-api/internal/config"
	"github.com/zelican/chat-api/internal/domain/chat"
	"github.com/zelican/chat-api/internal/infrastructure/logger"
	"github.com/zelican/chat-api/internal/infrastructure/metrics"
	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

const jobTimeout = 10 * time.Minute

// Crontab runs the tombstone retention job. Soft deleted conversations
// stay recoverable until they age past the configured retention window.
type Crontab struct {
	ctab    *crontab.Crontab
	cfg     *config.Config
	service *chat.Service
}

func New(cfg *config.Config, service *chat.Service) *Crontab {
	return &Crontab{
		ctab:    crontab.New(),
		cfg:     cfg,
		service: service,
	}
}

// Run schedules the purge job when enabled and blocks until the context
// is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	if c.cfg.PurgeEnabled {
		// run once on startup, then on schedule
		c.purge(ctx)

		if err := c.ctab.AddJob(c.cfg.PurgeCron, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			c.purge(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to schedule purge job")
		}
		log.Info().Str("cron", c.cfg.PurgeCron).Int("retention_days", c.cfg.PurgeRetentionDays).
			Msg("conversation purge scheduled")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) purge(ctx context.Context) {
	log := logger.GetLogger()
	cutoff := time.Now().AddDate(0, 0, -c.cfg.PurgeRetentionDays)

	removed, err := c.service.PurgeDeleted(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("conversation purge failed")
		return
	}
	if removed > 0 {
		metrics.PurgedConversationsTotal.Add(float64(removed))
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("purged deleted conversations")
	}
}
