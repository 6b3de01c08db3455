package dotbak

import (
	"context"
	"time"
)

// RunDaemon syncs right away and then every delay_between_sync seconds
// until ctx is cancelled. A failed sync is logged and retried on the next
// tick. Cancellation is a clean shutdown and returns nil.
func (d *Dotbak) RunDaemon(ctx context.Context) error {
	interval := d.config.SyncInterval()
	d.logger.Info().Dur("interval", interval).Msg("Starting sync daemon")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		d.syncOnce(ctx)

		select {
		case <-ctx.Done():
			d.logger.Info().Msg("Sync daemon stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (d *Dotbak) syncOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := d.Sync(ctx); err != nil {
		d.logger.Error().Err(err).Msg("Sync failed")
		return
	}
	d.logger.Debug().Dur("duration", time.Since(start)).Msg("Sync finished")
}
