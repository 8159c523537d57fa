package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/configs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/services"

	"github.com/adhocore/gronx"
)

// StartDedupeScheduler runs the conversation deduplicator on the
// configured cron expression until the returned cancel func is called.
// maintenance.dedupe_enabled turns the schedule off; the HTTP trigger
// stays available either way.
func StartDedupeScheduler(ctx context.Context, config *configs.Config, dedupService *services.DedupService) (context.CancelFunc, error) {
	if !config.Viper.GetBool("maintenance.dedupe_enabled") {
		logger.Info("dedupe scheduler disabled")
		return func() {}, nil
	}

	cronExpr := config.Viper.GetString("maintenance.dedupe_cron")
	if cronExpr == "" {
		cronExpr = "0 3 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid dedupe cron expression: %s", cronExpr)
	}

	ctx, cancel := context.WithCancel(ctx)
	go runScheduler(ctx, cronExpr, dedupService)

	logger.Info("dedupe scheduler started", "cron", cronExpr)
	return cancel, nil
}

// runScheduler sleeps until the next cron tick and runs the sweep. Runs
// are sequential: a slow sweep pushes the next one back rather than
// overlapping it.
func runScheduler(ctx context.Context, cronExpr string, dedupService *services.DedupService) {
	for {
		next, err := gronx.NextTickAfter(cronExpr, time.Now().UTC(), false)
		if err != nil {
			logger.Error("failed to compute next dedupe tick", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if _, err := dedupService.Run(); err != nil {
				logger.Error("scheduled dedupe run failed", "error", err)
			}
		case <-ctx.Done():
			logger.Info("dedupe scheduler stopping")
			return
		}
	}
}
