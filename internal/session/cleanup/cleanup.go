package cleanup

import (
	"context"
	"time"

	"github.com/pmorel/tasklane/internal/common/logger"
	"github.com/pmorel/tasklane/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartSessionCleanup periodically purges expired refresh sessions until ctx
// is cancelled.
func StartSessionCleanup(ctx context.Context, repo ExpiredDeleter, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Errorf("session cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				metrics.SessionsCleanupDeleted.Add(float64(deleted))
				log.Infof("session cleanup: deleted %d expired sessions", deleted)
			}
		}
	}
}
