package scheduler

import (
	"context"

	"github.com/minkwan/storefront-backend/internal/app/service"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RefreshScheduler rebuilds the denormalized collection caches on a
// nightly schedule, catching any drift the inline updates missed.
type RefreshScheduler struct {
	cron              *cron.Cron
	collectionService service.CollectionService
}

func NewRefreshScheduler(collectionService service.CollectionService) *RefreshScheduler {
	return &RefreshScheduler{
		cron:              cron.New(),
		collectionService: collectionService,
	}
}

// Start schedules the nightly cache rebuild at 03:30.
func (s *RefreshScheduler) Start() error {
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		logger.Error("Failed to add cron job for cache refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Collection cache refresh scheduler started (daily at 3:30 AM)", nil)
	return nil
}

// RunOnce executes both refresh passes immediately. Also used by the
// repair command.
func (s *RefreshScheduler) RunOnce(ctx context.Context) {
	logger.Info("Starting scheduled collection cache refresh", nil)

	relResult, err := s.collectionService.RefreshAllParentChildRelationships(ctx)
	if err != nil {
		logger.Error("Scheduled parent-child refresh failed", err)
	} else {
		logger.Info("Scheduled parent-child refresh completed", map[string]interface{}{
			"scanned": relResult.Scanned,
			"updated": relResult.Updated,
		})
	}

	productResult, err := s.collectionService.RefreshAllProductIDs(ctx)
	if err != nil {
		logger.Error("Scheduled product id refresh failed", err)
		return
	}
	logger.Info("Scheduled product id refresh completed", map[string]interface{}{
		"scanned": productResult.Scanned,
		"updated": productResult.Updated,
	})
}

// Stop halts the scheduler.
func (s *RefreshScheduler) Stop() {
	logger.Info("Stopping collection cache refresh scheduler...", nil)
	s.cron.Stop()
}
