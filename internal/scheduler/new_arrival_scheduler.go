package scheduler

import (
	"time"

	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// newArrivalWindow is how long a product keeps its new-arrival badge
const newArrivalWindow = 30 * 24 * time.Hour

// NewArrivalScheduler clears stale new-arrival flags once a day
type NewArrivalScheduler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
}

func NewNewArrivalScheduler(productRepo repository.ProductRepository) *NewArrivalScheduler {
	return &NewArrivalScheduler{
		cron:        cron.New(),
		productRepo: productRepo,
	}
}

func (s *NewArrivalScheduler) Start() error {
	// Daily at 03:00
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled new-arrival cleanup", nil)

		cutoff := time.Now().Add(-newArrivalWindow)
		cleared, err := s.productRepo.ClearExpiredNewArrivals(cutoff)
		if err != nil {
			logger.Error("Failed to clear expired new arrivals", err)
			return
		}

		logger.Info("New-arrival cleanup finished", map[string]interface{}{
			"cleared": cleared,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for new-arrival cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("New-arrival scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *NewArrivalScheduler) Stop() {
	logger.Info("Stopping new-arrival scheduler...", nil)
	s.cron.Stop()
	logger.Info("New-arrival scheduler stopped", nil)
}
