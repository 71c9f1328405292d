// Package scheduler runs the background jobs: weekly AI research, daily
// cleanup, and daily quality recomputation, all in Japan time.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"trashspot-backend/internal/config"
	"trashspot-backend/internal/services"
	"trashspot-backend/internal/services/airesearch"
)

const (
	cleanupSchedule = "0 3 * * *"
	metricsSchedule = "0 4 * * *"
)

// Scheduler owns the cron runner and the services its jobs call.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	research *airesearch.Service
	quality  *services.QualityService
}

// New builds the scheduler. Jobs are registered but not started.
func New(cfg *config.Config, research *airesearch.Service, quality *services.QualityService) (*Scheduler, error) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		research: research,
		quality:  quality,
	}

	if cfg.AIUpdateEnabled {
		if _, err := s.cron.AddFunc(cfg.AIUpdateCron, s.runResearch); err != nil {
			return nil, err
		}
		log.Printf("🗓️  AI research scheduled: %s (Asia/Tokyo)", cfg.AIUpdateCron)
	} else {
		log.Println("⏸️  AI research schedule disabled")
	}

	if _, err := s.cron.AddFunc(cleanupSchedule, s.runCleanup); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(metricsSchedule, s.runMetrics); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("✅ Scheduler started")
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Scheduler stopped")
}

func (s *Scheduler) runResearch() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if _, err := s.research.RunCycle(ctx); err != nil {
		log.Printf("❌ Scheduled AI research failed: %v", err)
	}
}

func (s *Scheduler) runCleanup() {
	if err := s.quality.RunCleanup(); err != nil {
		log.Printf("❌ Scheduled cleanup failed: %v", err)
	}
}

func (s *Scheduler) runMetrics() {
	if err := s.quality.RecomputeAll(); err != nil {
		log.Printf("❌ Scheduled quality recompute failed: %v", err)
	}
}
