// Package scheduler drives time-based materialization of scheduled
// deposits.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"PiggyVault/internal/ledger"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Ledger *ledger.Manager
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, mgr *ledger.Manager) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Ledger: mgr,
		Ctx:    ctx,
	}
}

// RegisterAll registers the daily extension task. Reads also extend the
// schedule on demand; the cron task keeps deposits current on idle days.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the daily task immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily schedule extension")
	changed, err := s.Ledger.Extend(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] daily extension: %v", err)
		return
	}
	if changed {
		log.Println("[INFO] new scheduled deposits materialized")
	}
}
