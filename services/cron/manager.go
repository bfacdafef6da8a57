package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/sahilchouksey/lms-api/database"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron  *cron.Cron
	store database.Storage
}

// NewCronManager creates a new cron manager
func NewCronManager(store database.Storage) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:  c,
		store: store,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every hour: make sure every paying user appears in their course's enrollments
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("reconcile_enrollments")
		m.ReconcileEnrollments()
	})
	if err != nil {
		return err
	}

	// 2. Daily at 03:00: drop progress records whose course no longer exists
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("prune_orphaned_progress")
		m.PruneOrphanedProgress()
	})
	if err != nil {
		return err
	}

	return nil
}

func (m *CronManager) logJobStart(name string) {
	log.Printf("Cron job started: %s", name)
}
