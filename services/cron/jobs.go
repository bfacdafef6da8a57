package cron

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
)

const jobTimeout = 5 * time.Minute

// ReconcileEnrollments repairs courses whose enrollments list is missing a
// paying user. The transaction record is the source of truth; a lost
// enrollment write (see the version-conditional puts in the services) is
// healed here on the next run.
func (m *CronManager) ReconcileEnrollments() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	txs, err := m.store.ScanTransactions(ctx, "")
	if err != nil {
		log.Printf("reconcile_enrollments: failed to scan transactions: %v", err)
		return
	}

	repaired := 0
	for _, tx := range txs {
		course, err := m.store.GetCourse(ctx, tx.CourseID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				continue
			}
			log.Printf("reconcile_enrollments: failed to load course %s: %v", tx.CourseID, err)
			continue
		}
		if course.Enrolled(tx.UserID) {
			continue
		}

		course.Enrollments = append(course.Enrollments, model.Enrollment{UserID: tx.UserID})
		expected := course.Version
		course.Version = expected + 1
		if err := m.store.PutCourse(ctx, course, expected); err != nil {
			// A concurrent write is fine; the next run picks it up.
			log.Printf("reconcile_enrollments: failed to update course %s: %v", tx.CourseID, err)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		log.Printf("reconcile_enrollments: repaired %d enrollment(s)", repaired)
	}
}

// PruneOrphanedProgress removes progress records pointing at courses that no
// longer exist.
func (m *CronManager) PruneOrphanedProgress() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	records, err := m.store.ScanProgress(ctx)
	if err != nil {
		log.Printf("prune_orphaned_progress: failed to scan progress: %v", err)
		return
	}

	pruned := 0
	for _, record := range records {
		_, err := m.store.GetCourse(ctx, record.CourseID)
		if err == nil {
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("prune_orphaned_progress: failed to load course %s: %v", record.CourseID, err)
			continue
		}
		if err := m.store.DeleteProgress(ctx, record.UserID, record.CourseID); err != nil {
			log.Printf("prune_orphaned_progress: failed to delete progress %s/%s: %v", record.UserID, record.CourseID, err)
			continue
		}
		pruned++
	}

	if pruned > 0 {
		log.Printf("prune_orphaned_progress: removed %d orphaned record(s)", pruned)
	}
}
