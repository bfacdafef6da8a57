package services

import (
	"context"
	"errors"
	"time"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
)

// ProgressService tracks learners through courses. Progress records are owned
// exclusively by their userId; handlers enforce that before calling in.
type ProgressService struct {
	store database.Storage
}

func NewProgressService(store database.Storage) *ProgressService {
	return &ProgressService{store: store}
}

// EnrolledCourses returns the courses the user holds a progress record for.
// Courses deleted since enrollment are skipped rather than erroring.
func (s *ProgressService) EnrolledCourses(ctx context.Context, userID string) ([]model.Course, error) {
	records, err := s.store.ListProgressByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses := []model.Course{}
	for _, record := range records {
		course, err := s.store.GetCourse(ctx, record.CourseID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				continue
			}
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, nil
}

func (s *ProgressService) Get(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	return s.store.GetProgress(ctx, userID, courseID)
}

// Update merges the incoming section progress into the stored record (creating
// one if the user has none yet), recomputes overall progress and refreshes the
// access timestamp. The merge never drops data the client did not send.
func (s *ProgressService) Update(ctx context.Context, userID, courseID string, sections []model.SectionProgress) (*model.UserCourseProgress, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	progress, err := s.store.GetProgress(ctx, userID, courseID)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		progress = &model.UserCourseProgress{
			UserID:         userID,
			CourseID:       courseID,
			EnrollmentDate: now,
			Sections:       []model.SectionProgress{},
		}
	}

	progress.Sections = model.MergeSections(progress.Sections, sections)
	progress.OverallProgress = model.OverallProgress(progress.Sections)
	progress.LastAccessedTimestamp = now

	if err := s.store.PutProgress(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}
