package database

import (
	"context"
	"errors"

	"github.com/sahilchouksey/lms-api/model"
)

var (
	// ErrNotFound is returned when no record exists for the given key.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a conditional course write loses a
	// race against a concurrent writer.
	ErrVersionConflict = errors.New("course version conflict")
)

// Storage is the document-store surface the services are written against.
// The production implementation is DynamoDB; tests and the seed tool use the
// in-memory one.
type Storage interface {
	GetCourse(ctx context.Context, courseID string) (*model.Course, error)
	// PutCourse writes the course conditionally: expectedVersion 0 requires
	// that no record exists yet, any other value must match the stored version.
	PutCourse(ctx context.Context, course *model.Course, expectedVersion int) error
	// ScanCourses returns every course, or only those whose category equals
	// the filter when it is non-empty.
	ScanCourses(ctx context.Context, category string) ([]model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error

	GetProgress(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error)
	PutProgress(ctx context.Context, progress *model.UserCourseProgress) error
	ListProgressByUser(ctx context.Context, userID string) ([]model.UserCourseProgress, error)
	ScanProgress(ctx context.Context) ([]model.UserCourseProgress, error)
	DeleteProgress(ctx context.Context, userID, courseID string) error

	PutTransaction(ctx context.Context, tx *model.Transaction) error
	// ScanTransactions returns every transaction, or only the given user's
	// when userID is non-empty.
	ScanTransactions(ctx context.Context, userID string) ([]model.Transaction, error)

	Close() error
}
