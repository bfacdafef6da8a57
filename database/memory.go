package database

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sahilchouksey/lms-api/model"
)

// MemoryStorage is an in-process Storage used by tests and the seed tool.
// It enforces the same version-conditional course writes as DynamoStorage.
type MemoryStorage struct {
	mu           sync.RWMutex
	courses      map[string]model.Course
	progress     map[string]model.UserCourseProgress // userId + "/" + courseId
	transactions []model.Transaction
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		courses:  make(map[string]model.Course),
		progress: make(map[string]model.UserCourseProgress),
	}
}

func progressKey(userID, courseID string) string {
	return userID + "/" + courseID
}

// clone deep-copies via JSON so callers never share slices with the store.
func clone[T any](v T) T {
	b, _ := json.Marshal(v)
	var out T
	_ = json.Unmarshal(b, &out)
	return out
}

func (s *MemoryStorage) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[courseID]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(course)
	c.Version = course.Version
	return &c, nil
}

func (s *MemoryStorage) PutCourse(ctx context.Context, course *model.Course, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.courses[course.CourseID]
	if expectedVersion == 0 {
		if exists {
			return ErrVersionConflict
		}
	} else if !exists || stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	c := clone(*course)
	c.Version = course.Version
	s.courses[course.CourseID] = c
	return nil
}

func (s *MemoryStorage) ScanCourses(ctx context.Context, category string) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := []model.Course{}
	for _, c := range s.courses {
		if category != "" && c.Category != category {
			continue
		}
		cc := clone(c)
		cc.Version = c.Version
		courses = append(courses, cc)
	}
	return courses, nil
}

func (s *MemoryStorage) DeleteCourse(ctx context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.courses, courseID)
	return nil
}

func (s *MemoryStorage) GetProgress(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[progressKey(userID, courseID)]
	if !ok {
		return nil, ErrNotFound
	}
	pc := clone(p)
	return &pc, nil
}

func (s *MemoryStorage) PutProgress(ctx context.Context, progress *model.UserCourseProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progressKey(progress.UserID, progress.CourseID)] = clone(*progress)
	return nil
}

func (s *MemoryStorage) ListProgressByUser(ctx context.Context, userID string) ([]model.UserCourseProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := []model.UserCourseProgress{}
	for _, p := range s.progress {
		if p.UserID == userID {
			records = append(records, clone(p))
		}
	}
	return records, nil
}

func (s *MemoryStorage) ScanProgress(ctx context.Context) ([]model.UserCourseProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := []model.UserCourseProgress{}
	for _, p := range s.progress {
		records = append(records, clone(p))
	}
	return records, nil
}

func (s *MemoryStorage) DeleteProgress(ctx context.Context, userID, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, progressKey(userID, courseID))
	return nil
}

func (s *MemoryStorage) PutTransaction(ctx context.Context, tx *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, clone(*tx))
	return nil
}

func (s *MemoryStorage) ScanTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := []model.Transaction{}
	for _, tx := range s.transactions {
		if userID != "" && tx.UserID != userID {
			continue
		}
		txs = append(txs, clone(tx))
	}
	return txs, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
