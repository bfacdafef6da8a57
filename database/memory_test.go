package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/lms-api/model"
)

func TestMemoryCourseConditionalPut(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	course := &model.Course{CourseID: "c1", TeacherID: "T1", Title: "A", Version: 1}
	require.NoError(t, store.PutCourse(ctx, course, 0))

	// Creating an existing course is a conflict.
	err := store.PutCourse(ctx, &model.Course{CourseID: "c1", Version: 1}, 0)
	require.ErrorIs(t, err, ErrVersionConflict)

	// A stale expected version is a conflict and writes nothing.
	stale := &model.Course{CourseID: "c1", Title: "stale", Version: 3}
	err = store.PutCourse(ctx, stale, 2)
	require.ErrorIs(t, err, ErrVersionConflict)

	got, err := store.GetCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, 1, got.Version)

	// The matching expected version succeeds.
	next := *got
	next.Title = "B"
	next.Version = 2
	require.NoError(t, store.PutCourse(ctx, &next, 1))

	got, err = store.GetCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, 2, got.Version)
}

func TestMemoryCopiesAreIsolated(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	course := &model.Course{
		CourseID: "c1",
		TeacherID: "T1",
		Sections: []model.Section{
			{SectionID: "s1", Chapters: []model.Chapter{{ChapterID: "ch1", Title: "One"}}},
		},
		Version: 1,
	}
	require.NoError(t, store.PutCourse(ctx, course, 0))

	// Mutating the value we passed in does not leak into the store.
	course.Sections[0].Chapters[0].Title = "mutated"

	got, err := store.GetCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "One", got.Sections[0].Chapters[0].Title)

	// Nor does mutating what we read back.
	got.Sections[0].SectionID = "hacked"
	again, err := store.GetCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "s1", again.Sections[0].SectionID)
}

func TestMemoryProgressRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	_, err := store.GetProgress(ctx, "U1", "c1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.PutProgress(ctx, &model.UserCourseProgress{
		UserID: "U1", CourseID: "c1", OverallProgress: 0.5,
	}))
	require.NoError(t, store.PutProgress(ctx, &model.UserCourseProgress{
		UserID: "U1", CourseID: "c2",
	}))
	require.NoError(t, store.PutProgress(ctx, &model.UserCourseProgress{
		UserID: "U2", CourseID: "c1",
	}))

	byUser, err := store.ListProgressByUser(ctx, "U1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	all, err := store.ScanProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.DeleteProgress(ctx, "U1", "c2"))
	byUser, err = store.ListProgressByUser(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "c1", byUser[0].CourseID)
}

func TestMemoryTransactions(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.PutTransaction(ctx, &model.Transaction{
		UserID: "U1", TransactionID: "pi_1", CourseID: "c1",
	}))
	require.NoError(t, store.PutTransaction(ctx, &model.Transaction{
		UserID: "U2", TransactionID: "pi_2", CourseID: "c1",
	}))

	all, err := store.ScanTransactions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := store.ScanTransactions(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "pi_1", mine[0].TransactionID)
}
