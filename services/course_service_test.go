package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
)

func newCourseFixture(t *testing.T) (*CourseService, database.Storage) {
	t.Helper()
	store := database.NewMemoryStorage()
	return NewCourseService(store), store
}

func strPtr(s string) *string { return &s }

func TestCreateCourseDefaults(t *testing.T) {
	svc, _ := newCourseFixture(t)

	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)

	assert.NotEmpty(t, course.CourseID)
	assert.Equal(t, "T1", course.TeacherID)
	assert.Equal(t, "Alice", course.TeacherName)
	assert.Equal(t, "Untitled Course", course.Title)
	assert.Equal(t, "Uncategorized", course.Category)
	assert.Equal(t, 0, course.Price)
	assert.Equal(t, model.LevelBeginner, course.Level)
	assert.Equal(t, model.StatusDraft, course.Status)
	assert.Empty(t, course.Sections)
	assert.Empty(t, course.Enrollments)
}

func TestCreateCourseMissingTeacher(t *testing.T) {
	svc, _ := newCourseFixture(t)

	for _, tc := range []struct{ id, name string }{
		{"", "Alice"},
		{"T1", ""},
		{"", ""},
	} {
		_, err := svc.Create(context.Background(), tc.id, tc.name)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	}
}

func TestUpdateCoursePriceNormalization(t *testing.T) {
	svc, store := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Price: &PriceInput{Raw: "25"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2500, updated.Price)

	stored, err := store.GetCourse(context.Background(), course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 2500, stored.Price)
}

func TestUpdateCourseInvalidPrice(t *testing.T) {
	svc, store := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Price: &PriceInput{Raw: "25"},
	})
	require.NoError(t, err)

	for _, raw := range []string{"abc", "12.5", "-3", ""} {
		_, err := svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
			Price: &PriceInput{Raw: raw},
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "price %q should be rejected", raw)
		assert.Equal(t, "Invalid price format", vErr.Message)
	}

	// No mutation happened.
	stored, err := store.GetCourse(context.Background(), course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 2500, stored.Price)
}

func TestUpdateCourseForbiddenLeavesRecordUntouched(t *testing.T) {
	svc, store := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Price: &PriceInput{Raw: "25"},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), course.CourseID, "T2", UpdateCourseInput{
		Price: &PriceInput{Raw: "10"},
	})
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := store.GetCourse(context.Background(), course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 2500, stored.Price)
}

func TestUpdateCourseNotFound(t *testing.T) {
	svc, _ := newCourseFixture(t)
	_, err := svc.Update(context.Background(), "missing", "T1", UpdateCourseInput{})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdateCourseSectionIDBackfill(t *testing.T) {
	svc, _ := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)

	sections := model.SectionsPatch{
		{
			SectionTitle: "Basics",
			Chapters: []model.Chapter{
				{Type: model.ChapterTypeText, Title: "Hello"},
				{ChapterID: "keep-me", Type: model.ChapterTypeVideo, Title: "Video"},
			},
		},
		{
			SectionID:    "existing-section",
			SectionTitle: "Advanced",
			Chapters:     []model.Chapter{{Title: "Deep dive"}},
		},
	}

	updated, err := svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Sections: &sections,
	})
	require.NoError(t, err)
	require.Len(t, updated.Sections, 2)

	// Missing ids are back-filled, present ones preserved.
	assert.NotEmpty(t, updated.Sections[0].SectionID)
	assert.Equal(t, "existing-section", updated.Sections[1].SectionID)
	assert.NotEmpty(t, updated.Sections[0].Chapters[0].ChapterID)
	assert.Equal(t, "keep-me", updated.Sections[0].Chapters[1].ChapterID)
	assert.NotEmpty(t, updated.Sections[1].Chapters[0].ChapterID)

	// Re-submitting the normalized structure produces no identifier churn.
	again := model.SectionsPatch(updated.Sections)
	updatedAgain, err := svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Sections: &again,
	})
	require.NoError(t, err)
	assert.Equal(t, updated.Sections, updatedAgain.Sections)
}

func TestUpdateCourseSectionsAsJSONString(t *testing.T) {
	svc, _ := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)

	// The editor submits sections as a JSON-encoded string inside the patch.
	patch := []byte(`{"title":"Go 101","sections":"[{\"sectionTitle\":\"Week 1\",\"chapters\":[{\"title\":\"Setup\",\"type\":\"Text\"}]}]"}`)
	var input UpdateCourseInput
	require.NoError(t, json.Unmarshal(patch, &input))

	updated, err := svc.Update(context.Background(), course.CourseID, "T1", input)
	require.NoError(t, err)
	assert.Equal(t, "Go 101", updated.Title)
	require.Len(t, updated.Sections, 1)
	assert.Equal(t, "Week 1", updated.Sections[0].SectionTitle)
	assert.NotEmpty(t, updated.Sections[0].SectionID)
	assert.NotEmpty(t, updated.Sections[0].Chapters[0].ChapterID)
}

func TestUpdateCoursePartialPatchKeepsOtherFields(t *testing.T) {
	svc, _ := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Title:    strPtr("Systems Programming"),
		Category: strPtr("Computer Science"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Status: strPtr(model.StatusPublished),
	})
	require.NoError(t, err)
	assert.Equal(t, "Systems Programming", updated.Title)
	assert.Equal(t, "Computer Science", updated.Category)
	assert.Equal(t, model.StatusPublished, updated.Status)
}

func TestUpdateCourseVersionConflict(t *testing.T) {
	svc, store := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)

	// Another writer bumps the version between our read and write.
	stale, err := store.GetCourse(context.Background(), course.CourseID)
	require.NoError(t, err)
	concurrent := *stale
	concurrent.Version = stale.Version + 1
	require.NoError(t, store.PutCourse(context.Background(), &concurrent, stale.Version))

	stale.Title = "lost update"
	err = store.PutCourse(context.Background(), stale, stale.Version)
	require.ErrorIs(t, err, database.ErrVersionConflict)

	// The service path still works once it re-reads the current version.
	updated, err := svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Title: strPtr("fresh update"),
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh update", updated.Title)
}

func TestDeleteCourse(t *testing.T) {
	svc, _ := newCourseFixture(t)
	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), course.CourseID, "T2")
	require.ErrorIs(t, err, ErrForbidden)

	deleted, err := svc.Delete(context.Background(), course.CourseID, "T1")
	require.NoError(t, err)
	assert.Equal(t, course.CourseID, deleted.CourseID)

	_, err = svc.Get(context.Background(), course.CourseID)
	require.ErrorIs(t, err, database.ErrNotFound)

	_, err = svc.Delete(context.Background(), course.CourseID, "T1")
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestListCoursesCategoryFilter(t *testing.T) {
	svc, _ := newCourseFixture(t)

	web, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), web.CourseID, "T1", UpdateCourseInput{
		Category: strPtr("Web Development"),
	})
	require.NoError(t, err)

	data, err := svc.Create(context.Background(), "T2", "Bob")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), data.CourseID, "T2", UpdateCourseInput{
		Category: strPtr("Data Engineering"),
	})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	sentinel, err := svc.List(context.Background(), CategoryAll)
	require.NoError(t, err)
	assert.ElementsMatch(t, all, sentinel)
	assert.Len(t, all, 2)

	filtered, err := svc.List(context.Background(), "Web Development")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, web.CourseID, filtered[0].CourseID)

	none, err := svc.List(context.Background(), "Pottery")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCourseLifecycleEndToEnd(t *testing.T) {
	svc, store := newCourseFixture(t)

	course, err := svc.Create(context.Background(), "T1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, course.Status)
	assert.Equal(t, 0, course.Price)
	assert.Empty(t, course.Sections)

	updated, err := svc.Update(context.Background(), course.CourseID, "T1", UpdateCourseInput{
		Price: &PriceInput{Raw: "25"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2500, updated.Price)

	_, err = svc.Update(context.Background(), course.CourseID, "T2", UpdateCourseInput{
		Price: &PriceInput{Raw: "10"},
	})
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := store.GetCourse(context.Background(), course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 2500, stored.Price)
}
