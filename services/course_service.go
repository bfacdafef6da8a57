package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
)

// CategoryAll is the sentinel list filter meaning "no filter".
const CategoryAll = "all"

// CourseService implements the course CRUD operations on top of the document
// store. Ownership checks and payload normalization live here so the HTTP
// handlers stay thin.
type CourseService struct {
	store database.Storage
}

func NewCourseService(store database.Storage) *CourseService {
	return &CourseService{store: store}
}

// PriceInput accepts a whole-currency price as either a JSON number or a JSON
// string ("25" and 25 are equivalent on the wire).
type PriceInput struct {
	Raw string
}

func (p *PriceInput) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	p.Raw = strings.TrimSpace(s)
	return nil
}

func (p PriceInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Raw)
}

// minorUnits parses the supplied value and converts it to minor currency
// units. The stored price is always a non-negative integer.
func (p *PriceInput) minorUnits() (int, error) {
	n, err := strconv.Atoi(p.Raw)
	if err != nil || n < 0 {
		return 0, validationf("Invalid price format")
	}
	return n * 100, nil
}

// UpdateCourseInput is the normalized update patch. Nil fields are left
// untouched on the stored record.
type UpdateCourseInput struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	Image       *string              `json:"image"`
	Level       *string              `json:"level"`
	Status      *string              `json:"status"`
	Price       *PriceInput          `json:"price"`
	Sections    *model.SectionsPatch `json:"sections"`
}

// List returns every course, or only those in the given category. The "all"
// sentinel and an empty category behave identically.
func (s *CourseService) List(ctx context.Context, category string) ([]model.Course, error) {
	if category == CategoryAll {
		category = ""
	}
	return s.store.ScanCourses(ctx, category)
}

func (s *CourseService) Get(ctx context.Context, courseID string) (*model.Course, error) {
	return s.store.GetCourse(ctx, courseID)
}

// Create allocates a new draft course owned by the named teacher. The caller's
// own identity is deliberately not matched against teacherId; any
// authenticated caller may provision a course for any teacher.
func (s *CourseService) Create(ctx context.Context, teacherID, teacherName string) (*model.Course, error) {
	if teacherID == "" || teacherName == "" {
		return nil, validationf("Teacher Id and name are required")
	}

	now := time.Now().UTC()
	course := &model.Course{
		CourseID:    uuid.New().String(),
		TeacherID:   teacherID,
		TeacherName: teacherName,
		Title:       "Untitled Course",
		Description: "",
		Category:    "Uncategorized",
		Image:       "",
		Price:       0,
		Level:       model.LevelBeginner,
		Status:      model.StatusDraft,
		Sections:    []model.Section{},
		Enrollments: []model.Enrollment{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.PutCourse(ctx, course, 0); err != nil {
		return nil, err
	}
	return course, nil
}

// Update merges the patch onto the stored course. The write is conditional on
// the version read here; a lost race surfaces as ErrConflict and nothing is
// persisted.
func (s *CourseService) Update(ctx context.Context, courseID, callerID string, in UpdateCourseInput) (*model.Course, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != callerID {
		return nil, ErrForbidden
	}

	if in.Price != nil {
		price, err := in.Price.minorUnits()
		if err != nil {
			return nil, err
		}
		course.Price = price
	}
	if in.Sections != nil {
		course.Sections = normalizeSections(*in.Sections)
	}
	if in.Title != nil {
		course.Title = *in.Title
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Category != nil {
		course.Category = *in.Category
	}
	if in.Image != nil {
		course.Image = *in.Image
	}
	if in.Level != nil {
		course.Level = *in.Level
	}
	if in.Status != nil {
		course.Status = *in.Status
	}

	expected := course.Version
	course.Version = expected + 1
	course.UpdatedAt = time.Now().UTC()

	if err := s.store.PutCourse(ctx, course, expected); err != nil {
		if errors.Is(err, database.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return course, nil
}

// Delete removes the course and returns it as it existed before deletion.
func (s *CourseService) Delete(ctx context.Context, courseID, callerID string) (*model.Course, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != callerID {
		return nil, ErrForbidden
	}
	if err := s.store.DeleteCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return course, nil
}

// normalizeSections back-fills missing section and chapter identifiers with
// fresh UUIDs and preserves any already present, so repeated partial edits
// never duplicate or orphan nested entities.
func normalizeSections(sections []model.Section) []model.Section {
	normalized := make([]model.Section, len(sections))
	for i, section := range sections {
		if section.SectionID == "" {
			section.SectionID = uuid.New().String()
		}
		chapters := make([]model.Chapter, len(section.Chapters))
		for j, chapter := range section.Chapters {
			if chapter.ChapterID == "" {
				chapter.ChapterID = uuid.New().String()
			}
			chapters[j] = chapter
		}
		section.Chapters = chapters
		normalized[i] = section
	}
	return normalized
}
