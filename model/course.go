package model

import (
	"encoding/json"
	"time"
)

// Course levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Course statuses
const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

// Course is the aggregate root for everything a teacher publishes. Sections and
// chapters have no identity outside the course they belong to.
type Course struct {
	CourseID    string       `json:"courseId" dynamodbav:"courseId"`
	TeacherID   string       `json:"teacherId" dynamodbav:"teacherId"`
	TeacherName string       `json:"teacherName" dynamodbav:"teacherName"`
	Title       string       `json:"title" dynamodbav:"title"`
	Description string       `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Category    string       `json:"category" dynamodbav:"category"`
	Image       string       `json:"image,omitempty" dynamodbav:"image,omitempty"`
	Price       int          `json:"price" dynamodbav:"price"` // minor currency units
	Level       string       `json:"level" dynamodbav:"level"`
	Status      string       `json:"status" dynamodbav:"status"`
	Sections    []Section    `json:"sections" dynamodbav:"sections"`
	Enrollments []Enrollment `json:"enrollments" dynamodbav:"enrollments"`
	// Version is the compare-and-swap token for course writes. It never leaves
	// the server.
	Version   int       `json:"-" dynamodbav:"version"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Section groups an ordered run of chapters.
type Section struct {
	SectionID          string    `json:"sectionId" dynamodbav:"sectionId"`
	SectionTitle       string    `json:"sectionTitle" dynamodbav:"sectionTitle"`
	SectionDescription string    `json:"sectionDescription,omitempty" dynamodbav:"sectionDescription,omitempty"`
	Chapters           []Chapter `json:"chapters" dynamodbav:"chapters"`
}

// Chapter types
const (
	ChapterTypeText  = "Text"
	ChapterTypeQuiz  = "Quiz"
	ChapterTypeVideo = "Video"
)

// Chapter is a single unit of content. Video points at the public delivery URL
// produced by the upload-URL flow.
type Chapter struct {
	ChapterID string    `json:"chapterId" dynamodbav:"chapterId"`
	Type      string    `json:"type" dynamodbav:"type"`
	Title     string    `json:"title" dynamodbav:"title"`
	Content   string    `json:"content,omitempty" dynamodbav:"content,omitempty"`
	Video     string    `json:"video,omitempty" dynamodbav:"video,omitempty"`
	Comments  []Comment `json:"comments,omitempty" dynamodbav:"comments,omitempty"`
}

// Comment is a learner remark attached to a chapter.
type Comment struct {
	CommentID string `json:"commentId" dynamodbav:"commentId"`
	UserID    string `json:"userId" dynamodbav:"userId"`
	Text      string `json:"text" dynamodbav:"text"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp"`
}

// Enrollment records a paying learner on the course.
type Enrollment struct {
	UserID string `json:"userId" dynamodbav:"userId"`
}

// Enrolled reports whether userID already appears in the course enrollments.
func (c *Course) Enrolled(userID string) bool {
	for _, e := range c.Enrollments {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// SectionsPatch is the boundary type for the two wire shapes clients send for
// sections on a course update: a JSON array, or a JSON-encoded string holding
// one. Handlers and services only ever see the decoded slice.
type SectionsPatch []Section

func (p *SectionsPatch) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	var sections []Section
	if err := json.Unmarshal(b, &sections); err != nil {
		return err
	}
	*p = sections
	return nil
}

func (p SectionsPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Section(p))
}
