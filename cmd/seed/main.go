// Seeds the document store with a handful of demo courses for local
// development. Expects DynamoDB local (DYNAMODB_ENDPOINT) or real AWS
// credentials in the environment.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sahilchouksey/lms-api/config"
	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("Warning: could not load .env: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	store, err := database.NewDynamoStorage(env)
	if err != nil {
		log.Fatalf("Failed to connect to DynamoDB: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, course := range demoCourses() {
		if err := store.PutCourse(ctx, course, 0); err != nil {
			log.Printf("Skipping %q: %v", course.Title, err)
			continue
		}
		log.Printf("Seeded course %q (%s)", course.Title, course.CourseID)
	}
}

func demoCourses() []*model.Course {
	now := time.Now().UTC()

	newCourse := func(teacherID, teacherName, title, category string, price int, level string) *model.Course {
		return &model.Course{
			CourseID:    uuid.New().String(),
			TeacherID:   teacherID,
			TeacherName: teacherName,
			Title:       title,
			Category:    category,
			Price:       price,
			Level:       level,
			Status:      model.StatusPublished,
			Sections: []model.Section{
				{
					SectionID:    uuid.New().String(),
					SectionTitle: "Getting Started",
					Chapters: []model.Chapter{
						{ChapterID: uuid.New().String(), Type: model.ChapterTypeText, Title: "Welcome", Content: "Course overview and setup."},
						{ChapterID: uuid.New().String(), Type: model.ChapterTypeVideo, Title: "Introduction"},
					},
				},
			},
			Enrollments: []model.Enrollment{},
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return []*model.Course{
		newCourse("teacher-demo-1", "Ada Chen", "Intro to Web Development", "Web Development", 4900, model.LevelBeginner),
		newCourse("teacher-demo-1", "Ada Chen", "Advanced React Patterns", "Web Development", 9900, model.LevelAdvanced),
		newCourse("teacher-demo-2", "Marcus Vale", "Data Engineering Basics", "Data Engineering", 7900, model.LevelIntermediate),
	}
}
