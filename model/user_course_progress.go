package model

import "time"

// UserCourseProgress tracks one learner through one course. Keyed by
// (userId, courseId); mutated only through merge, never replaced wholesale.
type UserCourseProgress struct {
	UserID                string            `json:"userId" dynamodbav:"userId"`
	CourseID              string            `json:"courseId" dynamodbav:"courseId"`
	EnrollmentDate        string            `json:"enrollmentDate" dynamodbav:"enrollmentDate"`
	OverallProgress       float64           `json:"overallProgress" dynamodbav:"overallProgress"`
	Sections              []SectionProgress `json:"sections" dynamodbav:"sections"`
	LastAccessedTimestamp string            `json:"lastAccessedTimestamp" dynamodbav:"lastAccessedTimestamp"`
}

// SectionProgress mirrors a course section by id.
type SectionProgress struct {
	SectionID string            `json:"sectionId" dynamodbav:"sectionId"`
	Chapters  []ChapterProgress `json:"chapters" dynamodbav:"chapters"`
}

// ChapterProgress mirrors a course chapter by id.
type ChapterProgress struct {
	ChapterID string `json:"chapterId" dynamodbav:"chapterId"`
	Completed bool   `json:"completed" dynamodbav:"completed"`
}

// MergeSections folds incoming section progress into existing progress.
// Sections match by sectionId and chapters by chapterId; unknown entries are
// appended, known entries are overwritten field by field. The result is a new
// slice; neither input is mutated.
func MergeSections(existing, incoming []SectionProgress) []SectionProgress {
	merged := make([]SectionProgress, len(existing))
	for i, s := range existing {
		merged[i] = s
		merged[i].Chapters = append([]ChapterProgress(nil), s.Chapters...)
	}

	for _, in := range incoming {
		idx := -1
		for i, s := range merged {
			if s.SectionID == in.SectionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			section := in
			section.Chapters = append([]ChapterProgress(nil), in.Chapters...)
			merged = append(merged, section)
			continue
		}
		merged[idx].Chapters = mergeChapters(merged[idx].Chapters, in.Chapters)
	}

	return merged
}

func mergeChapters(existing, incoming []ChapterProgress) []ChapterProgress {
	merged := append([]ChapterProgress(nil), existing...)
	for _, in := range incoming {
		found := false
		for i, ch := range merged {
			if ch.ChapterID == in.ChapterID {
				merged[i] = in
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, in)
		}
	}
	return merged
}

// OverallProgress is the fraction of completed chapters across all sections.
func OverallProgress(sections []SectionProgress) float64 {
	total, completed := 0, 0
	for _, s := range sections {
		for _, ch := range s.Chapters {
			total++
			if ch.Completed {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// InitialProgress builds a fresh progress record for a newly enrolled learner,
// with every chapter of the course marked incomplete.
func InitialProgress(userID string, course *Course) *UserCourseProgress {
	now := time.Now().UTC().Format(time.RFC3339)

	sections := make([]SectionProgress, 0, len(course.Sections))
	for _, s := range course.Sections {
		chapters := make([]ChapterProgress, 0, len(s.Chapters))
		for _, ch := range s.Chapters {
			chapters = append(chapters, ChapterProgress{ChapterID: ch.ChapterID})
		}
		sections = append(sections, SectionProgress{SectionID: s.SectionID, Chapters: chapters})
	}

	return &UserCourseProgress{
		UserID:                userID,
		CourseID:              course.CourseID,
		EnrollmentDate:        now,
		Sections:              sections,
		LastAccessedTimestamp: now,
	}
}
