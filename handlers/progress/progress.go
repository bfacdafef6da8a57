package progress

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
	"github.com/sahilchouksey/lms-api/services"
	"github.com/sahilchouksey/lms-api/utils/middleware"
	"github.com/sahilchouksey/lms-api/utils/response"
)

// ProgressHandler handles course-progress requests. Every route is scoped to
// the :userId path segment, which must match the verified caller.
type ProgressHandler struct {
	progress *services.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// UpdateProgressRequest represents the request body for a progress update
type UpdateProgressRequest struct {
	Sections []model.SectionProgress `json:"sections"`
}

func (h *ProgressHandler) authorize(c *fiber.Ctx) (string, bool) {
	userID := c.Params("userId")
	callerID, ok := middleware.GetUserID(c)
	if !ok || callerID != userID {
		return "", false
	}
	return userID, true
}

// GetUserEnrolledCourses handles GET /users/course-progress/:userId/enrolled-courses
func (h *ProgressHandler) GetUserEnrolledCourses(c *fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return response.Forbidden(c, "Access denied")
	}

	courses, err := h.progress.EnrolledCourses(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Error retrieving enrolled courses")
	}

	return response.Success(c, "Enrolled courses retrieved successfully", courses)
}

// GetUserCourseProgress handles GET /users/course-progress/:userId/courses/:courseId
func (h *ProgressHandler) GetUserCourseProgress(c *fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return response.Forbidden(c, "Access denied")
	}
	courseID := c.Params("courseId")

	progress, err := h.progress.Get(c.Context(), userID, courseID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course progress not found for this user")
		}
		return response.InternalServerError(c, "Error retrieving user course progress")
	}

	return response.Success(c, "Course progress retrieved successfully", progress)
}

// UpdateUserCourseProgress handles PUT /users/course-progress/:userId/courses/:courseId
func (h *ProgressHandler) UpdateUserCourseProgress(c *fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return response.Forbidden(c, "Access denied")
	}
	courseID := c.Params("courseId")

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	progress, err := h.progress.Update(c.Context(), userID, courseID, req.Sections)
	if err != nil {
		return response.InternalServerError(c, "Error updating user course progress")
	}

	return response.Success(c, "Course progress updated successfully", progress)
}
