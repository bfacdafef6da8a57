package course

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
	"github.com/sahilchouksey/lms-api/services"
	"github.com/sahilchouksey/lms-api/services/storage"
	"github.com/sahilchouksey/lms-api/utils/cache"
	"github.com/sahilchouksey/lms-api/utils/middleware"
	"github.com/sahilchouksey/lms-api/utils/response"
	"github.com/sahilchouksey/lms-api/utils/validation"
)

const (
	courseCachePrefix = "courses:"
	courseCacheTTL    = 60 * time.Second
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	courses   *services.CourseService
	storage   *storage.Client
	cache     *cache.RedisCache // nil when redis is unavailable
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *services.CourseService, storageClient *storage.Client, redisCache *cache.RedisCache) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		storage:   storageClient,
		cache:     redisCache,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	TeacherID   string `json:"teacherId" validate:"required"`
	TeacherName string `json:"teacherName" validate:"required"`
}

// GetUploadURLRequest represents the request body for a signed upload URL
type GetUploadURLRequest struct {
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
}

// ListCourses handles GET /courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	category := c.Query("category")

	cacheKey := courseCachePrefix + category
	if h.cache != nil {
		var cached []model.Course
		if err := h.cache.GetJSON(c.Context(), cacheKey, &cached); err == nil {
			return response.Success(c, "Courses retrieved successfully", cached)
		}
	}

	courses, err := h.courses.List(c.Context(), category)
	if err != nil {
		return response.InternalServerError(c, "Error retrieving courses")
	}

	if h.cache != nil {
		_ = h.cache.SetJSON(c.Context(), cacheKey, courses, courseCacheTTL)
	}

	return response.Success(c, "Courses retrieved successfully", courses)
}

// GetCourse handles GET /courses/:courseId
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	course, err := h.courses.Get(c.Context(), courseID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Error retrieving course")
	}

	return response.Success(c, "Course retrieved successfully", course)
}

// CreateCourse handles POST /courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Teacher Id and name are required")
	}

	course, err := h.courses.Create(c.Context(), validation.SanitizeString(req.TeacherID), validation.SanitizeString(req.TeacherName))
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return response.BadRequest(c, vErr.Message)
		}
		return response.InternalServerError(c, "Error creating course")
	}

	h.invalidateCourseCache(c)

	return response.Created(c, "Course created successfully", course)
}

// UpdateCourse handles PUT /courses/:courseId. The body may be JSON or a
// multipart form (the course editor submits form data with a single image
// field and sections as a JSON-encoded string).
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	callerID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	input, err := parseUpdateInput(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courses.Update(c.Context(), courseID, callerID, *input)
	if err != nil {
		return h.writeError(c, err, "update")
	}

	h.invalidateCourseCache(c)

	return response.Success(c, "Course updated successfully", course)
}

// DeleteCourse handles DELETE /courses/:courseId
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	callerID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	course, err := h.courses.Delete(c.Context(), courseID, callerID)
	if err != nil {
		return h.writeError(c, err, "delete")
	}

	h.invalidateCourseCache(c)

	return response.Success(c, "Course deleted successfully", course)
}

// GetUploadURL handles POST /courses/:courseId/sections/:sectionId/chapters/:chapterId/get-upload-url
func (h *CourseHandler) GetUploadURL(c *fiber.Ctx) error {
	var req GetUploadURLRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "File name and type are required")
	}

	urls, err := h.storage.GenerateUploadURL(req.FileName, req.FileType)
	if err != nil {
		if errors.Is(err, storage.ErrBucketNotConfigured) {
			return response.InternalServerError(c, "S3 bucket name is not set")
		}
		return response.ErrorWithDetails(c, fiber.StatusInternalServerError, "Error generating upload URL", err.Error())
	}

	return response.Success(c, "Upload URL generated successfully", urls)
}

func (h *CourseHandler) writeError(c *fiber.Ctx, err error, action string) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return response.BadRequest(c, vErr.Message)
	case errors.Is(err, database.ErrNotFound):
		return response.NotFound(c, "Course not found")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "Not authorized to "+action+" this course")
	case errors.Is(err, services.ErrConflict):
		return response.Conflict(c, "Course was modified concurrently, please retry")
	default:
		return response.InternalServerError(c, "Error processing course")
	}
}

func (h *CourseHandler) invalidateCourseCache(c *fiber.Ctx) {
	if h.cache == nil {
		return
	}
	keys, err := h.cache.Keys(c.Context(), courseCachePrefix+"*")
	if err != nil || len(keys) == 0 {
		return
	}
	_ = h.cache.Delete(c.Context(), keys...)
}

// parseUpdateInput decodes the patch from either a JSON body or multipart
// form fields into the normalized update type.
func parseUpdateInput(c *fiber.Ctx) (*services.UpdateCourseInput, error) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		input := &services.UpdateCourseInput{}
		assign := func(dst **string, field string) {
			if values, ok := form.Value[field]; ok && len(values) > 0 {
				v := values[0]
				*dst = &v
			}
		}
		assign(&input.Title, "title")
		assign(&input.Description, "description")
		assign(&input.Category, "category")
		assign(&input.Image, "image")
		assign(&input.Level, "level")
		assign(&input.Status, "status")
		if values, ok := form.Value["price"]; ok && len(values) > 0 {
			input.Price = &services.PriceInput{Raw: validation.SanitizeString(values[0])}
		}
		if values, ok := form.Value["sections"]; ok && len(values) > 0 {
			var sections model.SectionsPatch
			if err := json.Unmarshal([]byte(values[0]), &sections); err != nil {
				return nil, err
			}
			input.Sections = &sections
		}
		return input, nil
	}

	input := &services.UpdateCourseInput{}
	if err := json.Unmarshal(c.Body(), input); err != nil {
		return nil, err
	}
	return input, nil
}
