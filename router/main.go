package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/lms-api/config"
	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/handlers"
	course_handlers "github.com/sahilchouksey/lms-api/handlers/course"
	progress_handlers "github.com/sahilchouksey/lms-api/handlers/progress"
	transaction_handlers "github.com/sahilchouksey/lms-api/handlers/transaction"
	user_handlers "github.com/sahilchouksey/lms-api/handlers/user"
	"github.com/sahilchouksey/lms-api/services"
	"github.com/sahilchouksey/lms-api/services/storage"
	"github.com/sahilchouksey/lms-api/utils/cache"
	"github.com/sahilchouksey/lms-api/utils/middleware"
)

// Dependencies carries the shared collaborators the routes are built from.
type Dependencies struct {
	Env     *config.EnvironmentVariable
	Store   database.Storage
	Storage *storage.Client
	Cache   *cache.RedisCache // nil when redis is unavailable
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Env.CLERK_SECRET_KEY, deps.Env.JWT_SECRET)

	courseService := services.NewCourseService(deps.Store)
	progressService := services.NewProgressService(deps.Store)
	transactionService := services.NewTransactionService(deps.Store)
	paymentService := services.NewPaymentService(deps.Env.STRIPE_SECRET_KEY)

	courseHandler := course_handlers.NewCourseHandler(courseService, deps.Storage, deps.Cache)
	transactionHandler := transaction_handlers.NewTransactionHandler(transactionService, paymentService)
	progressHandler := progress_handlers.NewProgressHandler(progressService)
	userHandler := user_handlers.NewUserHandler(deps.Env.CLERK_SECRET_KEY != "")

	app.Get("/health", handlers.HealthCheck)

	// Course routes; reads are public, writes require a verified session
	courses := app.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Post("/", authMiddleware.Required(), courseHandler.CreateCourse)
	courses.Get("/:courseId", courseHandler.GetCourse)
	courses.Put("/:courseId", authMiddleware.Required(), courseHandler.UpdateCourse)
	courses.Delete("/:courseId", authMiddleware.Required(), courseHandler.DeleteCourse)
	courses.Post("/:courseId/sections/:sectionId/chapters/:chapterId/get-upload-url",
		authMiddleware.Required(), courseHandler.GetUploadURL)

	// Transaction routes
	transactions := app.Group("/transactions", authMiddleware.Required())
	transactions.Get("/", transactionHandler.ListTransactions)
	transactions.Post("/", transactionHandler.CreateTransaction)
	transactions.Post("/stripe/payment-intent", transactionHandler.CreatePaymentIntent)

	// Progress routes
	progress := app.Group("/users/course-progress", authMiddleware.Required())
	progress.Get("/:userId/enrolled-courses", progressHandler.GetUserEnrolledCourses)
	progress.Get("/:userId/courses/:courseId", progressHandler.GetUserCourseProgress)
	progress.Put("/:userId/courses/:courseId", progressHandler.UpdateUserCourseProgress)

	// Identity provider profile routes
	users := app.Group("/users/clerk", authMiddleware.Required())
	users.Put("/:userId", userHandler.UpdateUser)
}
