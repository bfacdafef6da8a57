package app

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sahilchouksey/lms-api/api"
	"github.com/sahilchouksey/lms-api/config"
	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/router"
	"github.com/sahilchouksey/lms-api/services/cron"
	"github.com/sahilchouksey/lms-api/services/storage"
	"github.com/sahilchouksey/lms-api/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize the document store
	store, err := database.NewDynamoStorage(getEnv)
	if err != nil {
		print("Check whether DynamoDB is reachable\n")
		print("For local development run DynamoDB local and set DYNAMODB_ENDPOINT, e.g.:\n")
		print("  DYNAMODB_ENDPOINT=http://localhost:8000\n")
		return err
	}

	// Initialize object storage client
	storageClient, err := storage.NewClient(storage.Config{
		Region:           getEnv.AWS_REGION,
		Bucket:           getEnv.S3_BUCKET_NAME,
		CloudfrontDomain: getEnv.CLOUDFRONT_DOMAIN,
	})
	if err != nil {
		return err
	}

	// Initialize Redis cache for course listings (optional)
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Course list caching is disabled.", err)
			redisCache = nil
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(store)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer closing collaborators and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	app.Use(logger.New())

	app.Use(recover.New())

	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Setup Routes
	router.SetupRoutes(app, router.Dependencies{
		Env:     getEnv,
		Store:   store,
		Storage: storageClient,
		Cache:   redisCache,
	})

	// Get the PORT & Start the Server
	return server.Run()

}
