package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	// All variables
	GO_ENV string
	PORT   int
	// AWS / DynamoDB Configuration
	AWS_REGION        string
	DYNAMODB_ENDPOINT string
	// S3 / CloudFront Configuration
	S3_BUCKET_NAME    string
	CLOUDFRONT_DOMAIN string
	// Identity Provider Configuration
	CLERK_SECRET_KEY string
	JWT_SECRET       string
	// Payment Processor Configuration
	STRIPE_SECRET_KEY string
	// Redis Configuration
	REDIS_URL string
	// CORS
	ALLOWED_ORIGINS string
}

func Get() (*EnvironmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	awsRegion := os.Getenv("AWS_REGION")
	if awsRegion == "" {
		awsRegion = "us-east-1"
	}

	envVariables := &EnvironmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,
		// AWS
		AWS_REGION:        awsRegion,
		DYNAMODB_ENDPOINT: os.Getenv("DYNAMODB_ENDPOINT"),
		// Storage
		S3_BUCKET_NAME:    os.Getenv("S3_BUCKET_NAME"),
		CLOUDFRONT_DOMAIN: os.Getenv("CLOUDFRONT_DOMAIN"),
		// Identity
		CLERK_SECRET_KEY: os.Getenv("CLERK_SECRET_KEY"),
		JWT_SECRET:       os.Getenv("JWT_SECRET"),
		// Payments
		STRIPE_SECRET_KEY: os.Getenv("STRIPE_SECRET_KEY"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// CORS
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
	}

	return envVariables, nil
}

// IsLocal reports whether the app is running against local collaborators
// (DynamoDB local, dev token verifier) instead of the managed services.
func (e *EnvironmentVariable) IsLocal() bool {
	return e.GO_ENV == "" || e.GO_ENV == "development"
}
