package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// ErrBucketNotConfigured is returned when S3_BUCKET_NAME is missing.
var ErrBucketNotConfigured = errors.New("S3_BUCKET_NAME is not configured")

// uploadURLValidity bounds how long a signed upload URL stays usable.
const uploadURLValidity = 60 * time.Second

// Client issues short-lived presigned PUT URLs for direct client-to-bucket
// video uploads and derives the public delivery URL for the same key.
type Client struct {
	s3Client         *s3.S3
	bucket           string
	cloudfrontDomain string
}

// Config holds configuration for the storage client
type Config struct {
	Region           string
	Bucket           string
	CloudfrontDomain string
}

// NewClient creates a new storage client
func NewClient(config Config) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &Client{
		s3Client:         s3.New(sess),
		bucket:           config.Bucket,
		cloudfrontDomain: config.CloudfrontDomain,
	}, nil
}

// UploadURL is the pair handed back to the uploader: where to PUT the bytes
// and where they will be served from afterwards.
type UploadURL struct {
	UploadURL string `json:"uploadUrl"`
	VideoURL  string `json:"videoUrl"`
}

// GenerateUploadURL presigns a PUT scoped to a fresh videos/{id}/{fileName}
// key and the declared content type. The payload never passes through this
// server.
func (c *Client) GenerateUploadURL(fileName, fileType string) (*UploadURL, error) {
	if c.bucket == "" {
		return nil, ErrBucketNotConfigured
	}

	key := fmt.Sprintf("videos/%s/%s", uuid.New().String(), fileName)

	req, _ := c.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	})
	uploadURL, err := req.Presign(uploadURLValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload URL: %w", err)
	}

	return &UploadURL{
		UploadURL: uploadURL,
		VideoURL:  fmt.Sprintf("https://%s/%s", c.cloudfrontDomain, key),
	}, nil
}
