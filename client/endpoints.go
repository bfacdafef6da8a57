package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sahilchouksey/lms-api/model"
)

// ListCourses returns all courses, or only those in the given category.
func (c *Client) ListCourses(ctx context.Context, category string) ([]model.Course, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	var courses []model.Course
	if _, err := c.do(ctx, http.MethodGet, "/courses", query, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse fetches a single course.
func (c *Client) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	var course model.Course
	if _, err := c.do(ctx, http.MethodGet, "/courses/"+url.PathEscape(courseID), nil, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse provisions a new draft course for the named teacher.
func (c *Client) CreateCourse(ctx context.Context, teacherID, teacherName string) (*model.Course, error) {
	body := map[string]string{
		"teacherId":   teacherID,
		"teacherName": teacherName,
	}
	var course model.Course
	if _, err := c.do(ctx, http.MethodPost, "/courses", nil, body, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse sends a partial patch; only the provided fields change.
func (c *Client) UpdateCourse(ctx context.Context, courseID string, patch map[string]interface{}) (*model.Course, error) {
	var course model.Course
	if _, err := c.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(courseID), nil, patch, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes a course and returns it as it existed before deletion.
func (c *Client) DeleteCourse(ctx context.Context, courseID string) (*model.Course, error) {
	var course model.Course
	if _, err := c.do(ctx, http.MethodDelete, "/courses/"+url.PathEscape(courseID), nil, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UploadURL is the signed upload destination plus the eventual delivery URL.
type UploadURL struct {
	UploadURL string `json:"uploadUrl"`
	VideoURL  string `json:"videoUrl"`
}

// GetUploadURL requests a short-lived signed URL for a chapter video upload.
func (c *Client) GetUploadURL(ctx context.Context, courseID, sectionID, chapterID, fileName, fileType string) (*UploadURL, error) {
	path := fmt.Sprintf("/courses/%s/sections/%s/chapters/%s/get-upload-url",
		url.PathEscape(courseID), url.PathEscape(sectionID), url.PathEscape(chapterID))
	body := map[string]string{
		"fileName": fileName,
		"fileType": fileType,
	}
	var urls UploadURL
	if _, err := c.do(ctx, http.MethodPost, path, nil, body, &urls); err != nil {
		return nil, err
	}
	return &urls, nil
}

// CreatePaymentIntent asks the server for a processor client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	body := map[string]int64{"amount": amount}
	var data struct {
		ClientSecret string `json:"clientSecret"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/transactions/stripe/payment-intent", nil, body, &data); err != nil {
		return "", err
	}
	return data.ClientSecret, nil
}

// CreateTransactionRequest carries a confirmed payment to the server.
type CreateTransactionRequest struct {
	UserID          string `json:"userId"`
	CourseID        string `json:"courseId"`
	TransactionID   string `json:"transactionId"`
	Amount          int    `json:"amount"`
	PaymentProvider string `json:"paymentProvider"`
}

// CreateTransaction records a confirmed payment and enrolls the user.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error) {
	var tx model.Transaction
	if _, err := c.do(ctx, http.MethodPost, "/transactions", nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListTransactions returns all transactions, or only the given user's.
func (c *Client) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := url.Values{}
	if userID != "" {
		query.Set("userId", userID)
	}
	var txs []model.Transaction
	if _, err := c.do(ctx, http.MethodGet, "/transactions", query, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// UpdateUser forwards a public-metadata change to the identity provider
// through the server. The returned payload is provider-shaped and left raw.
func (c *Client) UpdateUser(ctx context.Context, userID string, publicMetadata interface{}) error {
	path := "/users/clerk/" + url.PathEscape(userID)
	body := map[string]interface{}{"publicMetadata": publicMetadata}
	if _, err := c.do(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return err
	}
	return nil
}

// GetUserEnrolledCourses lists the courses the user is enrolled in.
func (c *Client) GetUserEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error) {
	path := fmt.Sprintf("/users/course-progress/%s/enrolled-courses", url.PathEscape(userID))
	var courses []model.Course
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}
