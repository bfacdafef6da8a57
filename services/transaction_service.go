package services

import (
	"context"
	"errors"
	"time"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/model"
)

// TransactionService records confirmed payments and performs the enrollment
// side effects: seeding an initial progress record and adding the buyer to the
// course's enrollments.
type TransactionService struct {
	store database.Storage
}

func NewTransactionService(store database.Storage) *TransactionService {
	return &TransactionService{store: store}
}

// CreateTransactionInput carries the payment confirmation details.
type CreateTransactionInput struct {
	UserID          string `json:"userId" validate:"required"`
	CourseID        string `json:"courseId" validate:"required"`
	TransactionID   string `json:"transactionId" validate:"required"`
	Amount          int    `json:"amount"`
	PaymentProvider string `json:"paymentProvider" validate:"required"`
}

// Create appends the transaction and enrolls the user. The transaction write,
// progress seed and enrollment update are three separate store calls; only the
// enrollment update is guarded by the course version token.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (*model.Transaction, error) {
	course, err := s.store.GetCourse(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}

	tx := &model.Transaction{
		UserID:          in.UserID,
		TransactionID:   in.TransactionID,
		DateTime:        time.Now().UTC().Format(time.RFC3339),
		CourseID:        in.CourseID,
		PaymentProvider: in.PaymentProvider,
		Amount:          in.Amount,
	}
	if err := s.store.PutTransaction(ctx, tx); err != nil {
		return nil, err
	}

	// Seed progress only for first-time enrollments.
	if _, err := s.store.GetProgress(ctx, in.UserID, in.CourseID); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		if err := s.store.PutProgress(ctx, model.InitialProgress(in.UserID, course)); err != nil {
			return nil, err
		}
	}

	if !course.Enrolled(in.UserID) {
		course.Enrollments = append(course.Enrollments, model.Enrollment{UserID: in.UserID})
		expected := course.Version
		course.Version = expected + 1
		course.UpdatedAt = time.Now().UTC()
		if err := s.store.PutCourse(ctx, course, expected); err != nil {
			if errors.Is(err, database.ErrVersionConflict) {
				return nil, ErrConflict
			}
			return nil, err
		}
	}

	return tx, nil
}

// List returns all transactions, or only the given user's.
func (s *TransactionService) List(ctx context.Context, userID string) ([]model.Transaction, error) {
	return s.store.ScanTransactions(ctx, userID)
}
