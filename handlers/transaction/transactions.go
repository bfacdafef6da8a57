package transaction

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/lms-api/database"
	"github.com/sahilchouksey/lms-api/services"
	"github.com/sahilchouksey/lms-api/utils/response"
	"github.com/sahilchouksey/lms-api/utils/validation"
)

// TransactionHandler handles payment and enrollment requests
type TransactionHandler struct {
	transactions *services.TransactionService
	payments     *services.PaymentService
	validator    *validation.Validator
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactions *services.TransactionService, payments *services.PaymentService) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		payments:     payments,
		validator:    validation.NewValidator(),
	}
}

// CreatePaymentIntentRequest represents the request body for a payment intent
type CreatePaymentIntentRequest struct {
	Amount int64 `json:"amount"`
}

// CreatePaymentIntent handles POST /transactions/stripe/payment-intent
func (h *TransactionHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req CreatePaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	clientSecret, err := h.payments.CreatePaymentIntent(req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrPaymentsNotConfigured) {
			return response.InternalServerError(c, "Payment processor is not configured")
		}
		return response.ErrorWithDetails(c, fiber.StatusInternalServerError, "Error creating payment intent", err.Error())
	}

	return response.Success(c, "", fiber.Map{"clientSecret": clientSecret})
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req services.CreateTransactionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Missing required transaction fields")
	}

	tx, err := h.transactions.Create(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return response.NotFound(c, "Course not found")
		case errors.Is(err, services.ErrConflict):
			return response.Conflict(c, "Course was modified concurrently, please retry")
		default:
			return response.ErrorWithDetails(c, fiber.StatusInternalServerError, "Error creating transaction and enrollment", err.Error())
		}
	}

	return response.Created(c, "Purchased course successfully", tx)
}

// ListTransactions handles GET /transactions
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	userID := c.Query("userId")

	txs, err := h.transactions.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Error retrieving transactions")
	}

	return response.Success(c, "Transactions retrieved successfully", txs)
}
