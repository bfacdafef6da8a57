package user

import (
	"encoding/json"

	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/lms-api/utils/response"
)

// UserHandler forwards profile changes to the identity provider. User records
// live entirely with the provider; nothing is persisted locally.
type UserHandler struct {
	clerkConfigured bool
}

// NewUserHandler creates a new user handler
func NewUserHandler(clerkConfigured bool) *UserHandler {
	return &UserHandler{clerkConfigured: clerkConfigured}
}

// UpdateUserRequest represents the request body for a profile update
type UpdateUserRequest struct {
	PublicMetadata json.RawMessage `json:"publicMetadata"`
}

// UpdateUser handles PUT /users/clerk/:userId
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	if !h.clerkConfigured {
		return response.InternalServerError(c, "Identity provider is not configured")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.PublicMetadata) == 0 {
		return response.BadRequest(c, "Public metadata is required")
	}

	updated, err := user.UpdateMetadata(c.Context(), userID, &user.UpdateMetadataParams{
		PublicMetadata: &req.PublicMetadata,
	})
	if err != nil {
		return response.ErrorWithDetails(c, fiber.StatusInternalServerError, "Error updating user", err.Error())
	}

	return response.Success(c, "User updated successfully", updated)
}
