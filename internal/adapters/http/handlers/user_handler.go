package handlers

import (
	"errors"
	"strconv"
	"strings"

	"citidesk/internal/adapters/http/middleware"
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/pagination"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles staff account management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ============================================================
// POST /api/v1/users — create staff account (admin)
// ============================================================
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Username, email and password are required")
	}

	actor := middleware.ActorFromCtx(c)
	user, err := h.userService.CreateUser(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, services.ErrEmailTaken):
			return response.Conflict(c, "Email already exists")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		default:
			return response.DomainError(c, err, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", user.ToResponse())
}

// ============================================================
// GET /api/v1/users — list staff accounts (admin)
// ============================================================
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	actor := middleware.ActorFromCtx(c)
	users, total, err := h.userService.ListUsers(c.Context(), actor, params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err, "Failed to list users")
	}

	out := make([]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}

	return response.Success(c, "Users retrieved", pagination.NewResponse(out, params, total))
}

// ============================================================
// PUT /api/v1/users/:id — update staff account (admin)
// ============================================================
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.ActorFromCtx(c)
	user, err := h.userService.UpdateUser(c.Context(), actor, uint(userID), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.BadRequest(c, "Cannot change your own role")
		case errors.Is(err, services.ErrEmailTaken):
			return response.Conflict(c, "Email already exists")
		default:
			return response.DomainError(c, err, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user.ToResponse())
}

// ============================================================
// POST /api/v1/users/change-password — change own password
// ============================================================
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Old and new passwords are required")
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrOldPasswordWrong):
			return response.BadRequest(c, "Old password is incorrect")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		default:
			return response.DomainError(c, err, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}
