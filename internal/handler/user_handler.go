package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
	"github.com/suhanachaudhary/harleen-design-backend/internal/service"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/storage"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/validator"
)

type UserHandler struct {
	userService *service.UserService
	files       storage.FileStorage
	validator   *validator.Validator
}

func NewUserHandler(userService *service.UserService, files storage.FileStorage, validator *validator.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		files:       files,
		validator:   validator,
	}
}

// List returns a paginated, filterable user listing. Admin only.
// GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	var req service.ListRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid query parameters",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp, err := h.userService.List(c.Context(), claimsFromCtx(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Get returns one user. Admin or self.
// GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.Get(c.Context(), claimsFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": user})
}

// Update applies a partial profile update. Admin or self.
// PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req service.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	imageRef, err := saveProfileImage(c, h.files)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.Update(c.Context(), claimsFromCtx(c), id, req, imageRef)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "user updated",
		"data":    user,
	})
}

// Delete removes a user. Admin only.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userService.Delete(c.Context(), claimsFromCtx(c), id); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "user deleted",
	})
}

// claimsFromCtx pulls the verified access-token claims stored by the auth
// middleware.
func claimsFromCtx(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals("claims").(*domain.Claims)
	return claims
}

func parseUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id: %w", domain.ErrValidation)
	}
	return id, nil
}
