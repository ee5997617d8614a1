package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
	"github.com/suhanachaudhary/harleen-design-backend/internal/service"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/storage"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/validator"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type AuthHandler struct {
	authService *service.AuthService
	files       storage.FileStorage
	validator   *validator.Validator
}

func NewAuthHandler(authService *service.AuthService, files storage.FileStorage, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		files:       files,
		validator:   validator,
	}
}

// Register handles user registration, JSON or multipart with an optional
// profile_image file.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
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

	resp, err := h.authService.Register(c.Context(), req, imageRef)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login by email or phone
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
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

	resp, err := h.authService.Login(c.Context(), req, c.IP())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Refresh rotates a refresh token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

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

	tokens, err := h.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// Logout removes the presented refresh token. Always reports success.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

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

	if err := h.authService.Logout(c.Context(), req.RefreshToken); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out",
	})
}

// saveProfileImage stores the multipart profile_image file if one was sent and
// returns its reference. Returns "" when no file is attached or storage is
// disabled.
func saveProfileImage(c *fiber.Ctx, files storage.FileStorage) (string, error) {
	if files == nil {
		return "", nil
	}

	fileHeader, err := c.FormFile("profile_image")
	if err != nil {
		// No file attached.
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("profile_image must be jpg, jpeg, png or webp: %w", domain.ErrValidation)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := "profiles/" + uuid.New().String() + ext
	return files.Save(c.Context(), key, fileHeader.Header.Get("Content-Type"), f)
}
