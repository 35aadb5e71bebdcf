package handlers

import (
	"errors"
	"log"

	"shoeshop/internal/models"
	"shoeshop/internal/repositories"
	"shoeshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/forgot-password", h.HandleForgotPassword)
}

// HandleRegister handles new user registration and echoes the stored user.
// Missing fields and duplicate emails are reported as a generic 500.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return invalidBody(c)
	}

	user := models.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Img:      req.Img,
	}

	err := h.validate.Struct(req)
	if err == nil {
		err = h.authService.RegisterUser(c.UserContext(), &user)
	}
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error registering user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin matches the username field against username or email and
// returns the stored user on success.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return invalidBody(c)
	}

	if err := h.validate.Struct(req); err != nil {
		return invalidCredentials(c)
	}

	user, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return invalidCredentials(c)
		}
		log.Printf("Login error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	return c.JSON(user)
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid username or password",
	})
}

// HandleForgotPassword acknowledges a reset request for a known email.
// No reset link is generated or sent.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		log.Printf("Error parsing forgot password request body: %v", err)
		return invalidBody(c)
	}

	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error handling forgot password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error handling forgot password",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Reset password link has been sent to your email.",
	})
}
