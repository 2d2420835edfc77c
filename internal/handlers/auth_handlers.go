package handlers

import (
	"errors"
	"net/http"

	"barpos/internal/common"
	"barpos/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService services.AuthServiceInterface
}

func NewAuthHandlers(authService services.AuthServiceInterface) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Username == "" || req.Password == "" {
		return common.SendClientError(c, "username and password are required")
	}
	if len(req.Password) < 8 {
		return common.SendValidationError(c, "password", "must be at least 8 characters")
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendUnauthorizedError(c)
		}
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// Me handles GET /me
func (h *AuthHandlers) Me(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
