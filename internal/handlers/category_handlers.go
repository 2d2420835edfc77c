package handlers

import (
	"net/http"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CategoryHandlers struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandlers(categoryService services.CategoryServiceInterface) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid category id")
	}

	category, err := h.categoryService.GetCategoryByID(c.Request().Context(), id)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	category := &models.Category{Name: req.Name}
	if err := h.categoryService.CreateCategory(c.Request().Context(), category); err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /categories/:id
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid category id")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	category := &models.Category{ID: id, Name: req.Name}
	if err := h.categoryService.UpdateCategory(c.Request().Context(), category); err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid category id")
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
