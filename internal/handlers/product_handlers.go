package handlers

import (
	"net/http"
	"strconv"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductHandlers struct {
	productService services.ProductServiceInterface
}

func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	if categoryIDStr := c.QueryParam("category_id"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			return common.SendClientError(c, "Invalid category id")
		}
		products, err := h.productService.ListProductsByCategory(c.Request().Context(), categoryID)
		if err != nil {
			return common.HandleServiceError(c, err)
		}
		return c.JSON(http.StatusOK, products)
	}

	products, err := h.productService.ListProducts(c.Request().Context(), limit, offset)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product id")
	}

	product, err := h.productService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req struct {
		Name          string  `json:"name"`
		CategoryID    *string `json:"category_id"`
		CategoryName  string  `json:"category_name"`
		Price         float64 `json:"price"`
		SendToKitchen bool    `json:"send_to_kitchen"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}
	if err := common.ValidatePositiveFloat(req.Price, "price", 100000.0); err != nil {
		return common.SendValidationError(c, "price", err.Error())
	}

	product := &models.Product{
		Name:          req.Name,
		Price:         req.Price,
		SendToKitchen: req.SendToKitchen,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return common.SendClientError(c, "Invalid category id")
		}
		product.CategoryID = categoryID
	}

	if err := h.productService.CreateProduct(c.Request().Context(), product, req.CategoryName); err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product id")
	}

	var req struct {
		Name          string  `json:"name"`
		CategoryID    string  `json:"category_id"`
		Price         float64 `json:"price"`
		SendToKitchen bool    `json:"send_to_kitchen"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return common.SendClientError(c, "Invalid category id")
	}
	if err := common.ValidatePositiveFloat(req.Price, "price", 100000.0); err != nil {
		return common.SendValidationError(c, "price", err.Error())
	}

	product := &models.Product{
		ID:            id,
		Name:          req.Name,
		CategoryID:    categoryID,
		Price:         req.Price,
		SendToKitchen: req.SendToKitchen,
	}
	if err := h.productService.UpdateProduct(c.Request().Context(), product); err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product id")
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
