package handlers

import (
	"net/http"
	"strconv"
	"time"

	"barpos/internal/common"
	"barpos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReportHandlers handles the sales reporting endpoints.
type ReportHandlers struct {
	saleService    services.SaleServiceInterface
	receiptService services.ReceiptServiceInterface
}

func NewReportHandlers(saleService services.SaleServiceInterface, receiptService services.ReceiptServiceInterface) *ReportHandlers {
	return &ReportHandlers{
		saleService:    saleService,
		receiptService: receiptService,
	}
}

// ListSales handles GET /reports/sales
func (h *ReportHandlers) ListSales(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	sales, err := h.saleService.ListSales(c.Request().Context(), limit, offset)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// GetSalesByDate handles GET /reports/sales/by-date?date=2006-01-02
func (h *ReportHandlers) GetSalesByDate(c echo.Context) error {
	day, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return common.SendValidationError(c, "date", "must be formatted as YYYY-MM-DD")
	}

	sales, err := h.saleService.GetSalesByDate(c.Request().Context(), day)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// GetSale handles GET /reports/sales/:id
func (h *ReportHandlers) GetSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid sale id")
	}

	sale, err := h.saleService.GetSaleByID(c.Request().Context(), id)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// CancelSale handles DELETE /reports/sales/:id
func (h *ReportHandlers) CancelSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid sale id")
	}

	if err := h.saleService.DeleteSale(c.Request().Context(), id); err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateReceipt handles POST /reports/sales/:id/receipt
func (h *ReportHandlers) GenerateReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid sale id")
	}

	url, err := h.receiptService.GenerateReceipt(c.Request().Context(), id)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"receipt_url": url})
}
