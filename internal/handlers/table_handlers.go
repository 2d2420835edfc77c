package handlers

import (
	"net/http"
	"strconv"

	"barpos/internal/common"
	"barpos/internal/jobs/background"
	"barpos/internal/services"

	"github.com/labstack/echo/v4"
)

// TableHandlers handles HTTP requests for tables and the alert monitor.
type TableHandlers struct {
	tableService services.TableServiceInterface
	scheduler    *background.JobScheduler
}

func NewTableHandlers(tableService services.TableServiceInterface, scheduler *background.JobScheduler) *TableHandlers {
	return &TableHandlers{
		tableService: tableService,
		scheduler:    scheduler,
	}
}

// ListTables handles GET /tables
func (h *TableHandlers) ListTables(c echo.Context) error {
	tables, err := h.tableService.ListTables(c.Request().Context())
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tables)
}

// GetTable handles GET /tables/:id
func (h *TableHandlers) GetTable(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid table id")
	}

	table, err := h.tableService.GetTableByID(c.Request().Context(), id)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// InitMonitoring handles POST /tables/init-monitoring. Starting twice is a
// no-op.
func (h *TableHandlers) InitMonitoring(c echo.Context) error {
	h.scheduler.Start()
	return c.JSON(http.StatusOK, map[string]string{"message": "Table status monitoring started"})
}
