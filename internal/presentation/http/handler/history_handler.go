package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoiceau-api/internal/application/service"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler serves the premium invoice history
type HistoryHandler struct {
	historyService *service.HistoryService
	exportService  *service.ExportService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.HistoryService, exportService *service.ExportService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, exportService: exportService}
}

// List returns the caller's invoices, newest first
// @Summary Invoice history
// @Tags invoices
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /invoices/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	params := pagination.DefaultPagination()
	if err := queryDecoder.Decode(params, c.Request.URL.Query()); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.historyService.Page(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Invoice history retrieved", result)
}

// Export returns the history as an xlsx workbook
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /invoices/history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	workbook, err := h.exportService.HistoryWorkbook(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-history-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}
