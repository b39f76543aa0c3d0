package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AvailabilityHandler 可用性匹配 HTTP 处理器
type AvailabilityHandler struct {
	matchSvc  service.MatchService
	exportSvc service.ExportService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(matchSvc service.MatchService, exportSvc service.ExportService) *AvailabilityHandler {
	return &AvailabilityHandler{matchSvc: matchSvc, exportSvc: exportSvc}
}

// Match 按时间窗口匹配团队
// POST /api/v1/availability/match
func (h *AvailabilityHandler) Match(c *gin.Context) {
	var req dto.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.matchSvc.Match(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Export 导出匹配结果为 Excel
// POST /api/v1/availability/export
func (h *AvailabilityHandler) Export(c *gin.Context) {
	var req dto.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportMatches(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
