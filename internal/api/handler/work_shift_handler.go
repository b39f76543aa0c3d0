package handler

import (
	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/pkg/response"
)

// WorkShiftHandler 班次模块 HTTP 处理器
type WorkShiftHandler struct {
	workShiftSvc service.WorkShiftService
}

// NewWorkShiftHandler 创建 WorkShiftHandler
func NewWorkShiftHandler(workShiftSvc service.WorkShiftService) *WorkShiftHandler {
	return &WorkShiftHandler{workShiftSvc: workShiftSvc}
}

// ListWorkShifts 班次列表
// GET /api/v1/work-shifts?day_of_week=MONDAY
func (h *WorkShiftHandler) ListWorkShifts(c *gin.Context) {
	var req dto.WorkShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	list, err := h.workShiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetWorkShift 班次详情
// GET /api/v1/work-shifts/:id
func (h *WorkShiftHandler) GetWorkShift(c *gin.Context) {
	ws, err := h.workShiftSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, ws)
}

// CreateWorkShift 创建班次
// POST /api/v1/work-shifts
func (h *WorkShiftHandler) CreateWorkShift(c *gin.Context) {
	var req dto.CreateWorkShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	ws, err := h.workShiftSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, ws)
}

// UpdateWorkShift 更新班次
// PUT /api/v1/work-shifts/:id
func (h *WorkShiftHandler) UpdateWorkShift(c *gin.Context) {
	var req dto.UpdateWorkShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	ws, err := h.workShiftSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, ws)
}

// DeleteWorkShift 删除班次
// DELETE /api/v1/work-shifts/:id
func (h *WorkShiftHandler) DeleteWorkShift(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.workShiftSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
