package handler

import (
	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/pkg/response"
)

// WorkTypeHandler 工作类型 HTTP 处理器
type WorkTypeHandler struct {
	workTypeSvc service.WorkTypeService
}

// NewWorkTypeHandler 创建 WorkTypeHandler
func NewWorkTypeHandler(workTypeSvc service.WorkTypeService) *WorkTypeHandler {
	return &WorkTypeHandler{workTypeSvc: workTypeSvc}
}

// GET /api/v1/work-types
func (h *WorkTypeHandler) ListWorkTypes(c *gin.Context) {
	list, err := h.workTypeSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GET /api/v1/work-types/:id
func (h *WorkTypeHandler) GetWorkType(c *gin.Context) {
	wt, err := h.workTypeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, wt)
}

// POST /api/v1/work-types
func (h *WorkTypeHandler) CreateWorkType(c *gin.Context) {
	var req dto.CreateWorkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	wt, err := h.workTypeSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, wt)
}

// PUT /api/v1/work-types/:id
func (h *WorkTypeHandler) UpdateWorkType(c *gin.Context) {
	var req dto.UpdateWorkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	wt, err := h.workTypeSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, wt)
}

// DELETE /api/v1/work-types/:id
func (h *WorkTypeHandler) DeleteWorkType(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.workTypeSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
