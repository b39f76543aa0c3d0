package handler

import (
	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/pkg/response"
)

// SlotHandler 时段模块 HTTP 处理器
type SlotHandler struct {
	slotSvc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(slotSvc service.SlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// ListSlots 时段列表
// GET /api/v1/slots?team_id=xxx&day_of_week=MONDAY&status=AVAILABLE
func (h *SlotHandler) ListSlots(c *gin.Context) {
	var req dto.SlotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	list, err := h.slotSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetSlot 时段详情
// GET /api/v1/slots/:id
func (h *SlotHandler) GetSlot(c *gin.Context) {
	slot, err := h.slotSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, slot)
}

// CreateSlot 创建时段
// POST /api/v1/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	slot, err := h.slotSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, slot)
}

// UpdateSlot 更新时段
// PUT /api/v1/slots/:id
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	slot, err := h.slotSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, slot)
}

// DeleteSlot 删除时段
// DELETE /api/v1/slots/:id
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.slotSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
