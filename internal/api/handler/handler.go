package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Team         *TeamHandler
	Employee     *EmployeeHandler
	WorkType     *WorkTypeHandler
	WorkShift    *WorkShiftHandler
	Slot         *SlotHandler
	Availability *AvailabilityHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Team:         NewTeamHandler(svc.Team, svc.Resolver, svc.Calendar),
		Employee:     NewEmployeeHandler(svc.Employee),
		WorkType:     NewWorkTypeHandler(svc.WorkType),
		WorkShift:    NewWorkShiftHandler(svc.WorkShift),
		Slot:         NewSlotHandler(svc.Slot),
		Availability: NewAvailabilityHandler(svc.Match, svc.Export),
	}
}

// handleError 业务错误统一出口
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.FromError(c, err)
	}
}

// bindFailed 请求体或查询参数解析失败
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidParams, "参数校验失败", err.Error())
}
