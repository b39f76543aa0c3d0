package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pet-cafe/backend/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// 业务错误码
const (
	CodeInvalidParams    = 10001
	CodeUnauthorized     = 10002
	CodeForbidden        = 10003
	CodeNotFound         = 20001
	CodeReferenceMissing = 20002
	CodeDuplicate        = 20003
	CodeInternal         = 50000
	CodeUnavailable      = 50001
)

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// FromError 按错误类别写入响应，未归类的错误一律视为内部错误
func FromError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	if kind == nil {
		InternalError(c)
		return
	}

	var status, code int
	switch kind {
	case apperrors.ErrNotFound:
		status, code = http.StatusNotFound, CodeNotFound
	case apperrors.ErrValidation:
		status, code = http.StatusBadRequest, CodeInvalidParams
	case apperrors.ErrReference:
		status, code = http.StatusUnprocessableEntity, CodeReferenceMissing
	case apperrors.ErrDuplicate:
		status, code = http.StatusConflict, CodeDuplicate
	case apperrors.ErrPermissionDenied:
		status, code = http.StatusForbidden, CodeForbidden
	default:
		status, code = http.StatusServiceUnavailable, CodeUnavailable
	}

	message := kind.Error()
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	ErrorWithDetails(c, status, code, message, err.Error())
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}
