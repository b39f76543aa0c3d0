package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/pkg/response"
)

// 由 JWT 中间件注入的上下文键
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxJTI      = "jti"
	CtxTokenExp = "token_exp"
)

// MustGetActor 从 Gin 上下文中提取当前操作者（user_id + role）。
// 中间件未注入时写入 401，调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID := c.GetString(CtxUserID)
	if userID == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return service.Actor{}, false
	}
	return service.Actor{ID: userID, Role: c.GetString(CtxRole)}, true
}

// tokenRemaining 当前 Token 的 jti 与剩余有效期
func tokenRemaining(c *gin.Context) (string, time.Duration) {
	jti := c.GetString(CtxJTI)
	exp := c.GetTime(CtxTokenExp)
	if exp.IsZero() {
		return jti, 0
	}
	return jti, time.Until(exp)
}
