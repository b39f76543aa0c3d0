package errors

import (
	"errors"
	"fmt"
)

// ── 错误类别 ──
//
// 业务错误均归入以下类别之一，调用方通过 errors.Is 判断类别，
// 各模块的具体错误（如 service.ErrTeamNotFound）在类别之上附带业务语义。

var (
	ErrNotFound         = errors.New("记录不存在或已删除")
	ErrValidation       = errors.New("参数校验失败")
	ErrReference        = errors.New("引用的记录不存在或已删除")
	ErrDuplicate        = errors.New("记录已存在")
	ErrPermissionDenied = errors.New("无操作权限")
	ErrStoreClosed      = errors.New("存储已关闭")
)

// Error 带上下文的业务错误，Unwrap 返回其类别
type Error struct {
	Kind    error
	Entity  string
	ID      string
	Field   string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, msg)
	case e.Entity != "" && e.ID != "":
		return fmt.Sprintf("%s(%s): %s", e.Entity, e.ID, msg)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s", e.Entity, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// Define 声明某类别下的模块级错误
func Define(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// NotFound 记录不存在（或已软删除）
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Validation 字段校验失败
func Validation(field, message string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: message}
}

// Duplicate 重复记录
func Duplicate(entity, id, message string) error {
	return &Error{Kind: ErrDuplicate, Entity: entity, ID: id, Message: message}
}

// PermissionDenied 权限校验未通过
func PermissionDenied(capability string) error {
	return &Error{Kind: ErrPermissionDenied, Entity: capability}
}

// WithID 为模块级错误补充出错的记录 ID，保留原有错误链
func WithID(err error, id string) error {
	return fmt.Errorf("%w: %s", err, id)
}

// KindOf 返回 err 所属的类别，无法归类时返回 nil
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrValidation, ErrReference, ErrDuplicate, ErrPermissionDenied, ErrStoreClosed} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName 返回类别的短名称，用于日志与指标标签
func KindName(err error) string {
	switch KindOf(err) {
	case nil:
		if err == nil {
			return "ok"
		}
		return "internal"
	case ErrNotFound:
		return "not_found"
	case ErrValidation:
		return "validation"
	case ErrReference:
		return "reference"
	case ErrDuplicate:
		return "duplicate"
	case ErrPermissionDenied:
		return "permission_denied"
	default:
		return "store_closed"
	}
}
