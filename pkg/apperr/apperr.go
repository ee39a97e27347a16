// Package apperr 服务层与 HTTP 层共用的错误分类。
//
// 服务返回下列构造函数生成的 *Error，处理器通过 Kind.HTTPStatus 映射状态码。按类别匹配：
//
//	if errors.Is(err, apperr.ErrConflict) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindConflict:
		return "CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus 处理器应返回的状态码；冲突按 400 返回
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is 同类别的任意 *Error 都匹配
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// WithCause 返回包装 err 的副本
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, cause: err}
}

// 供 errors.Is 使用的哨兵值
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation error"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
)

func newf(kind Kind, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

// Validation 输入格式错误或越界
func Validation(format string, args ...any) *Error { return newf(KindValidation, format, args...) }

// Conflict 关系已存在或不存在
func Conflict(format string, args ...any) *Error { return newf(KindConflict, format, args...) }

// NotFound 引用的实体不存在
func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }

// Forbidden 无权修改目标
func Forbidden(format string, args ...any) *Error { return newf(KindForbidden, format, args...) }

// Unauthorized 缺少或无效的身份
func Unauthorized(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}

// KindOf 返回 err 的类别；非 *Error 时为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
