package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind 错误分类，决定上层如何响应
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error 领域错误。Code 是对外稳定的错误码。
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is 按 Code 比较，使 errors.Is 可以匹配带不同 Message 的同类错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage 复制一份错误并替换消息
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg}
}

var (
	ErrMissingFields     = &Error{Kind: KindValidation, Code: "MissingFields", Message: "missing required fields"}
	ErrInvalidField      = &Error{Kind: KindValidation, Code: "InvalidField", Message: "malformed field"}
	ErrInvalidEntityType = &Error{Kind: KindValidation, Code: "InvalidEntityType", Message: "entity type must be POST or COMMENT"}
	ErrInvalidLeaning    = &Error{Kind: KindValidation, Code: "InvalidLeaning", Message: "invalid political leaning"}
	ErrInvalidParent     = &Error{Kind: KindValidation, Code: "InvalidParent", Message: "referenced post or comment does not exist"}
	ErrInvalidCredential = &Error{Kind: KindValidation, Code: "InvalidCredentials", Message: "invalid username or password"}

	ErrPostNotFound   = &Error{Kind: KindNotFound, Code: "PostNotFound", Message: "post not found"}
	ErrEntityNotFound = &Error{Kind: KindNotFound, Code: "EntityNotFound", Message: "entity not found"}
	ErrUserNotFound   = &Error{Kind: KindNotFound, Code: "UserNotFound", Message: "user not found"}
	ErrLikeNotFound   = &Error{Kind: KindNotFound, Code: "LikeNotFound", Message: "like not found"}

	ErrAlreadyLiked  = &Error{Kind: KindConflict, Code: "AlreadyLiked", Message: "entity already liked by user"}
	ErrUsernameInUse = &Error{Kind: KindConflict, Code: "UsernameInUse", Message: "username already in use"}
	ErrEmailInUse    = &Error{Kind: KindConflict, Code: "EmailInUse", Message: "email already in use"}
)

// KindOf 返回错误分类，非领域错误一律视为内部错误
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// isUniqueViolation 识别唯一约束冲突。TranslateError 覆盖大多数驱动，消息匹配兜底。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
