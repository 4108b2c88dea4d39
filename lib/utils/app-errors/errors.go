package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindForbidden      Kind = "FORBIDDEN"
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindStorageSigning Kind = "STORAGE_SIGNING"
	KindUpstream       Kind = "UPSTREAM"
)

// Error - ошибка с семантическим типом, сообщение показывается пользователю (кроме KindUpstream)
type Error struct {
	Kind    Kind
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", msg, e.cause.Error())
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is сравнивает только тип ошибки, поэтому errors.Is(err, ErrNotFound) работает для любого сообщения
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrForbidden      = &Error{Kind: KindForbidden}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrStorageSigning = &Error{Kind: KindStorageSigning}
	ErrUpstream       = &Error{Kind: KindUpstream}
)

func NewValidation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewFieldValidation(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func NewUnauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NewForbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NewNotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewStorageSigning(cause error) error {
	return &Error{Kind: KindStorageSigning, Message: "не удалось подписать ссылку на файл", cause: cause}
}

func NewUpstream(cause error, message string) error {
	return &Error{Kind: KindUpstream, Message: message, cause: cause}
}

// KindOf возвращает тип ошибки. Ошибки без типа считаются отказом внешней системы
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// UserMessage - текст для ответа клиенту. Детали отказов БД/хранилища наружу не отдаются
func UserMessage(err error, fallback string) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindUpstream {
		return fallback
	}
	if appErr.Field != "" {
		return fmt.Sprintf("%s: %s", appErr.Field, appErr.Message)
	}
	return appErr.Message
}
