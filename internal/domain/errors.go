// Package domain описывает классы ошибок бизнес-логики.
package domain

import (
	"errors"
	"fmt"
)

// Kind - класс ошибки. По нему HTTP-слой выбирает код ответа.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error - ошибка с классом и причиной, которую можно показать клиенту.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is сравнивает ошибки по классу, чтобы работал errors.Is(err, domain.ErrForbidden).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Reason == "" && t.Kind == e.Kind
}

// Эталонные ошибки для errors.Is.
var (
	ErrInvalid         = &Error{Kind: KindInvalid}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
)

func Invalid(reason string) error { return &Error{Kind: KindInvalid, Reason: reason} }

func Unauthenticated(reason string) error {
	return &Error{Kind: KindUnauthenticated, Reason: reason}
}

func Forbidden(reason string) error { return &Error{Kind: KindForbidden, Reason: reason} }

func NotFound(reason string) error { return &Error{Kind: KindNotFound, Reason: reason} }

func Conflict(reason string) error { return &Error{Kind: KindConflict, Reason: reason} }

// Wrap прикрепляет класс и причину к ошибке хранилища.
func Wrap(kind Kind, reason string, err error) error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// KindOf возвращает класс ошибки. Все, что не классифицировано, считается внутренней ошибкой.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf возвращает причину для клиента.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Reason != "" {
		return e.Reason
	}
	return "internal server error"
}
