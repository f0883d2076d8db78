package service

import "errors"

// Категории ошибок сервиса. Граница HTTP сопоставляет их со статусами через errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrStorage         = errors.New("storage failure")
)

// Error — ошибка с сообщением для клиента. Cause в сообщение не попадает.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Message возвращает текст, безопасный для ответа клиенту.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Internal server error"
}

func validationErr(msg string) error { return &Error{Kind: ErrValidation, Msg: msg} }
func forbiddenErr(msg string) error  { return &Error{Kind: ErrForbidden, Msg: msg} }
func notFoundErr(msg string) error   { return &Error{Kind: ErrNotFound, Msg: msg} }
func stateErr(msg string) error      { return &Error{Kind: ErrInvalidState, Msg: msg} }

func storageErr(msg string, cause error) error {
	return &Error{Kind: ErrStorage, Msg: msg, Cause: cause}
}
