// Package errors is the floorgen failure taxonomy.
//
// Every error that crosses a package boundary carries a [Code]. The CLI
// maps codes to exit statuses and the HTTP server maps them to response
// statuses via [HTTPStatus]; both rely on [Classify] so plain context
// errors get a code too.
//
// # Codes
//
//   - UNKNOWN_ROOM_TYPE: a requested name is not in the catalog. The entry
//     is dropped and the request continues.
//   - EMPTY_REQUEST: nothing resolved, no graph can be built.
//   - MODEL_INFERENCE, TIMEOUT, NETWORK_ERROR: the generative model failed
//     during a pass.
//   - RENDER: visualization failed. The layout itself stays valid.
//   - INVALID_INPUT, INVALID_CONFIG, INVALID_FORMAT: validation failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownRoomType, "unknown room type %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownRoomType) {
//	    // drop the entry and keep going
//	}
//
//	err = errors.Wrap(errors.ErrCodeModelInference, cause, "pass %d", k)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable failure category.
type Code string

const (
	ErrCodeUnknownRoomType Code = "UNKNOWN_ROOM_TYPE"
	ErrCodeEmptyRequest    Code = "EMPTY_REQUEST"

	ErrCodeModelInference Code = "MODEL_INFERENCE"
	ErrCodeTimeout        Code = "TIMEOUT"
	ErrCodeNetwork        Code = "NETWORK_ERROR"

	ErrCodeRender Code = "RENDER"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Recoverable reports whether a failure with this code leaves the request
// usable. Only unknown room types are; the offending entry is skipped.
func (c Code) Recoverable() bool { return c == ErrCodeUnknownRoomType }

// Error carries a code, a message meant for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an *Error around cause. errors.Is and errors.As still see
// the cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func find(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e := find(err)
	return e != nil && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e := find(err); e != nil {
		return e.Code
	}
	return ""
}

// Classify is GetCode with fallbacks: an expired deadline becomes
// ErrCodeTimeout and anything else uncoded becomes ErrCodeInternal.
// A nil error classifies as "".
func Classify(err error) Code {
	switch {
	case err == nil:
		return ""
	case GetCode(err) != "":
		return GetCode(err)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// UserMessage returns the message of the outermost *Error, without code
// prefix or cause, and err.Error() otherwise.
func UserMessage(err error) string {
	if e := find(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus is the response status the API uses for code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeUnknownRoomType, ErrCodeEmptyRequest, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeModelInference, ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
