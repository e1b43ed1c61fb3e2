// Package failure carries an HTTP status alongside an error so handlers can answer with
// response.WithError without inspecting domain errors themselves.
package failure

import (
	"errors"
	"net/http"
)

// Failure is the error type handlers turn into a response: Code becomes the status and
// Message the client-facing text.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

// ForbiddenError is returned by the RBAC layer when a role may not call an endpoint.
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the domain error a Failure was built from, if any.
func (e *Failure) Unwrap() error {
	return e.cause
}

func withMessage(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// Wrap keeps err reachable through errors.Is and uses its text as the message. A nil err
// stays nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: code, Message: err.Error(), cause: err}
}

// WrapWithMessage is Wrap with a fixed client message, so the cause is kept for errors.Is
// without reaching the response body.
func WrapWithMessage(code int, msg string, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: code, Message: msg, cause: err}
}

func BadRequest(err error) error {
	return Wrap(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return withMessage(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return withMessage(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return withMessage(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return withMessage(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return withMessage(http.StatusConflict, msg)
}

func InternalError(err error) error {
	return Wrap(http.StatusInternalServerError, err)
}

// GetCode returns the status of the first Failure in the chain, 500 otherwise.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
