// SPDX-License-Identifier: ice License 1.0

package server

import (
	"net/http"

	"github.com/pkg/errors"
)

func BadRequest(err error, message string, errs ...string) *Response[ErrorResponse] {
	return &Response[ErrorResponse]{
		Data: &ErrorResponse{
			error:   err,
			Message: message,
			Errors:  errs,
		},
		Code: http.StatusBadRequest,
	}
}

func NotFound(err error, message string) *Response[ErrorResponse] {
	return &Response[ErrorResponse]{
		Data: &ErrorResponse{
			error:   err,
			Message: message,
		},
		Code: http.StatusNotFound,
	}
}

func Unexpected(err error) *Response[ErrorResponse] {
	return &Response[ErrorResponse]{
		Code: -1,
		Data: &ErrorResponse{
			error:   err,
			Message: err.Error(),
		},
	}
}

func Unauthorized(err error, message string) *Response[ErrorResponse] {
	return &Response[ErrorResponse]{
		Code: http.StatusUnauthorized,
		Data: &ErrorResponse{
			error:   errors.Wrapf(err, "authorization failed"),
			Message: message,
		},
	}
}

func NoContent() *Response[any] {
	return &Response[any]{Code: http.StatusNoContent}
}

func Created[RESP any](resp *RESP) *Response[RESP] {
	return &Response[RESP]{Code: http.StatusCreated, Data: resp}
}

func OK[RESP any](responses ...*RESP) *Response[RESP] {
	var resp *RESP
	if len(responses) == 1 {
		resp = responses[0]
	}

	return &Response[RESP]{Code: http.StatusOK, Data: resp}
}

func (e *ErrorResponse) Fail(err error) *ErrorResponse {
	e.error = err

	return e
}

func (e *ErrorResponse) InternalErr() error {
	return e.error
}
