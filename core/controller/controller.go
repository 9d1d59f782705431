package controller

import (
	"net/http"
	"time"

	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"

	"github.com/labstack/echo/v4"
)

// Response types
type (
	SuccessResponse struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message,omitempty"`
		Data      any       `json:"data,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}

	ErrorResponse struct {
		Success   bool             `json:"success"`
		Code      errors.ErrorCode `json:"code"`
		Error     string           `json:"error"`
		Details   any              `json:"details,omitempty"`
		Timestamp time.Time        `json:"timestamp"`
	}

	ValidationError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
)

// Response handler interface and implementation
type BaseController interface {
	BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	InternalServerError(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	NotFound(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	Forbidden(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	ServiceUnavailable(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	ValidationFailed(c echo.Context, errs []ValidationError) error
	SuccessResponse(c echo.Context, data any, message string) error
	CreatedResponse(c echo.Context, data any, message string) error
	ErrorResponse(c echo.Context, err *errors.AppError) error
}

type responseHandler struct{}

func NewBaseController() BaseController {
	return &responseHandler{}
}

func NewSuccessResponse(data any, message string) *SuccessResponse {
	return &SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func NewErrorBody(appErrCode errors.ErrorCode, message string, details ...any) *ErrorResponse {
	body := &ErrorResponse{
		Success:   false,
		Code:      appErrCode,
		Error:     message,
		Timestamp: time.Now().UTC(),
	}
	if len(details) > 0 {
		body.Details = details[0]
	}
	return body
}

// NewErrorResponse wraps the envelope in an echo.HTTPError so handlers can simply return it.
func NewErrorResponse(httpStatusCode int, appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return echo.NewHTTPError(httpStatusCode, NewErrorBody(appErrCode, message, details...))
}

func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// HTTP Error handlers
func (h *responseHandler) BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusBadRequest, appErrCode, message, details...)
}

func (h *responseHandler) InternalServerError(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusInternalServerError, appErrCode, message, details...)
}

func (h *responseHandler) NotFound(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusNotFound, appErrCode, message, details...)
}

func (h *responseHandler) Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusUnauthorized, appErrCode, message, details...)
}

func (h *responseHandler) Forbidden(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusForbidden, appErrCode, message, details...)
}

func (h *responseHandler) ServiceUnavailable(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusServiceUnavailable, appErrCode, message, details...)
}

// ValidationFailed answers 400 with the first field message as the error string
// and every field error under details.
func (h *responseHandler) ValidationFailed(c echo.Context, errs []ValidationError) error {
	message := "invalid request"
	if len(errs) > 0 {
		message = errs[0].Message
	}
	return c.JSON(http.StatusBadRequest, NewErrorBody(errors.ErrInvalidRequestData, message, errs))
}

func (h *responseHandler) SuccessResponse(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, NewSuccessResponse(data, message))
}

func (h *responseHandler) CreatedResponse(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusCreated, NewSuccessResponse(data, message))
}

func (h *responseHandler) ErrorResponse(c echo.Context, err *errors.AppError) error {
	if err == nil {
		err = errors.NewAppError(errors.ErrInternalServer, "internal server error", nil)
	}
	status := errors.HTTPStatus(err.Code)
	msg := err.Message
	if msg == "" {
		msg = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("BaseController:ErrorResponse", "status", status, "code", err.Code, "message", msg, "error", err.Err)
	} else {
		logger.Warn("BaseController:ErrorResponse", "status", status, "code", err.Code, "message", msg)
	}
	return c.JSON(status, NewErrorBody(err.Code, msg))
}

// HTTPErrorHandler renders errors that escape handlers (routing, binding, middleware) in the same envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var body any = NewErrorBody(errors.ErrInternalServer, "internal server error")

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch m := he.Message.(type) {
		case *ErrorResponse:
			body = m
		case string:
			body = NewErrorBody(codeForStatus(status), m)
		default:
			body = NewErrorBody(codeForStatus(status), http.StatusText(status))
		}
	} else {
		logger.Error("BaseController:HTTPErrorHandler:Unhandled", "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logger.Error("BaseController:HTTPErrorHandler:Write", "error", writeErr)
	}
}

func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return errors.ErrInvalidInput
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.ErrNotFound
	case http.StatusConflict:
		return errors.ErrConflict
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return errors.ErrServiceUnavailable
	default:
		return errors.ErrInternalServer
	}
}
