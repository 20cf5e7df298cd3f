package error_handler

import (
	"croncommander/commons/response"
	"net/http"
)

type ErrorCollection struct {
	errors []response.Errors
}

func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		errors: make([]response.Errors, 0),
	}
}

func (ec *ErrorCollection) AddError(code int, message string, data any) *ErrorCollection {
	ec.errors = append(ec.errors, response.Errors{
		ErrorCode: code,
		Message:   message,
		Data:      data,
	})
	return ec
}

func (ec *ErrorCollection) HasErrors() bool {
	return ec != nil && len(ec.errors) > 0
}

func (ec *ErrorCollection) GetErrors() []response.Errors {
	if ec == nil {
		return nil
	}
	return ec.errors
}

// GetHTTPStatus answers with the code of the first error when it is a valid
// HTTP error status
func (ec *ErrorCollection) GetHTTPStatus() int {
	if !ec.HasErrors() {
		return http.StatusOK
	}

	code := ec.errors[0].ErrorCode
	switch {
	case code >= 400 && code <= 599:
		return code
	case code > 599:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Common error codes
const (
	CodeValidationError     = 400
	CodeUnauthorized        = 401
	CodeForbidden           = 403
	CodeNotFound            = 404
	CodeMethodNotAllowed    = 405
	CodeInternalServerError = 500
	CodeServiceUnavailable  = 503
)

// Helper functions for common errors
func GetValidationError(message string) response.Errors {
	return response.Errors{
		ErrorCode: CodeValidationError,
		Message:   message,
		Data:      nil,
	}
}

func GetUnauthorizedError(message string) response.Errors {
	return response.Errors{
		ErrorCode: CodeUnauthorized,
		Message:   message,
		Data:      nil,
	}
}

func GetNotFoundError(message string) response.Errors {
	return response.Errors{
		ErrorCode: CodeNotFound,
		Message:   message,
		Data:      nil,
	}
}

func GetInternalServerError(message string) response.Errors {
	return response.Errors{
		ErrorCode: CodeInternalServerError,
		Message:   message,
		Data:      nil,
	}
}
