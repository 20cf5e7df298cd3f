package handler

import (
	"croncommander/commons/error_handler"
	"croncommander/internal/domain"
)

// Messages shown to operators for each failure kind
const (
	MessagePermissionDenied = "Permission denied"
	MessageInvalidToken     = "Invalid token"
	MessageInvalidInput     = "Invalid parameters"
	MessageHookNotFound     = "Hook not found"
	MessageUnavailable      = "Scheduler unavailable"
	MessageInternal         = "Internal server error"
)

// errorCollectionFor maps a service error onto the envelope's error code and message
func errorCollectionFor(err error) *error_handler.ErrorCollection {
	code, message := error_handler.CodeInternalServerError, MessageInternal

	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		code, message = error_handler.CodeValidationError, MessageInvalidInput
	case domain.KindUnauthorized:
		code, message = error_handler.CodeForbidden, MessagePermissionDenied
	case domain.KindInvalidToken:
		code, message = error_handler.CodeForbidden, MessageInvalidToken
	case domain.KindJobNotFound:
		code, message = error_handler.CodeNotFound, MessageHookNotFound
	case domain.KindUpstreamUnavailable:
		code, message = error_handler.CodeServiceUnavailable, MessageUnavailable
	}

	return error_handler.NewErrorCollection().AddError(code, message, string(domain.KindOf(err)))
}
