package handler

import (
	"croncommander/internal/auth"
	"croncommander/internal/logger"

	"github.com/gin-gonic/gin"
)

type RequestIo[T any] struct {
	Body        T
	RawBody     []byte
	BindError   error
	PathParams  map[string]string
	QueryParams map[string]string
	Headers     map[string]string

	// ResponseHeaders are written before the envelope, on success and failure
	ResponseHeaders map[string]string
}

// SetResponseHeader queues a header for the response
func (io *RequestIo[T]) SetResponseHeader(key, value string) {
	if io.ResponseHeaders == nil {
		io.ResponseHeaders = make(map[string]string)
	}
	io.ResponseHeaders[key] = value
}

type HandlerDependencies struct {
	Logger logger.Logger

	// LenientBinding hands body binding errors to the service via
	// RequestIo.BindError instead of failing the request
	LenientBinding bool
}

func BuildRequestIo[T any](c *gin.Context) *RequestIo[T] {
	return &RequestIo[T]{
		PathParams:  extractPathParams(c),
		QueryParams: extractQueryParams(c),
		Headers:     extractHeaders(c),
	}
}

// Caller returns the authenticated caller put on the request by AuthMiddleware
func Caller(c *gin.Context) *auth.Caller {
	return auth.CallerFromContext(c.Request.Context())
}

func extractPathParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for _, param := range c.Params {
		params[param.Key] = param.Value
	}
	return params
}

func extractQueryParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

func extractHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string)
	for key, values := range c.Request.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}
	return headers
}
