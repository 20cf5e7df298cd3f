package handler

import (
	"errors"
	"fmt"
	"net/http"

	"croncommander/commons/error_handler"
	"croncommander/commons/response"
	"croncommander/internal/auth"
	"croncommander/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

func ErrorHandlingMiddleware(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if recovered != nil {
			log.WithContext(c.Request.Context()).Error("panic recovered in middleware",
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
				logger.Any("panic", recovered))

			standardResponse := response.StandardResponse{
				Success:   false,
				Status:    response.StatusFailed,
				ErrorCode: error_handler.CodeInternalServerError,
				Message:   "Internal server error",
				Data:      "Internal server error",
				Errors: []response.Errors{
					error_handler.GetInternalServerError("An unexpected error occurred"),
				},
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, standardResponse)
		}
	})
}

// RequestIDMiddleware tags the request context with an id, reusing the caller's if sent
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := log.WithContext(c.Request.Context())

		reqLog.Info("request started",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.String("user_agent", c.GetHeader("User-Agent")),
			logger.String("remote_addr", c.ClientIP()))

		c.Next()

		reqLog.Info("request completed",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status_code", c.Writer.Status()))
	}
}

// AuthMiddleware resolves the caller from the request and rejects anonymous requests.
// Capability checks are left to the services.
func AuthMiddleware(authenticator auth.Authenticator, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := authenticator.Authenticate(c.Request)
		if err != nil {
			level := log.Info
			if errors.Is(err, auth.ErrUnknownKey) {
				level = log.Warn
			}
			level("request not authenticated",
				logger.String("path", c.Request.URL.Path),
				logger.String("remote_addr", c.ClientIP()),
				logger.Error(err))

			SendErrorResponse(c, error_handler.NewErrorCollection().
				AddError(error_handler.CodeUnauthorized, "Permission denied", nil))
			return
		}

		c.Request = c.Request.WithContext(auth.WithCaller(c.Request.Context(), caller))
		c.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Cron-Commander-Token")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		SendErrorResponse(c, error_handler.NewErrorCollection().
			AddError(error_handler.CodeNotFound, "Route not found", nil).
			AddError(error_handler.CodeNotFound,
				fmt.Sprintf("The requested route '%s %s' was not found", c.Request.Method, c.Request.URL.Path), nil))
	}
}

func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		SendErrorResponse(c, error_handler.NewErrorCollection().
			AddError(error_handler.CodeMethodNotAllowed, "Method not allowed", nil).
			AddError(error_handler.CodeMethodNotAllowed,
				fmt.Sprintf("Method '%s' is not allowed for route '%s'", c.Request.Method, c.Request.URL.Path), nil))
	}
}
