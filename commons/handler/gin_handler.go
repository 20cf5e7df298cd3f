package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"croncommander/commons/error_handler"
	"croncommander/commons/response"
	"croncommander/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ServiceFunc[InputDto any, OutputDto any] func(
	ctx context.Context,
	ioutil *RequestIo[InputDto],
) (OutputDto, *error_handler.ErrorCollection)

func HandleFunc[InputDto any, OutputDto any](
	deps HandlerDependencies,
	serviceFunc ServiceFunc[InputDto, OutputDto],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := deps.Logger.WithContext(ctx)

		ioutil := BuildRequestIo[InputDto](c)

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.Error("unable to read request body", logger.Error(err))
			SendErrorResponse(c, error_handler.NewErrorCollection().
				AddError(error_handler.CodeInternalServerError, "Unable to parse request body", nil))
			return
		}

		ioutil.RawBody = bodyBytes

		if len(bodyBytes) > 0 && (c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut || c.Request.Method == http.MethodPatch) {
			// Restore the body for the binder to read
			c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			if err := c.ShouldBindWith(&ioutil.Body, bodyBinding(c)); err != nil {
				log.Warn("unable to bind request body",
					logger.Error(err),
					logger.Int("body_size", len(bodyBytes)))
				if !deps.LenientBinding {
					SendErrorResponse(c, error_handler.NewErrorCollection().
						AddError(error_handler.CodeValidationError, err.Error(), nil))
					return
				}
				ioutil.BindError = err
			}
		}

		outputDto, errorCollection := serviceFunc(ctx, ioutil)

		for key, value := range ioutil.ResponseHeaders {
			c.Header(key, value)
		}

		if errorCollection.HasErrors() {
			SendErrorResponse(c, errorCollection)
		} else {
			SendSuccessResponse(c, outputDto)
		}
	}
}

// bodyBinding picks form binding for HTML form posts and JSON otherwise
func bodyBinding(c *gin.Context) binding.Binding {
	switch c.ContentType() {
	case binding.MIMEPOSTForm:
		return binding.Form
	case binding.MIMEMultipartPOSTForm:
		return binding.FormMultipart
	default:
		return binding.JSON
	}
}

func SendSuccessResponse[T any](c *gin.Context, data T) {
	standardResponse := response.StandardResponse{
		Success:   true,
		Status:    response.StatusSuccess,
		ErrorCode: 0,
		Message:   "Success",
		Data:      data,
		Errors:    []response.Errors{},
	}

	c.JSON(http.StatusOK, standardResponse)
}

// SendErrorResponse writes the failure envelope; data carries the primary message
func SendErrorResponse(c *gin.Context, errorCollection *error_handler.ErrorCollection) {
	httpStatus := errorCollection.GetHTTPStatus()
	errors := errorCollection.GetErrors()

	var primaryErrorCode int
	var primaryMessage string

	if len(errors) > 0 {
		primaryErrorCode = errors[0].ErrorCode
		primaryMessage = errors[0].Message
	} else {
		httpStatus = http.StatusInternalServerError
		primaryErrorCode = error_handler.CodeInternalServerError
		primaryMessage = "Internal server error"
		errors = []response.Errors{}
	}

	standardResponse := response.StandardResponse{
		Success:   false,
		Status:    response.StatusFailed,
		ErrorCode: primaryErrorCode,
		Message:   primaryMessage,
		Data:      primaryMessage,
		Errors:    errors,
	}

	c.AbortWithStatusJSON(httpStatus, standardResponse)
}
