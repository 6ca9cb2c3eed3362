package utils

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petcare/internal/apperrors"
)

type APIResponse struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		OK:   true,
		Data: data,
	})
}

// CachedSuccessResponse adds a public cache window such as SearchCacheControl.
func CachedSuccessResponse(c *gin.Context, cacheControl string, data interface{}) {
	c.Header("Cache-Control", cacheControl)
	SuccessResponse(c, data)
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, APIResponse{
		OK: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorResponseWithDetails(c *gin.Context, statusCode int, code, message string, details map[string]string) {
	c.JSON(statusCode, APIResponse{
		OK: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ValidationErrorResponse(c *gin.Context, message string, errors map[string]string) {
	if message == "" {
		message = ErrValidationFailed
	}
	ErrorResponseWithDetails(c, http.StatusBadRequest, apperrors.CodeBadRequest, message, errors)
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, apperrors.CodeBadRequest, message)
}

// ErrorFromAppError writes err at the endpoint boundary. Client-facing kinds
// keep their message; upstream and internal failures are redacted when
// production is set.
func ErrorFromAppError(c *gin.Context, err error, production bool) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(ErrInternalServer, err)
	}

	if appErr.RetryAfter > 0 {
		seconds := int(math.Ceil(appErr.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	message := appErr.Message
	switch appErr.Kind {
	case apperrors.KindClient, apperrors.KindNotFound, apperrors.KindRateLimited:
	default:
		if production {
			message = ErrGenericFailure
		} else {
			message = appErr.Error()
		}
	}

	ErrorResponse(c, appErr.HTTPStatus(), appErr.Code, message)
}
