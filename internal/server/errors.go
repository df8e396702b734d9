package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	clandomain "github.com/smallbiznis/clans/internal/clan/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = &clandomain.Error{Code: "invalid_request"}
	ErrNotFound       = &clandomain.Error{Code: "not_found"}
)

// operationError attaches the client-facing message of the failing endpoint.
type operationError struct {
	message string
	err     error
}

func (e *operationError) Error() string {
	return e.message + ": " + e.err.Error()
}

func (e *operationError) Unwrap() error {
	return e.err
}

func failed(message string, err error) error {
	if err == nil {
		return nil
	}
	return &operationError{message: message, err: err}
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	message := "internal server error"
	var opErr *operationError
	if errors.As(err, &opErr) {
		message = opErr.message
	}

	errType, code := classifyError(err)
	payload := errorPayload{Type: errType, Code: code, Message: message}

	switch errType {
	case "not_found":
		if opErr == nil {
			payload.Message = "not found"
		}
		return http.StatusNotFound, payload
	case "conflict":
		return http.StatusConflict, payload
	case "validation_error":
		if opErr == nil {
			payload.Message = "invalid request"
		}
		return http.StatusBadRequest, payload
	default:
		return http.StatusInternalServerError, payload
	}
}

// classifyError returns the error type and stable code. Codes of unexpected
// errors are never exposed.
func classifyError(err error) (string, string) {
	switch {
	case isNotFoundError(err):
		return "not_found", codeOf(err, "not_found")
	case isConflictError(err):
		return "conflict", codeOf(err, "conflict")
	case isValidationError(err):
		return "validation_error", codeOf(err, "invalid_request")
	case errors.Is(err, clandomain.ErrCannotCreate):
		return "internal_error", clandomain.ErrCannotCreate.Code
	default:
		return "internal_error", "internal_error"
	}
}

func codeOf(err error, fallback string) string {
	var domainErr *clandomain.Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code
	}
	return fallback
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, clandomain.ErrNotFound)
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, clandomain.ErrAlreadyInClan),
		errors.Is(err, clandomain.ErrNameExists),
		errors.Is(err, clandomain.ErrTagExists),
		errors.Is(err, clandomain.ErrCreateContended):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, clandomain.ErrInvalidID),
		errors.Is(err, clandomain.ErrInvalidName),
		errors.Is(err, clandomain.ErrInvalidTag),
		errors.Is(err, clandomain.ErrInvalidOwner),
		errors.Is(err, clandomain.ErrInvalidJoinMethod):
		return true
	default:
		return false
	}
}
