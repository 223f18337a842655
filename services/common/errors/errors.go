package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error is an application error. Code is the HTTP status the error would map
// to on a REST surface; the intake endpoint reports it in the payload instead.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code and message, so a wrapped copy of
// one of the sentinels below still satisfies errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrap returns a copy of sentinel carrying err.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Intake error kinds.
var (
	ErrStore   = New(http.StatusInternalServerError, "Store error", nil)
	ErrNotify  = New(http.StatusBadGateway, "Notification error", nil)
	ErrBinding = New(http.StatusBadRequest, "Invalid submission payload", nil)
)

// Payload is the {status, message} body every intake response uses.
type Payload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Usage   string `json:"usage,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func Success(message string) Payload { return Payload{Status: StatusSuccess, Message: message} }

// Failure renders err as an error payload. The message is the cause only; the
// kind prefix stays in the logs.
func Failure(err error) Payload {
	var appErr *Error
	if stderrors.As(err, &appErr) && appErr.Err != nil {
		return Payload{Status: StatusError, Message: appErr.Err.Error()}
	}
	return Payload{Status: StatusError, Message: err.Error()}
}

// ErrorMiddleware converts the last error a handler attached with c.Error into
// an error payload. The HTTP status stays 200: clients read the outcome from the
// payload, never from the transport status.
func ErrorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusOK, Failure(err))
	}
}

// Recovery turns a panic into an error payload instead of a dropped connection.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusOK, Failure(fmt.Errorf("internal error: %v", recovered)))
	})
}
