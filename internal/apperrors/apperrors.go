package apperrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/deepcave/auth-service/internal/logger"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Stable machine-readable error codes.
const (
	CodeValidation     = "validation_error"
	CodeConflict       = "conflict_error"
	CodeNotFound       = "not_found_error"
	CodeAuthentication = "authentication_error"
	CodeConfiguration  = "configuration_error"
	CodePersistence    = "persistence_error"
	CodeTimeout        = "timeout_error"
	CodeUnknown        = "unknown_error"
)

// Error is the tagged error value every failure in the service funnels into.
// Operational errors carry a user-facing message and status; everything else
// is surfaced as a generic 500 with the cause logged server-side only.
type Error struct {
	Code        string
	StatusCode  int
	Message     string
	Field       string // optional offending field
	Operational bool
	Err         error // wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a 400 error for a rejected request field.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, StatusCode: http.StatusBadRequest, Message: message, Operational: true}
}

// ValidationField returns a 400 error naming the offending field.
func ValidationField(message, field string) *Error {
	e := Validation(message)
	e.Field = field
	return e
}

// Conflict returns a 409 error for a uniqueness clash.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, StatusCode: http.StatusConflict, Message: message, Operational: true}
}

// NotFound returns a 404 error.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, StatusCode: http.StatusNotFound, Message: message, Operational: true}
}

// Authentication returns a 401 error.
func Authentication(message string) *Error {
	return &Error{Code: CodeAuthentication, StatusCode: http.StatusUnauthorized, Message: message, Operational: true}
}

// Configuration returns a 500 error for missing or invalid startup configuration.
// It is operational so the message reaches logs verbatim, but it must be raised
// at construction time, never from a request path.
func Configuration(message string) *Error {
	return &Error{Code: CodeConfiguration, StatusCode: http.StatusInternalServerError, Message: message, Operational: true}
}

// Persistence wraps a storage failure as a 500.
func Persistence(err error) *Error {
	return &Error{Code: CodePersistence, StatusCode: http.StatusInternalServerError, Message: "Storage operation failed", Operational: true, Err: err}
}

// Timeout returns a 503 for an expired persistence deadline; the client may retry.
func Timeout(err error) *Error {
	return &Error{Code: CodeTimeout, StatusCode: http.StatusServiceUnavailable, Message: "Request timed out, please retry", Operational: true, Err: err}
}

// Classify maps any error to an *Error according to the response contract:
// postgres unique violations become conflicts, postgres cast errors become
// validation errors naming the column, malformed or expired tokens become 401s,
// persistence deadlines become retryable 503s, and anything unrecognized is a
// non-operational 500.
func Classify(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return &Error{
				Code:        CodeConflict,
				StatusCode:  http.StatusConflict,
				Message:     "User already exists",
				Field:       pgErr.ConstraintName,
				Operational: true,
				Err:         err,
			}
		case pgerrcode.IsDataException(pgErr.Code):
			return &Error{
				Code:        CodeValidation,
				StatusCode:  http.StatusBadRequest,
				Message:     "Invalid value provided",
				Field:       pgErr.ColumnName,
				Operational: true,
				Err:         err,
			}
		}
	}

	if errors.Is(err, jwtlib.ErrTokenMalformed) ||
		errors.Is(err, jwtlib.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwtlib.ErrTokenUnverifiable) ||
		errors.Is(err, jwtlib.ErrTokenExpired) ||
		errors.Is(err, jwtlib.ErrTokenInvalidIssuer) ||
		errors.Is(err, jwtlib.ErrTokenInvalidClaims) {
		e := Authentication("Invalid token. Please log in again!")
		e.Err = err
		return e
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(err)
	}

	return &Error{
		Code:        CodeUnknown,
		StatusCode:  http.StatusInternalServerError,
		Message:     "Something went very wrong!",
		Operational: false,
		Err:         err,
	}
}

// Response is the JSON error envelope. Status is "fail" for 4xx and "error"
// for 5xx. ErrorDetail and Stack are populated in development mode only.
type Response struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ErrorDetail string `json:"error,omitempty"`
	Stack       string `json:"stack,omitempty"`
}

// Write classifies err and renders the error envelope. Non-operational errors
// are logged with full detail and reach the client as a generic 500 unless
// devMode is set, in which case cause and stack are echoed to aid debugging.
func Write(w http.ResponseWriter, err error, devMode bool) {
	e := Classify(err)

	if !e.Operational {
		logger.Log.Errorw("unexpected error",
			"code", e.Code,
			"error", e.Err,
		)
	}

	status := "error"
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		status = "fail"
	}

	resp := Response{
		Status:  status,
		Message: e.Message,
	}
	if devMode {
		resp.ErrorDetail = e.Error()
		resp.Stack = string(debug.Stack())
	} else if !e.Operational {
		resp.Message = "Something went very wrong!"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	json.NewEncoder(w).Encode(resp)
}
