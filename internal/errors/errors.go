package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType classifies failures along the pipeline boundaries.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeSchema     ErrorType = "schema"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError carries a typed error with a stable code, a user-facing message
// and the wrapped internal cause.
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
	Context  map[string]interface{}
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches AppErrors by type and code so sentinel comparisons work
// through wrapping.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext attaches a key/value pair for structured logging.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns the error as slog key/value pairs.
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// New creates an AppError recording the caller as its source.
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into an AppError.
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal for plain errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Handler logs errors with severity matched to their type.
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs err according to its type. Caller-fixable failures are
// warnings; upstream and internal failures are errors.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypePermission, ErrorTypeRateLimit:
		h.logger.WarnContext(ctx, "Request rejected", appErr.LogFields()...)
	case ErrorTypeExternal, ErrorTypeSchema, ErrorTypeDatabase, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Pipeline failure", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", appErr.LogFields()...)
	}
}

// NewValidationError marks a caller-fixable request shape problem. These are
// rejected before any quota is consumed.
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

// NewUnauthenticatedError marks a request with no caller identity.
func NewUnauthenticatedError() *AppError {
	return New(ErrorTypePermission, "UNAUTHENTICATED", "User must be logged in")
}

// NewQuotaExceededError carries the configured limit so the user-facing
// message can embed it. The message mirrors the product wording shown to
// Japanese users.
func NewQuotaExceededError(limit int) *AppError {
	return New(ErrorTypeRateLimit, "QUOTA_EXCEEDED",
		fmt.Sprintf("1日の実行回数制限(%d回)を超えました。明日またお試しください。", limit)).
		WithContext("limit", limit)
}

// NewGenerationError wraps a transport or timeout failure from the
// generation backend. Never retried.
func NewGenerationError(err error) *AppError {
	return Wrap(err, ErrorTypeExternal, "GENERATION_FAILED", "Menu generation failed")
}

// NewSchemaError marks a generator payload that violates the declared
// output contract.
func NewSchemaError(detail string) *AppError {
	return New(ErrorTypeSchema, "SCHEMA_VIOLATION", fmt.Sprintf("generator output invalid: %s", detail))
}

// NewInconsistentUnitsError marks a plan where the same nutrient name
// appears under two different units. No unit conversion is ever guessed.
func NewInconsistentUnitsError(name, unitA, unitB string) *AppError {
	return New(ErrorTypeInternal, "INCONSISTENT_UNITS",
		fmt.Sprintf("nutrient %q reported in both %q and %q", name, unitA, unitB)).
		WithContext("nutrient", name)
}

// NewDatabaseError wraps a storage failure.
func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

// NewInternalError wraps anything else.
func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}
