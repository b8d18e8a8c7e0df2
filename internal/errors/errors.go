package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// Predefined error codes
const (
	CodeParseError        = "PARSE_ERROR"
	CodeEmptyDataset      = "EMPTY_DATASET"
	CodeUnknownColumn     = "UNKNOWN_COLUMN"
	CodeNoApplicableChart = "NO_APPLICABLE_CHART"
	CodeInvalidFilter     = "INVALID_FILTER"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
)

// ParseError reports a malformed input stream.
func ParseError(message string, cause error) *AppError {
	return &AppError{Code: CodeParseError, Message: message, Cause: cause}
}

// ParseErrorf is ParseError with a formatted message and no cause.
func ParseErrorf(format string, args ...interface{}) *AppError {
	return New(CodeParseError, fmt.Sprintf(format, args...))
}

func EmptyDataset(name string) *AppError {
	if name == "" {
		return New(CodeEmptyDataset, "dataset has no data rows")
	}
	return New(CodeEmptyDataset, fmt.Sprintf("dataset %q has no data rows", name))
}

func UnknownColumn(column string) *AppError {
	return New(CodeUnknownColumn, fmt.Sprintf("unknown column %q", column))
}

// NoApplicableChart reports that a chart kind's column prerequisites are unmet.
func NoApplicableChart(kind, reason string) *AppError {
	return New(CodeNoApplicableChart, fmt.Sprintf("no applicable %s chart: %s", kind, reason))
}

func InvalidFilter(column, reason string) *AppError {
	return New(CodeInvalidFilter, fmt.Sprintf("invalid filter on %q: %s", column, reason))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// UserMessage returns the text the presentation layer shows for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch GetCode(err) {
	case CodeParseError:
		return "The file could not be read as a table: " + err.Error()
	case CodeEmptyDataset:
		return "The file has a header but no data rows."
	case CodeUnknownColumn:
		return "A selection refers to a column that is not in the current dataset: " + err.Error()
	case CodeNoApplicableChart:
		return strings.TrimPrefix(err.Error(), "no applicable ")
	default:
		return err.Error()
	}
}
