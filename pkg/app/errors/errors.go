// Package errors contains the caller-facing error taxonomy shared by every store.
package errors

import (
	"errors"
	"net/http"
)

// Category classifies a ServiceError for callers and the HTTP layer.
type Category int

const (
	// CategoryNoError marks a successful outcome in request tracking.
	CategoryNoError Category = iota
	// CategoryDataError covers invalid input: malformed addresses, amounts, emails or payloads.
	CategoryDataError
	// CategoryUnauthorized means the credential did not match or no session exists.
	CategoryUnauthorized
	// CategoryForbidden means the caller is known but may not perform the action,
	// e.g. sending to a recipient that is not a friend.
	CategoryForbidden
	// CategoryResourceNotFound means a looked-up record does not exist.
	CategoryResourceNotFound
	// CategoryNotSupported means the requested functionality is not offered.
	CategoryNotSupported
	// CategoryDataConflict means the write collides with existing data.
	CategoryDataConflict
	// CategoryDependencyFailure means the chain node, identity provider or storage failed.
	CategoryDependencyFailure
	// CategoryGeneralError means the service failed in an unexpected way.
	CategoryGeneralError
	// CategoryDisabled means the capability is switched off in the current configuration.
	CategoryDisabled
)

type categoryInfo struct {
	name   string
	status int
	// fallback is the logged error text when the caller supplies none
	fallback string
}

var categories = map[Category]categoryInfo{
	CategoryDataError:         {"CategoryDataError", http.StatusBadRequest, "bad request"},
	CategoryUnauthorized:      {"CategoryUnauthorized", http.StatusUnauthorized, "unauthorized"},
	CategoryForbidden:         {"CategoryForbidden", http.StatusForbidden, "request forbidden"},
	CategoryResourceNotFound:  {"CategoryResourceNotFound", http.StatusNotFound, "resource not found"},
	CategoryNotSupported:      {"CategoryNotSupported", http.StatusMethodNotAllowed, "not supported"},
	CategoryDataConflict:      {"CategoryDataConflict", http.StatusConflict, "conflict"},
	CategoryDependencyFailure: {"CategoryDependencyFailure", http.StatusBadGateway, "dependency failure"},
	CategoryGeneralError:      {"CategoryGeneralError", http.StatusInternalServerError, "internal server error"},
	CategoryDisabled:          {"CategoryDisabled", http.StatusNotImplemented, "operation disabled"},
}

func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.name
	}
	return categories[CategoryGeneralError].name
}

// ServiceError represents service specific type that
// is used all over the services.
type ServiceError struct {
	Category Category
	// Message is safe to show to the user; Err is for logs.
	Message string
	Err     error
}

// Error method to comply with error interface
func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is implements the custom condition to check an error is equal to a service error
func (err ServiceError) Is(target error) bool {
	return err.Message == target.Error()
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	if info, ok := categories[err.Category]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError reports whether err should be treated as a server-side fault.
// Plain errors count as internal.
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		return true
	}
	switch svcErr.Category {
	case CategoryDependencyFailure, CategoryGeneralError:
		return true
	default:
		return false
	}
}

func newError(cat Category, err error, message string) error {
	if err == nil {
		err = errors.New(categories[cat].fallback + ": " + message)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error"; err is only logged.
func GeneralError(err error) error {
	if err == nil {
		err = errors.New(categories[CategoryGeneralError].fallback)
	}
	return &ServiceError{Category: CategoryGeneralError, Message: "Internal Server Error", Err: err}
}

// ResourceNotFoundError returns an error with category ResourceNotFound.
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message)
}

// BadRequestError returns an error with category DataError.
// The message is returned to the user, err is logged.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message)
}

// NotSupportedError returns an error with category NotSupported.
func NotSupportedError(err error, message string) error {
	return newError(CategoryNotSupported, err, message)
}

// ForbiddenError returns an error with category Forbidden.
func ForbiddenError(err error, message string) error {
	return newError(CategoryForbidden, err, message)
}

// UnAuthorizedError returns an error with category Unauthorized.
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message)
}

// ConflictError returns an error with category DataConflict.
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, message)
}

// DependencyError returns an error with category DependencyFailure.
// Stores use it for chain, identity provider and storage failures.
func DependencyError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, message)
}

// DisabledOperationError returns an error with category Disabled.
// It is returned before any side effect when a capability is turned off.
func DisabledOperationError(err error, message string) error {
	return newError(CategoryDisabled, err, message)
}
