package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeImageLoad when an image is missing, unreadable or mis-sized
	ErrorTypeImageLoad ErrorType = "image_load"
	// ErrorTypeNoContours when the processed mask yields no contour
	ErrorTypeNoContours ErrorType = "no_contours"
	// ErrorTypeInvalidContour when the dominant contour is degenerate
	ErrorTypeInvalidContour ErrorType = "invalid_contour"
	// ErrorTypeBackground when the shared background cannot be prepared
	ErrorTypeBackground ErrorType = "background"
	// ErrorTypeConfig when startup configuration is rejected
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Image   string    `json:"image,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	subject := string(e.Type)
	if e.Image != "" {
		subject = fmt.Sprintf("%s [%s]", e.Type, e.Image)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", subject, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", subject, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithImage returns a copy of the error bound to the given image identifier.
func (e *AppError) WithImage(image string) *AppError {
	cp := *e
	cp.Image = image
	return &cp
}

// NewImageLoadError creates a new image load error
func NewImageLoadError(image, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeImageLoad, Message: message, Image: image, Cause: cause}
}

// NewNoContoursError creates a new no-contours error
func NewNoContoursError(image string) *AppError {
	return &AppError{Type: ErrorTypeNoContours, Message: "no contours found", Image: image}
}

// NewInvalidContourError creates a new invalid contour error
func NewInvalidContourError(message string) *AppError {
	return &AppError{Type: ErrorTypeInvalidContour, Message: message}
}

// NewBackgroundError creates a new background error
func NewBackgroundError(image, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeBackground, Message: message, Image: image, Cause: cause}
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Cause: cause}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Cause: cause}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	return TypeOf(err) == errorType
}

// TypeOf extracts the error category, defaulting to internal for foreign errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsFatal reports whether the error must abort the whole batch.
func IsFatal(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeBackground, ErrorTypeConfig:
		return true
	default:
		return false
	}
}
