package errors

import (
	"fmt"
)

// ParseError represents a JSON or YAML decoding failure with optional location metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures invalid values supplied to the content model or configuration.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ImportError reports why a project document was rejected. Index is the
// offending slide position, or -1 when the failure is at project level.
type ImportError struct {
	Index   int
	Message string
	Err     error
}

// NewImportError constructs a project-level ImportError.
func NewImportError(message string, err error) error {
	return &ImportError{Index: -1, Message: message, Err: err}
}

// NewSlideImportError constructs an ImportError for the slide at index.
func NewSlideImportError(index int, message string, err error) error {
	return &ImportError{Index: index, Message: message, Err: err}
}

func (e *ImportError) Error() string {
	if e == nil {
		return ""
	}
	if e.Index >= 0 {
		return fmt.Sprintf("import error: slide %d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("import error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ImportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ThemeError indicates a theme that cannot be registered.
type ThemeError struct {
	Theme   string
	Message string
	Err     error
}

// NewThemeError constructs a ThemeError for the given theme id.
func NewThemeError(theme, message string, err error) error {
	return &ThemeError{Theme: theme, Message: message, Err: err}
}

func (e *ThemeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Theme != "" {
		return fmt.Sprintf("theme error [%s]: %s", e.Theme, e.Message)
	}
	return fmt.Sprintf("theme error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ThemeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RenderError represents a rasterisation failure for a slide.
type RenderError struct {
	SlideID string
	Err     error
}

// NewRenderError constructs a RenderError.
func NewRenderError(slideID string, err error) error {
	return &RenderError{SlideID: slideID, Err: err}
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	if e.SlideID != "" {
		return fmt.Sprintf("render error on slide %s: %v", e.SlideID, e.Err)
	}
	return fmt.Sprintf("render error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
