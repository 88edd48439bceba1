// Package schema describes the editable fields of a slide variant and reads,
// validates and writes their values against slide content.
//
// A Field is plain data. Behaviour lives in one handler per Kind, looked up
// from a dispatch table, so editors (terminal, HTTP, browser) share the same
// read/validate/write contract.
package schema

import (
	"fmt"
	"sort"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/validation"
)

// Kind is the editor widget kind of a field.
type Kind string

const (
	KindText            Kind = "text"
	KindTextarea        Kind = "textarea"
	KindImage           Kind = "image"
	KindSteps           Kind = "steps"
	KindIconGrid        Kind = "icon-grid"
	KindSectionControls Kind = "section-controls"
	KindList            Kind = "list"
	KindTools           Kind = "tools"
	KindWorkflow        Kind = "workflow"
	KindColor           Kind = "color"
)

// MaxRepeatableItems is the soft cap the editor enforces when adding items
// to steps, tools and similar repeatable fields.
const MaxRepeatableItems = 6

// Field declares one editable content field.
type Field struct {
	Key              string `json:"key" yaml:"key" validate:"required"`
	Kind             Kind   `json:"type" yaml:"type" validate:"required"`
	Label            string `json:"label" yaml:"label" validate:"required"`
	Placeholder      string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required         bool   `json:"required,omitempty" yaml:"required,omitempty"`
	HelpText         string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	HasStyleControls bool   `json:"hasStyleControls,omitempty" yaml:"hasStyleControls,omitempty"`
}

// Section names a styleable region of a slide.
type Section struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Label string `json:"label" yaml:"label" validate:"required"`
}

// Issue is a schema problem found in slide content.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Kinds returns every recognised kind, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(handlers))
	for k := range handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// KnownKind reports whether k has a handler.
func KnownKind(k Kind) bool {
	_, ok := handlers[k]
	return ok
}

// Repeatable reports whether the kind holds a list of items.
func Repeatable(k Kind) bool {
	h, ok := handlers[k]
	return ok && h.maxItems() > 0
}

// ValidateField checks a field declaration.
func ValidateField(f Field) error {
	if err := validation.Struct(f); err != nil {
		return err
	}
	if !KnownKind(f.Kind) {
		return fmt.Errorf("field %q: unknown kind %q", f.Key, f.Kind)
	}
	if f.Kind == KindSectionControls && f.HasStyleControls {
		return fmt.Errorf("field %q: section controls cannot carry element style controls", f.Key)
	}
	return nil
}

// Read returns the current value of f in c, typed per kind: string for
// text-like kinds, []carousel.Step, []carousel.Tool, []carousel.WorkflowStep,
// []carousel.Stat, []string for icon grids and carousel.SectionStyle for
// section controls. Absent values read as the zero value.
func Read(c carousel.Content, f Field) (any, error) {
	h, err := handlerFor(f)
	if err != nil {
		return nil, err
	}
	return h.read(c, f)
}

// Validate checks a value for f without touching content.
func Validate(f Field, value any) error {
	h, err := handlerFor(f)
	if err != nil {
		return err
	}
	return h.validate(f, value)
}

// Write validates value and returns the shallow content patch that stores
// it. Apply the patch with the store's content update.
func Write(c carousel.Content, f Field, value any) (carousel.Fields, error) {
	h, err := handlerFor(f)
	if err != nil {
		return nil, err
	}
	if err := h.validate(f, value); err != nil {
		return nil, err
	}
	return h.write(c, f, value)
}

// Check reports required fields left empty and values that do not decode.
func Check(fields []Field, c carousel.Content) []Issue {
	var issues []Issue
	for _, f := range fields {
		h, err := handlerFor(f)
		if err != nil {
			issues = append(issues, Issue{Field: f.Key, Message: err.Error()})
			continue
		}
		value, err := h.read(c, f)
		if err != nil {
			issues = append(issues, Issue{Field: f.Key, Message: err.Error()})
			continue
		}
		if f.Required && h.empty(value) {
			issues = append(issues, Issue{Field: f.Key, Message: fmt.Sprintf("%s is required", f.Label)})
			continue
		}
		if err := h.validate(f, value); err != nil {
			issues = append(issues, Issue{Field: f.Key, Message: err.Error()})
		}
	}
	return issues
}

func handlerFor(f Field) (handler, error) {
	h, ok := handlers[f.Kind]
	if !ok {
		return nil, fmt.Errorf("field %q: unknown kind %q", f.Key, f.Kind)
	}
	return h, nil
}
