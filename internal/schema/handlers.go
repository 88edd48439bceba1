package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/validation"
)

type handler interface {
	read(c carousel.Content, f Field) (any, error)
	validate(f Field, value any) error
	write(c carousel.Content, f Field, value any) (carousel.Fields, error)
	empty(value any) bool
	// maxItems is the soft cap for repeatable kinds, zero otherwise.
	maxItems() int
	// blank returns a new item for repeatable kinds.
	blank() any
}

var handlers = map[Kind]handler{
	KindText:     valueHandler[string]{isEmpty: blankString},
	KindTextarea: valueHandler[string]{isEmpty: blankString},
	KindImage:    valueHandler[string]{isEmpty: blankString, check: checkImage},
	KindColor:    valueHandler[string]{isEmpty: blankString, check: checkColor},
	KindSteps: valueHandler[[]carousel.Step]{
		isEmpty: func(v []carousel.Step) bool { return len(v) == 0 },
		cap:     MaxRepeatableItems,
		newItem: func() any { return carousel.Step{Title: "New step", Description: ""} },
	},
	KindTools: valueHandler[[]carousel.Tool]{
		isEmpty: func(v []carousel.Tool) bool { return len(v) == 0 },
		cap:     MaxRepeatableItems,
		newItem: func() any { return carousel.Tool{Name: "New Tool", Icon: "tool"} },
	},
	KindWorkflow: valueHandler[[]carousel.WorkflowStep]{
		isEmpty: func(v []carousel.WorkflowStep) bool { return len(v) == 0 },
		cap:     MaxRepeatableItems,
		newItem: func() any { return carousel.WorkflowStep{Step: "New step"} },
	},
	KindList: valueHandler[[]carousel.Stat]{
		isEmpty: func(v []carousel.Stat) bool { return len(v) == 0 },
		cap:     MaxRepeatableItems,
		newItem: func() any { return carousel.Stat{Label: "Label", Value: "0"} },
	},
	KindIconGrid: valueHandler[[]string]{
		isEmpty: func(v []string) bool { return len(v) == 0 },
		check: func(f Field, v []string) error {
			for i, src := range v {
				if err := checkImage(f, src); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
			}
			return nil
		},
		cap:     MaxRepeatableItems * 2,
		newItem: func() any { return "" },
	},
	KindSectionControls: sectionHandler{},
}

// valueHandler stores a value of type T directly under the field key.
type valueHandler[T any] struct {
	isEmpty func(T) bool
	check   func(Field, T) error
	cap     int
	newItem func() any
}

func (h valueHandler[T]) read(c carousel.Content, f Field) (any, error) {
	var v T
	if _, err := c.Fields.Decode(f.Key, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func (h valueHandler[T]) typed(f Field, value any) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("field %q (%s): unexpected value type %T", f.Key, f.Kind, value)
	}
	return v, nil
}

func (h valueHandler[T]) validate(f Field, value any) error {
	v, err := h.typed(f, value)
	if err != nil {
		return err
	}
	if h.check != nil {
		if err := h.check(f, v); err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	return nil
}

func (h valueHandler[T]) write(_ carousel.Content, f Field, value any) (carousel.Fields, error) {
	v, err := h.typed(f, value)
	if err != nil {
		return nil, err
	}
	patch := carousel.Fields{}
	if err := patch.Set(f.Key, v); err != nil {
		return nil, err
	}
	return patch, nil
}

func (h valueHandler[T]) empty(value any) bool {
	v, ok := value.(T)
	if !ok {
		return true
	}
	return h.isEmpty(v)
}

func (h valueHandler[T]) maxItems() int { return h.cap }

func (h valueHandler[T]) blank() any {
	if h.newItem == nil {
		return nil
	}
	return h.newItem()
}

// sectionHandler edits sectionStyles[key]. The patch carries the whole
// sectionStyles map with only that key replaced, which keeps the top-level
// shallow-merge contract.
type sectionHandler struct{}

func (sectionHandler) read(c carousel.Content, f Field) (any, error) {
	sections, err := rawStyleMap(c, carousel.KeySectionStyles)
	if err != nil {
		return carousel.SectionStyle{}, err
	}
	var style carousel.SectionStyle
	if raw, ok := sections[f.Key]; ok {
		if err := json.Unmarshal(raw, &style); err != nil {
			return carousel.SectionStyle{}, fmt.Errorf("decode section %q: %w", f.Key, err)
		}
	}
	return style, nil
}

func (sectionHandler) validate(f Field, value any) error {
	style, ok := value.(carousel.SectionStyle)
	if !ok {
		return fmt.Errorf("field %q (%s): unexpected value type %T", f.Key, f.Kind, value)
	}
	return style.Validate()
}

func (sectionHandler) write(c carousel.Content, f Field, value any) (carousel.Fields, error) {
	style := value.(carousel.SectionStyle)
	return replaceStyleEntry(c, carousel.KeySectionStyles, f.Key, style)
}

func (sectionHandler) empty(value any) bool {
	style, ok := value.(carousel.SectionStyle)
	return !ok || style == (carousel.SectionStyle{})
}

func (sectionHandler) maxItems() int { return 0 }
func (sectionHandler) blank() any    { return nil }

func rawStyleMap(c carousel.Content, key string) (map[string]json.RawMessage, error) {
	styles := map[string]json.RawMessage{}
	if _, err := c.Fields.Decode(key, &styles); err != nil {
		return nil, err
	}
	if styles == nil {
		styles = map[string]json.RawMessage{}
	}
	return styles, nil
}

func replaceStyleEntry(c carousel.Content, mapKey, entryKey string, style any) (carousel.Fields, error) {
	styles, err := rawStyleMap(c, mapKey)
	if err != nil {
		// An unreadable map is replaced rather than blocking the edit.
		styles = map[string]json.RawMessage{}
	}
	encoded, err := json.Marshal(style)
	if err != nil {
		return nil, err
	}
	styles[entryKey] = encoded
	patch := carousel.Fields{}
	if err := patch.Set(mapKey, styles); err != nil {
		return nil, err
	}
	return patch, nil
}

func blankString(v string) bool {
	return strings.TrimSpace(v) == ""
}

func checkImage(_ Field, src string) error {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}
	for _, prefix := range []string{"data:image/", "http://", "https://", "/", "./", "../", "blob:"} {
		if strings.HasPrefix(src, prefix) {
			return nil
		}
	}
	return fmt.Errorf("image must be a data URI, URL or path")
}

func checkColor(_ Field, value string) error {
	if strings.TrimSpace(value) == "" || validation.IsColor(value) {
		return nil
	}
	return fmt.Errorf("%q is not a colour", value)
}
