// Package theme holds visual themes, their per-slide-type layout variants
// and the registry that resolves theme ids with a fixed fallback.
package theme

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
	"github.com/BillMorio/LinkedIn-Carousel/internal/validation"
)

// Colors are the theme's suggested palette.
type Colors struct {
	Primary    string `json:"primary" yaml:"primary" validate:"required,css_color"`
	Accent     string `json:"accent" yaml:"accent" validate:"required,css_color"`
	Background string `json:"background" yaml:"background" validate:"required,css_color"`
}

// EditorConfig declares the editable fields of a variant and the content a
// new slide starts with.
type EditorConfig struct {
	Fields         []schema.Field   `json:"fields" yaml:"fields"`
	Sections       []schema.Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	DefaultContent carousel.Fields  `json:"defaultContent" yaml:"-"`
}

// UnmarshalYAML decodes defaultContent as free-form YAML and stores it as
// JSON fields.
func (e *EditorConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Fields         []schema.Field   `yaml:"fields"`
		Sections       []schema.Section `yaml:"sections"`
		DefaultContent map[string]any   `yaml:"defaultContent"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	defaults, err := carousel.FieldsFrom(raw.DefaultContent)
	if err != nil {
		return fmt.Errorf("line %d: defaultContent: %w", node.Line, err)
	}

	e.Fields = raw.Fields
	e.Sections = raw.Sections
	e.DefaultContent = defaults
	return nil
}

// Variant is one layout of a slide type within a theme.
type Variant struct {
	ID          string       `json:"id" yaml:"id" validate:"required,slug"`
	Name        string       `json:"name" yaml:"name" validate:"required"`
	Purpose     string       `json:"purpose" yaml:"purpose"`
	BestUsedFor string       `json:"bestUsedFor" yaml:"bestUsedFor"`
	Layout      string       `json:"layout" yaml:"layout"` // renderer arrangement hint, e.g. "steps"
	Editor      EditorConfig `json:"editorConfig" yaml:"editorConfig"`
}

// Field returns the field declaration for key.
func (v *Variant) Field(key string) (schema.Field, bool) {
	for _, f := range v.Editor.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return schema.Field{}, false
}

// Defaults returns fresh content of type t seeded from the default content.
func (v *Variant) Defaults(t carousel.SlideType) carousel.Content {
	return carousel.NewContent(t, v.Editor.DefaultContent)
}

// AIContext returns the advisory context mirrored onto slides using v.
func (v *Variant) AIContext() *carousel.AIContext {
	return &carousel.AIContext{Purpose: v.Purpose, BestUsedFor: v.BestUsedFor}
}

// Theme groups variants for every slide type under one visual identity.
// Themes are read-only once registered.
type Theme struct {
	ID            string                            `json:"id" yaml:"id" validate:"required,slug"`
	Name          string                            `json:"name" yaml:"name" validate:"required"`
	Description   string                            `json:"description" yaml:"description"`
	Preview       string                            `json:"preview" yaml:"preview"`
	Thumbnail     string                            `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	DefaultColors Colors                            `json:"defaultColors" yaml:"defaultColors"`
	Variants      map[carousel.SlideType][]*Variant `json:"variants" yaml:"variants"`
}

// Variant returns the variant with id for slide type t.
func (t *Theme) Variant(st carousel.SlideType, id string) (*Variant, bool) {
	for _, v := range t.Variants[st] {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// FirstVariant returns the default variant of st, or nil when the type has
// none.
func (t *Theme) FirstVariant(st carousel.SlideType) *Variant {
	variants := t.Variants[st]
	if len(variants) == 0 {
		return nil
	}
	return variants[0]
}

// ResolveVariant returns the variant with id, falling back to the first
// variant of st when id is empty or unknown. It returns nil only for slide
// types the theme does not cover.
func (t *Theme) ResolveVariant(st carousel.SlideType, id string) *Variant {
	if id != "" {
		if v, ok := t.Variant(st, id); ok {
			return v
		}
	}
	return t.FirstVariant(st)
}

// VariantCount returns the total number of variants across slide types.
func (t *Theme) VariantCount() int {
	n := 0
	for _, variants := range t.Variants {
		n += len(variants)
	}
	return n
}

// Validate checks the theme declaration: identity, palette, at least one
// variant per slide type, unique variant ids and field keys, known field
// kinds and default content that does not claim another slide type.
func (t *Theme) Validate() error {
	if err := validation.Struct(t); err != nil {
		return err
	}

	for st := range t.Variants {
		if !st.Valid() {
			return fmt.Errorf("unknown slide type %q", st)
		}
	}

	for _, st := range carousel.SlideTypes() {
		variants := t.Variants[st]
		if len(variants) == 0 {
			return fmt.Errorf("no variants for slide type %s", st)
		}

		seen := make(map[string]struct{}, len(variants))
		for _, v := range variants {
			if v == nil {
				return fmt.Errorf("%s: nil variant", st)
			}
			if err := validation.Struct(v); err != nil {
				return fmt.Errorf("%s variant %q: %w", st, v.ID, err)
			}
			if _, dup := seen[v.ID]; dup {
				return fmt.Errorf("%s: duplicate variant id %q", st, v.ID)
			}
			seen[v.ID] = struct{}{}

			if err := v.validateEditor(st); err != nil {
				return fmt.Errorf("%s variant %q: %w", st, v.ID, err)
			}
		}
	}

	return nil
}

func (v *Variant) validateEditor(st carousel.SlideType) error {
	keys := make(map[string]struct{}, len(v.Editor.Fields))
	for _, f := range v.Editor.Fields {
		if err := schema.ValidateField(f); err != nil {
			return err
		}
		if _, dup := keys[f.Key]; dup {
			return fmt.Errorf("duplicate field key %q", f.Key)
		}
		keys[f.Key] = struct{}{}
	}

	for _, s := range v.Editor.Sections {
		if err := validation.Struct(s); err != nil {
			return fmt.Errorf("section %q: %w", s.ID, err)
		}
	}

	if v.Editor.DefaultContent.Has(carousel.KeyType) {
		var declared carousel.SlideType
		if _, err := v.Editor.DefaultContent.Decode(carousel.KeyType, &declared); err != nil || declared != st {
			return fmt.Errorf("default content type %s does not match %s", v.Editor.DefaultContent[carousel.KeyType], st)
		}
	}

	return nil
}
