// Package projectio converts carousel projects to and from their persisted
// JSON form, re-merging imported slides against the theme registry.
package projectio

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

// Adapter decodes and encodes project documents.
type Adapter struct {
	registry *theme.Registry
	log      *logger.Logger
	newID    func() string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for import warnings.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithIDGenerator replaces uuid generation for missing ids.
func WithIDGenerator(fn func() string) Option {
	return func(a *Adapter) { a.newID = fn }
}

// New returns an adapter resolving themes through reg.
func New(reg *theme.Registry, opts ...Option) *Adapter {
	a := &Adapter{
		registry: reg,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	a.log = a.log.WithComponent("projectio")
	return a
}

// Decode validates data and rebuilds a complete project from it. Every
// failure, including a panic while rebuilding, is returned as an
// *errors.ImportError and no partial project is produced.
func (a *Adapter) Decode(data []byte) (project *carousel.Project, err error) {
	defer func() {
		if r := recover(); r != nil {
			project = nil
			err = carouselerrors.NewImportError(fmt.Sprintf("unexpected failure: %v", r), nil)
		}
	}()

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, carouselerrors.NewImportError("project must be a JSON object", err)
	}

	themeID, ok := stringField(doc, "themeId")
	if !ok || themeID == "" {
		return nil, carouselerrors.NewImportError("missing or invalid themeId", nil)
	}

	var rawSlides []json.RawMessage
	if raw, present := doc["slides"]; !present || json.Unmarshal(raw, &rawSlides) != nil || rawSlides == nil {
		return nil, carouselerrors.NewImportError("missing or invalid slides", nil)
	}

	th := a.registry.Get(themeID)
	if th.ID != themeID {
		a.log.WithFields(map[string]any{"requested": themeID, "using": th.ID}).Warn("unknown theme id, using fallback theme")
	}

	project = carousel.NewProject("", "", th.ID)

	if id, ok := stringField(doc, "id"); ok && id != "" {
		project.ID = id
	} else {
		project.ID = a.newID()
	}
	if name, ok := stringField(doc, "name"); ok && name != "" {
		project.Name = name
	}

	if raw, present := doc["globalSettings"]; present && !isNull(raw) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, carouselerrors.NewImportError("globalSettings must be an object", err)
		}
		settings, rejected := project.GlobalSettings.Overlay(obj)
		if len(rejected) > 0 {
			a.log.WithFields(map[string]any{"keys": rejected}).Warn("invalid globalSettings values, using defaults")
		}
		project.GlobalSettings = settings
	}

	project.Slides = make([]carousel.Slide, 0, len(rawSlides))
	seen := make(map[string]bool, len(rawSlides))
	for i, raw := range rawSlides {
		slide, err := a.decodeSlide(th, i, raw)
		if err != nil {
			return nil, err
		}
		if seen[slide.ID] {
			fresh := a.newID()
			a.log.WithSlide(slide.ID).WithFields(map[string]any{"index": i, "replacement": fresh}).Warn("duplicate slide id, assigning a new one")
			slide.ID = fresh
		}
		seen[slide.ID] = true
		project.Slides = append(project.Slides, slide)
	}

	return project, nil
}

func (a *Adapter) decodeSlide(th *theme.Theme, index int, raw json.RawMessage) (carousel.Slide, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return carousel.Slide{}, carouselerrors.NewSlideImportError(index, "slide must be an object", err)
	}

	typeName, _ := stringField(obj, "type")
	slideType := carousel.SlideType(typeName)
	variantID, _ := stringField(obj, "variantId")
	variant := th.ResolveVariant(slideType, variantID)
	if !slideType.Valid() || variant == nil {
		return carousel.Slide{}, carouselerrors.NewSlideImportError(index, fmt.Sprintf("unknown slide type %q", typeName), nil)
	}

	imported := carousel.Content{Type: slideType, Fields: carousel.Fields{}}
	if rawContent, present := obj["content"]; present && !isNull(rawContent) {
		if err := json.Unmarshal(rawContent, &imported); err != nil {
			return carousel.Slide{}, carouselerrors.NewSlideImportError(index, "content must be an object", err)
		}
	}

	content := carousel.NewContent(slideType, imported.Fields).WithDefaults(variant.Editor.DefaultContent)
	for _, key := range []string{carousel.KeyStyles, carousel.KeySectionStyles} {
		defaults, hasDefaults := variant.Editor.DefaultContent[key]
		own, hasOwn := imported.Fields[key]
		if !hasDefaults || !hasOwn {
			continue
		}
		merged, replaced := carousel.MergeStyleMaps(defaults, own)
		if replaced {
			a.log.WithFields(map[string]any{"index": index, "key": key}).Warn("style map is not an object, using variant defaults")
		}
		content.Fields[key] = merged
	}

	slide := carousel.Slide{
		Type:      slideType,
		Order:     index,
		VariantID: variant.ID,
		Content:   content,
	}

	if id, ok := stringField(obj, "id"); ok && id != "" {
		slide.ID = id
	} else {
		slide.ID = a.newID()
	}

	if rawCtx, present := obj["aiContext"]; present && !isNull(rawCtx) {
		var ctx carousel.AIContext
		if err := json.Unmarshal(rawCtx, &ctx); err == nil {
			slide.AIContext = &ctx
		}
	}
	if slide.AIContext == nil {
		slide.AIContext = variant.AIContext()
	}

	return slide, nil
}

// Encode returns the project as indented JSON. Canvas dimensions derived from
// the aspect ratio are stamped onto a copy: globalSettings.dimensions and
// every slide's aiContext.recommendedDimensions.
func (a *Adapter) Encode(p *carousel.Project) ([]byte, error) {
	return Encode(p)
}

// Encode is the registry-independent half of the adapter.
func Encode(p *carousel.Project) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("project is nil")
	}

	out := p.Clone()
	dims := out.Dimensions()
	out.GlobalSettings.Dimensions = &carousel.Dimensions{Width: dims.Width, Height: dims.Height}
	for i := range out.Slides {
		if out.Slides[i].AIContext == nil {
			out.Slides[i].AIContext = &carousel.AIContext{}
		}
		out.Slides[i].AIContext.RecommendedDimensions = &carousel.Dimensions{Width: dims.Width, Height: dims.Height}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return buf.Bytes(), nil
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
