// Package store holds the carousel project being edited and is the only
// place that mutates it. Every operation is atomic; getters return copies.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/projectio"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

// DefaultProjectID identifies the starter project.
const DefaultProjectID = "default-project"

// Store owns the project and the active slide cursor.
type Store struct {
	mu       sync.RWMutex
	registry *theme.Registry
	adapter  *projectio.Adapter
	log      *logger.Logger
	newID    func() string

	project       *carousel.Project
	activeSlideID string
}

// Option configures a Store.
type Option func(*Store)

// WithProject starts the store from p instead of the starter deck. The
// project is copied.
func WithProject(p *carousel.Project) Option {
	return func(s *Store) {
		if p != nil {
			s.project = p.Clone()
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithIDGenerator replaces uuid generation for new slides and imports.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New returns a store resolving themes through reg.
func New(reg *theme.Registry, opts ...Option) *Store {
	s := &Store{
		registry: reg,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.WithComponent("store")
	s.adapter = projectio.New(reg, projectio.WithLogger(s.log), projectio.WithIDGenerator(s.newID))

	if s.project == nil {
		s.project = s.starterProject()
	}
	return s
}

func (s *Store) starterProject() *carousel.Project {
	p := carousel.NewProject(DefaultProjectID, carousel.DefaultProjectName, s.registry.Fallback().ID)
	seeds := []struct {
		typ       carousel.SlideType
		overrides map[string]any
	}{
		{carousel.TypeIntro, map[string]any{"headline": "How to Build a Carousel Builder"}},
		{carousel.TypeContent, map[string]any{"title": "Step 1: Set up the Store"}},
		{carousel.TypeCTA, map[string]any{"ctaText": "Follow for more dev tips!"}},
	}
	th := s.registry.Get(p.ThemeID)
	for _, seed := range seeds {
		slide := s.newSlide(th, seed.typ, carousel.MustFields(seed.overrides), len(p.Slides))
		p.Slides = append(p.Slides, slide)
	}
	return p
}

func (s *Store) newSlide(th *theme.Theme, t carousel.SlideType, overrides carousel.Fields, order int) carousel.Slide {
	v := th.FirstVariant(t)
	return carousel.Slide{
		ID:        s.newID(),
		Type:      t,
		Order:     order,
		VariantID: v.ID,
		Content:   v.Defaults(t).Patch(overrides),
		AIContext: v.AIContext(),
	}
}

// Registry returns the theme registry the store resolves against.
func (s *Store) Registry() *theme.Registry {
	return s.registry
}

// Project returns a copy of the current project.
func (s *Store) Project() *carousel.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.Clone()
}

// ActiveSlideID returns the active slide id, or "" when none is active.
func (s *Store) ActiveSlideID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeSlideID
}

// ActiveSlide returns a copy of the active slide.
func (s *Store) ActiveSlide() (carousel.Slide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slideLocked(s.activeSlideID)
}

// Slide returns a copy of the slide with id.
func (s *Store) Slide(id string) (carousel.Slide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slideLocked(id)
}

func (s *Store) slideLocked(id string) (carousel.Slide, bool) {
	if id == "" {
		return carousel.Slide{}, false
	}
	idx := s.project.IndexOf(id)
	if idx < 0 {
		return carousel.Slide{}, false
	}
	return s.project.Slides[idx].Clone(), true
}

// Theme returns the active theme, resolved with fallback.
func (s *Store) Theme() *theme.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Get(s.project.ThemeID)
}

// SetTheme replaces the project's theme id. Slides are left untouched;
// variants the new theme lacks resolve to its first variant when rendered.
func (s *Store) SetTheme(themeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.project.ThemeID = themeID
	s.log.WithTheme(themeID).Debug("theme changed")
}

// SetActiveSlide moves the cursor. Unknown ids are ignored.
func (s *Store) SetActiveSlide(slideID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.project.IndexOf(slideID) < 0 {
		return false
	}
	s.activeSlideID = slideID
	return true
}

// UpdateGlobalSettings shallow-merges patch into the settings. Invalid
// results are rejected with a validation error and change nothing.
func (s *Store) UpdateGlobalSettings(patch carousel.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.project.GlobalSettings)
	if err := next.Validate(); err != nil {
		return err
	}
	s.project.GlobalSettings = next
	return nil
}

// SetAspectRatio switches the canvas proportions.
func (s *Store) SetAspectRatio(ratio carousel.AspectRatio) error {
	return s.UpdateGlobalSettings(carousel.SettingsPatch{AspectRatio: &ratio})
}

// AddSlide appends a slide of type t seeded from the active theme's first
// variant, overlaid by overrides, and makes it active.
func (s *Store) AddSlide(t carousel.SlideType, overrides carousel.Fields) (carousel.Slide, error) {
	if !t.Valid() {
		return carousel.Slide{}, fmt.Errorf("unknown slide type %q", t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	th := s.registry.Get(s.project.ThemeID)
	slide := s.newSlide(th, t, overrides, len(s.project.Slides))
	s.project.Slides = append(s.project.Slides, slide)
	s.activeSlideID = slide.ID

	s.log.WithSlide(slide.ID).WithFields(map[string]any{"type": string(t), "variant": slide.VariantID}).Debug("slide added")
	return slide.Clone(), nil
}

// UpdateSlideContent shallow-merges patch into the slide's content. The
// slide type, order and variant never change. It reports whether the slide
// exists.
func (s *Store) UpdateSlideContent(slideID string, patch carousel.Fields) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.project.IndexOf(slideID)
	if idx < 0 {
		return false
	}
	if len(patch.Without(carousel.KeyType)) == 0 {
		return true
	}

	slide := &s.project.Slides[idx]
	slide.Content = slide.Content.Patch(patch)
	slide.Content.Type = slide.Type
	return true
}

// SetSlideVariant switches the slide to variantID of the active theme. The
// new variant's defaults fill gaps in the content but never overwrite
// values already set. Unknown slides or variants leave state unchanged.
func (s *Store) SetSlideVariant(slideID, variantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.project.IndexOf(slideID)
	if idx < 0 {
		return false
	}
	slide := &s.project.Slides[idx]

	v, ok := s.registry.Get(s.project.ThemeID).Variant(slide.Type, variantID)
	if !ok {
		return false
	}

	slide.VariantID = v.ID
	slide.Content = slide.Content.WithDefaults(v.Editor.DefaultContent)
	slide.Content.Type = slide.Type

	ctx := slide.AIContext.Clone()
	if ctx == nil {
		ctx = &carousel.AIContext{}
	}
	ctx.Purpose = v.Purpose
	ctx.BestUsedFor = v.BestUsedFor
	slide.AIContext = ctx

	s.log.WithSlide(slideID).WithFields(map[string]any{"variant": v.ID}).Debug("variant changed")
	return true
}

// RemoveSlide deletes a slide and reindexes the rest. When the removed slide
// was active the new first slide becomes active, or none.
func (s *Store) RemoveSlide(slideID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.project.IndexOf(slideID)
	if idx < 0 {
		return false
	}

	s.project.Slides = append(s.project.Slides[:idx], s.project.Slides[idx+1:]...)
	s.project.Reindex()

	if s.activeSlideID == slideID {
		s.activeSlideID = ""
		if len(s.project.Slides) > 0 {
			s.activeSlideID = s.project.Slides[0].ID
		}
	}
	return true
}

// ReorderSlides moves the slide at from to position to and reindexes.
// Indices outside the slide list are rejected.
func (s *Store) ReorderSlides(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.project.Slides)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}

	moved := s.project.Slides[from]
	rest := append(s.project.Slides[:from:from], s.project.Slides[from+1:]...)
	slides := make([]carousel.Slide, 0, n)
	slides = append(slides, rest[:to]...)
	slides = append(slides, moved)
	slides = append(slides, rest[to:]...)

	s.project.Slides = slides
	s.project.Reindex()
	return true
}

// UpdateProjectName replaces the project name.
func (s *Store) UpdateProjectName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project.Name = name
}

// ImportProject replaces the whole project with the decoded document and
// activates its first slide. On failure the store is unchanged.
func (s *Store) ImportProject(data []byte) error {
	p, err := s.adapter.Decode(data)
	if err != nil {
		s.log.Error(err, "import rejected")
		return err
	}
	s.Reset(p)
	s.log.WithProject(p.ID).WithFields(map[string]any{"slides": len(p.Slides)}).Info("project imported")
	return nil
}

// ExportProject encodes the project with computed canvas dimensions. The
// live project is not modified.
func (s *Store) ExportProject() ([]byte, error) {
	return s.adapter.Encode(s.Project())
}

// Reset replaces the project with a copy of p and activates its first slide.
func (s *Store) Reset(p *carousel.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.project = p.Clone()
	s.activeSlideID = ""
	if len(s.project.Slides) > 0 {
		s.activeSlideID = s.project.Slides[0].ID
	}
}

// RenderTarget is everything a renderer needs for one slide.
type RenderTarget struct {
	Slide    carousel.Slide
	Theme    *theme.Theme
	Variant  *theme.Variant
	Settings carousel.GlobalSettings
}

// RenderTarget snapshots the slide with id, its resolved variant and the
// global settings.
func (s *Store) RenderTarget(slideID string) (RenderTarget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slide, ok := s.slideLocked(slideID)
	if !ok {
		return RenderTarget{}, false
	}
	th := s.registry.Get(s.project.ThemeID)
	return RenderTarget{
		Slide:    slide,
		Theme:    th,
		Variant:  th.ResolveVariant(slide.Type, slide.VariantID),
		Settings: s.project.GlobalSettings.Clone(),
	}, true
}
