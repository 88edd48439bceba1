// Package render rasterises a slide from its variant, content and the
// project's global settings. Rendering is a pure function of those inputs:
// no network access, no state kept between calls beyond parsed fonts.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

// Renderer turns one slide into an image.
type Renderer interface {
	Render(v *theme.Variant, c carousel.Content, s carousel.GlobalSettings) (image.Image, error)
}

// darkLayouts render light text on black regardless of the background
// setting.
var darkLayouts = map[string]bool{
	"cover":   true,
	"split":   true,
	"hero":    true,
	"grid":    true,
	"minimal": true,
}

// Raster is the reference Renderer. It lays fields out top to bottom in
// schema order using the bundled Go fonts.
type Raster struct {
	scale float64
	faces *faceCache
}

// Option configures a Raster.
type Option func(*Raster)

// WithPixelRatio renders at ratio times the canvas size.
func WithPixelRatio(ratio float64) Option {
	return func(r *Raster) {
		if ratio > 0 {
			r.scale = ratio
		}
	}
}

// NewRaster returns a raster renderer.
func NewRaster(opts ...Option) (*Raster, error) {
	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	r := &Raster{scale: 1, faces: faces}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Size returns the output size for settings.
func (r *Raster) Size(s carousel.GlobalSettings) image.Point {
	d := s.AspectRatio.Dimensions()
	return image.Pt(int(float64(d.Width)*r.scale), int(float64(d.Height)*r.scale))
}

// Render draws the slide.
func (r *Raster) Render(v *theme.Variant, c carousel.Content, s carousel.GlobalSettings) (image.Image, error) {
	if v == nil {
		return nil, fmt.Errorf("render: variant is nil")
	}
	shape, err := c.Shape()
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	size := r.Size(s)
	bg := colorOr(s.BackgroundColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if darkLayouts[v.Layout] {
		bg = color.RGBA{A: 255}
	}

	cv := &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, size.X, size.Y)),
		faces:  r.faces,
		scale:  r.scale,
		fg:     contrastText(bg),
		brand:  colorOr(s.BrandColor, color.RGBA{R: 220, G: 38, B: 38, A: 255}),
		accent: colorOr(s.AccentColor, color.RGBA{R: 254, G: 215, B: 170, A: 255}),
	}
	cv.fill(cv.img.Bounds(), bg)

	bar := int(12 * r.scale)
	cv.fill(image.Rect(0, 0, size.X, bar), cv.brand)
	cv.fill(image.Rect(0, size.Y-bar, size.X, size.Y), cv.accent)

	margin := 80 * r.scale
	cv.left = margin
	cv.right = float64(size.X) - margin
	cv.y = margin
	cv.bottom = float64(size.Y) - margin - 60*r.scale

	styles, err := c.Styles()
	if err != nil {
		styles = map[string]carousel.ElementStyle{}
	}
	sections, err := c.SectionStyles()
	if err != nil {
		sections = map[string]carousel.SectionStyle{}
	}

	if len(v.Editor.Fields) == 0 {
		if err := cv.text(shape.Headline(), textRole{size: 72, bold: true}, carousel.ElementStyle{}); err != nil {
			return nil, err
		}
	}

	headlineDone := false
	for _, f := range v.Editor.Fields {
		if cv.full() {
			break
		}
		if err := r.drawField(cv, f, c, styles[f.Key], sections, &headlineDone); err != nil {
			return nil, fmt.Errorf("render field %q: %w", f.Key, err)
		}
	}

	if text := caption(shape); text != "" {
		cv.y = float64(size.Y) - margin
		if err := cv.text(text, textRole{size: 22, bold: true, color: &cv.brand}, carousel.ElementStyle{}); err != nil {
			return nil, err
		}
	}

	return cv.img, nil
}

func (r *Raster) drawField(cv *canvas, f schema.Field, c carousel.Content, style carousel.ElementStyle, sections map[string]carousel.SectionStyle, headlineDone *bool) error {
	value, err := schema.Read(c, f)
	if err != nil {
		// Undecodable values are skipped rather than failing the slide.
		return nil
	}

	switch f.Kind {
	case schema.KindText, schema.KindTextarea:
		text, _ := value.(string)
		if strings.TrimSpace(text) == "" {
			return nil
		}
		role := textRole{size: 36}
		if f.Kind == schema.KindTextarea {
			role.size = 30
		}
		if f.Required && !*headlineDone {
			role = textRole{size: 72, bold: true}
			*headlineDone = true
		}
		return cv.text(text, role, style)

	case schema.KindImage:
		src, _ := value.(string)
		if src == "" {
			return nil
		}
		side := lengthOr(style.Height, 160) * cv.scale
		cv.picture(src, side, style.Opacity)
		return nil

	case schema.KindIconGrid:
		srcs, _ := value.([]string)
		section := sections[f.Key]
		cv.iconGrid(srcs, lengthOr(section.ItemSize, 96)*cv.scale, lengthOr(section.ItemGap, 16)*cv.scale)
		return nil

	case schema.KindSteps:
		steps, _ := value.([]carousel.Step)
		for i, step := range steps {
			title := fmt.Sprintf("%d. %s", stepNumber(step, i), step.Title)
			if err := cv.text(title, textRole{size: 36, bold: true}, style); err != nil {
				return err
			}
			if step.Description != "" {
				if err := cv.text(step.Description, textRole{size: 26}, carousel.ElementStyle{}); err != nil {
					return err
				}
			}
			cv.y += 12 * cv.scale
		}
		return nil

	case schema.KindTools:
		tools, _ := value.([]carousel.Tool)
		names := make([]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, tool.Name)
		}
		return cv.pills(names)

	case schema.KindWorkflow:
		steps, _ := value.([]carousel.WorkflowStep)
		for _, step := range steps {
			if err := cv.text("→ "+step.Step, textRole{size: 28}, style); err != nil {
				return err
			}
		}
		return nil

	case schema.KindList:
		stats, _ := value.([]carousel.Stat)
		for _, stat := range stats {
			if err := cv.text(stat.Value+"  "+stat.Label, textRole{size: 40, bold: true, color: &cv.brand}, style); err != nil {
				return err
			}
		}
		return nil

	case schema.KindSectionControls:
		section, _ := value.(carousel.SectionStyle)
		cv.y += lengthOr(section.MarginTop, 0)*cv.scale + lengthOr(section.PaddingTop, 0)*cv.scale
		return nil

	case schema.KindColor:
		return nil

	default:
		return fmt.Errorf("unsupported field kind %q", f.Kind)
	}
}

func stepNumber(step carousel.Step, index int) int {
	if step.Number != nil {
		return *step.Number
	}
	return index + 1
}

// caption is the small footer line of each slide type.
func caption(shape carousel.Shape) string {
	switch s := shape.(type) {
	case carousel.IntroContent:
		return firstNonEmpty(s.BadgeText, s.PillText, s.Tagline)
	case carousel.ContentSlideContent:
		return firstNonEmpty(s.FooterNote, s.FooterCTA, s.CategoryBadge)
	case carousel.CTAContent:
		return firstNonEmpty(s.Handle, s.CtaButtonText, s.SecondaryCTA)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
