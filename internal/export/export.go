// Package export rasterises every slide of a project, one at a time, and
// writes the results as PNG files or a single ZIP bundle.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/projectio"
	"github.com/BillMorio/LinkedIn-Carousel/internal/render"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

// Source is the slice of the project store the exporter drives.
type Source interface {
	Project() *carousel.Project
	ActiveSlideID() string
	SetActiveSlide(slideID string) bool
	RenderTarget(slideID string) (store.RenderTarget, bool)
}

// Page is one rendered slide.
type Page struct {
	SlideID string
	Name    string
	PNG     []byte
}

// Exporter renders slides through a Renderer.
type Exporter struct {
	renderer render.Renderer
	log      *logger.Logger
}

// New returns an exporter. A nil log discards output.
func New(r render.Renderer, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{renderer: r, log: log.WithComponent("export")}
}

// PageName is the file name of the n-th (1-based) slide image.
func PageName(p *carousel.Project, n int) string {
	return fmt.Sprintf("%s-slide-%d.png", baseName(p), n)
}

// BundleName is the file name of the ZIP bundle.
func BundleName(p *carousel.Project) string {
	return baseName(p) + "-bundle.zip"
}

func baseName(p *carousel.Project) string {
	name := ""
	if p != nil {
		name = projectio.Slug(p.Name)
	}
	if name == "" {
		return "carousel"
	}
	return name
}

// Slide renders a single slide to PNG bytes.
func (e *Exporter) Slide(src Source, slideID string) ([]byte, error) {
	target, ok := src.RenderTarget(slideID)
	if !ok {
		return nil, carouselerrors.NewRenderError(slideID, fmt.Errorf("slide not found"))
	}
	return e.encode(target)
}

func (e *Exporter) encode(target store.RenderTarget) ([]byte, error) {
	if target.Variant == nil {
		return nil, carouselerrors.NewRenderError(target.Slide.ID, fmt.Errorf("no variant for %s slides", target.Slide.Type))
	}
	img, err := e.renderer.Render(target.Variant, target.Slide.Content, target.Settings)
	if err != nil {
		return nil, carouselerrors.NewRenderError(target.Slide.ID, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, carouselerrors.NewRenderError(target.Slide.ID, err)
	}
	return buf.Bytes(), nil
}

// All renders every slide in deck order. Each slide is made active before
// it is rendered; the previously active slide is restored afterwards, even
// on failure. The first failing slide aborts the batch.
func (e *Exporter) All(ctx context.Context, src Source) ([]Page, error) {
	original := src.ActiveSlideID()
	defer func() {
		if original != "" {
			src.SetActiveSlide(original)
		}
	}()

	project := src.Project()
	pages := make([]Page, 0, len(project.Slides))
	for i, slide := range project.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src.SetActiveSlide(slide.ID)
		target, ok := src.RenderTarget(slide.ID)
		if !ok {
			return nil, carouselerrors.NewRenderError(slide.ID, fmt.Errorf("slide disappeared during export"))
		}
		data, err := e.encode(target)
		if err != nil {
			e.log.WithSlide(slide.ID).Error(err, "slide export failed")
			return nil, err
		}

		pages = append(pages, Page{SlideID: slide.ID, Name: PageName(project, i+1), PNG: data})
		e.log.WithSlide(slide.ID).WithFields(map[string]any{"position": i + 1}).Debug("slide rendered")
	}

	e.log.WithFields(map[string]any{"slides": len(pages)}).Info("export complete")
	return pages, nil
}

// WriteFiles renders all slides into dir as separate PNG files and returns
// their paths.
func (e *Exporter) WriteFiles(ctx context.Context, src Source, dir string) ([]string, error) {
	pages, err := e.All(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	paths := make([]string, 0, len(pages))
	for _, page := range pages {
		path := filepath.Join(dir, page.Name)
		if err := projectio.WriteFile(path, page.PNG); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Bundle renders all slides into a ZIP archive.
func (e *Exporter) Bundle(ctx context.Context, src Source) ([]byte, error) {
	pages, err := e.All(ctx, src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, page := range pages {
		w, err := zw.Create(page.Name)
		if err != nil {
			return nil, fmt.Errorf("add %s to bundle: %w", page.Name, err)
		}
		if _, err := w.Write(page.PNG); err != nil {
			return nil, fmt.Errorf("add %s to bundle: %w", page.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteBundle writes the ZIP bundle into dir and returns its path.
func (e *Exporter) WriteBundle(ctx context.Context, src Source, dir string) (string, error) {
	data, err := e.Bundle(ctx, src)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, BundleName(src.Project()))
	if err := projectio.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}
