package projectio

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases name and joins its alphanumeric runs with dashes.
func Slug(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// FileName returns the suggested export file name for p.
func FileName(p *carousel.Project) string {
	base := ""
	if p != nil {
		base = Slug(p.Name)
	}
	if base == "" {
		base = "carousel"
	}
	return base + ".json"
}

// ReadFile reads a project document from path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, carouselerrors.NewParseError(path, 0, err)
	}
	return data, nil
}

// WriteFile writes data to path atomically through a temporary sibling file.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Load reads and decodes the project at path.
func (a *Adapter) Load(path string) (*carousel.Project, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.Decode(data)
}

// Save encodes p and writes it to path atomically.
func (a *Adapter) Save(path string, p *carousel.Project) error {
	data, err := a.Encode(p)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}
