// Package carousel defines the project document edited by the carousel
// builder: slide types, tagged slide content, style overrides, slides,
// projects and their global rendering settings.
package carousel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BillMorio/LinkedIn-Carousel/internal/validation"
)

// SlideType discriminates the three slide archetypes.
type SlideType string

const (
	TypeIntro   SlideType = "INTRO"
	TypeContent SlideType = "CONTENT"
	TypeCTA     SlideType = "CTA"
)

// SlideTypes lists every slide type in canonical deck order.
func SlideTypes() []SlideType {
	return []SlideType{TypeIntro, TypeContent, TypeCTA}
}

// Valid reports whether t is one of the known slide types.
func (t SlideType) Valid() bool {
	switch t {
	case TypeIntro, TypeContent, TypeCTA:
		return true
	default:
		return false
	}
}

// ParseSlideType accepts case-insensitive names such as "intro" or "cta".
func ParseSlideType(raw string) (SlideType, error) {
	t := SlideType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown slide type %q", raw)
	}
	return t, nil
}

// AspectRatio selects the canvas proportions.
type AspectRatio string

const (
	AspectSquare   AspectRatio = "square"
	AspectPortrait AspectRatio = "portrait"
)

// Canvas widths and heights in pixels.
const (
	CanvasWidth          = 1080
	CanvasHeightSquare   = 1080
	CanvasHeightPortrait = 1350
)

// Dimensions is a pixel width/height pair.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Dimensions returns the canvas size for the ratio. Anything other than
// portrait renders square.
func (r AspectRatio) Dimensions() Dimensions {
	if r == AspectPortrait {
		return Dimensions{Width: CanvasWidth, Height: CanvasHeightPortrait}
	}
	return Dimensions{Width: CanvasWidth, Height: CanvasHeightSquare}
}

// GlobalSettings holds project-wide rendering parameters.
type GlobalSettings struct {
	BrandColor      string      `json:"brandColor" validate:"required,css_color"`
	AccentColor     string      `json:"accentColor" validate:"required,css_color"`
	FontFamily      string      `json:"fontFamily" validate:"required,max=100"`
	BackgroundColor string      `json:"backgroundColor" validate:"required,css_color"`
	AspectRatio     AspectRatio `json:"aspectRatio" validate:"required,oneof=square portrait"`
	Dimensions      *Dimensions `json:"dimensions,omitempty"`
}

// DefaultGlobalSettings returns the settings applied to new projects.
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		BrandColor:      "#DC2626",
		AccentColor:     "#FED7AA",
		FontFamily:      "Inter",
		BackgroundColor: "#FFFFFF",
		AspectRatio:     AspectPortrait,
	}
}

// Validate checks colours, font and aspect ratio.
func (s GlobalSettings) Validate() error {
	return validation.Struct(s)
}

// Overlay copies the valid entries of obj onto s key by key. Entries that are
// not strings, are empty or fail their validation tag keep the value from s
// and are reported in rejected.
func (s GlobalSettings) Overlay(obj map[string]json.RawMessage) (out GlobalSettings, rejected []string) {
	out = s.Clone()
	aspect := string(out.AspectRatio)
	fields := []struct {
		key string
		tag string
		dst *string
	}{
		{"brandColor", "required,css_color", &out.BrandColor},
		{"accentColor", "required,css_color", &out.AccentColor},
		{"fontFamily", "required,max=100", &out.FontFamily},
		{"backgroundColor", "required,css_color", &out.BackgroundColor},
		{"aspectRatio", "required,oneof=square portrait", &aspect},
	}
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil || validation.Var(f.key, value, f.tag) != nil {
			rejected = append(rejected, f.key)
			continue
		}
		*f.dst = value
	}
	out.AspectRatio = AspectRatio(aspect)

	if raw, ok := obj["dimensions"]; ok {
		var d Dimensions
		if err := json.Unmarshal(raw, &d); err == nil {
			out.Dimensions = &d
		}
	}
	return out, rejected
}

// Clone returns a copy that shares no pointers with s.
func (s GlobalSettings) Clone() GlobalSettings {
	out := s
	if s.Dimensions != nil {
		d := *s.Dimensions
		out.Dimensions = &d
	}
	return out
}

// SettingsPatch is a partial GlobalSettings update; nil fields are left alone.
type SettingsPatch struct {
	BrandColor      *string      `json:"brandColor,omitempty"`
	AccentColor     *string      `json:"accentColor,omitempty"`
	FontFamily      *string      `json:"fontFamily,omitempty"`
	BackgroundColor *string      `json:"backgroundColor,omitempty"`
	AspectRatio     *AspectRatio `json:"aspectRatio,omitempty"`
	Dimensions      *Dimensions  `json:"dimensions,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.BrandColor == nil && p.AccentColor == nil && p.FontFamily == nil &&
		p.BackgroundColor == nil && p.AspectRatio == nil && p.Dimensions == nil
}

// Apply shallow-merges the patch into s.
func (p SettingsPatch) Apply(s GlobalSettings) GlobalSettings {
	out := s.Clone()
	if p.BrandColor != nil {
		out.BrandColor = *p.BrandColor
	}
	if p.AccentColor != nil {
		out.AccentColor = *p.AccentColor
	}
	if p.FontFamily != nil {
		out.FontFamily = *p.FontFamily
	}
	if p.BackgroundColor != nil {
		out.BackgroundColor = *p.BackgroundColor
	}
	if p.AspectRatio != nil {
		out.AspectRatio = *p.AspectRatio
	}
	if p.Dimensions != nil {
		d := *p.Dimensions
		out.Dimensions = &d
	}
	return out
}
