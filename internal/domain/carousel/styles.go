package carousel

import "github.com/BillMorio/LinkedIn-Carousel/internal/validation"

// ElementStyle overrides the typography and box of a single field.
type ElementStyle struct {
	FontSize      string   `json:"fontSize,omitempty" validate:"omitempty,css_length"`
	FontWeight    string   `json:"fontWeight,omitempty"`
	FontFamily    string   `json:"fontFamily,omitempty"`
	LineHeight    string   `json:"lineHeight,omitempty" validate:"omitempty,css_length"`
	LetterSpacing string   `json:"letterSpacing,omitempty" validate:"omitempty,css_length"`
	FontStyle     string   `json:"fontStyle,omitempty" validate:"omitempty,oneof=normal italic"`
	Color         string   `json:"color,omitempty" validate:"omitempty,css_color"`
	Width         string   `json:"width,omitempty" validate:"omitempty,css_length"`
	Height        string   `json:"height,omitempty" validate:"omitempty,css_length"`
	Opacity       *float64 `json:"opacity,omitempty" validate:"omitempty,min=0,max=1"`
}

// Validate checks lengths, colours and opacity bounds.
func (s ElementStyle) Validate() error {
	return validation.Struct(s)
}

// Section layout modes for repeatable groups such as logo grids.
const (
	LayoutGrid  = "grid"
	LayoutRow   = "row"
	LayoutStack = "stack"
	LayoutWrap  = "wrap"
)

// SectionStyle overrides spacing and layout of a named region of a slide.
type SectionStyle struct {
	MarginTop       string   `json:"marginTop,omitempty" validate:"omitempty,css_length"`
	MarginBottom    string   `json:"marginBottom,omitempty" validate:"omitempty,css_length"`
	PaddingTop      string   `json:"paddingTop,omitempty" validate:"omitempty,css_length"`
	PaddingBottom   string   `json:"paddingBottom,omitempty" validate:"omitempty,css_length"`
	PaddingLeft     string   `json:"paddingLeft,omitempty" validate:"omitempty,css_length"`
	PaddingRight    string   `json:"paddingRight,omitempty" validate:"omitempty,css_length"`
	Opacity         *float64 `json:"opacity,omitempty" validate:"omitempty,min=0,max=1"`
	BackgroundColor string   `json:"backgroundColor,omitempty" validate:"omitempty,css_color"`
	BorderRadius    string   `json:"borderRadius,omitempty" validate:"omitempty,css_length"`
	Gap             string   `json:"gap,omitempty" validate:"omitempty,css_length"`
	Layout          string   `json:"layout,omitempty" validate:"omitempty,oneof=grid row stack wrap"`
	ItemGap         string   `json:"itemGap,omitempty" validate:"omitempty,css_length"`
	ItemSize        string   `json:"itemSize,omitempty" validate:"omitempty,css_length"`
}

// Validate checks lengths, colours, layout mode and opacity bounds.
func (s SectionStyle) Validate() error {
	return validation.Struct(s)
}
