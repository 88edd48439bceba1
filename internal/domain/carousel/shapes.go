package carousel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Step is one numbered item of a process list.
type Step struct {
	Number      *int   `json:"number,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Tool is a named tool badge with an icon.
type Tool struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color,omitempty"`
}

// WorkflowStep is one hop of a tool workflow.
type WorkflowStep struct {
	Step        string `json:"step"`
	Description string `json:"description,omitempty"`
	Arrow       *bool  `json:"arrow,omitempty"`
}

// BulletPoint is a single bullet line.
type BulletPoint struct {
	Text     string `json:"text"`
	Icon     string `json:"icon,omitempty"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Stat is a label/value pair shown on intro slides.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KeyValue is a generic key/value row.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Quote is a pull quote with attribution.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Role   string `json:"role,omitempty"`
}

// SocialLink points at one of the author's profiles.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Handle   string `json:"handle,omitempty"`
}

// Testimonial is a short endorsement.
type Testimonial struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Shape is the typed view of a slide's content. Exactly one implementation
// exists per SlideType.
type Shape interface {
	SlideType() SlideType
	// Headline is the most prominent text of the slide, used for listings.
	Headline() string
	shape()
}

// IntroContent is the typed view of an INTRO slide.
type IntroContent struct {
	ProfileImage      string   `json:"profileImage,omitempty"`
	Name              string   `json:"name,omitempty"`
	Tagline           string   `json:"tagline,omitempty"`
	CompanyLogo       string   `json:"companyLogo,omitempty"`
	HeadlineText      string   `json:"headline"`
	Subheadline       string   `json:"subheadline,omitempty"`
	Subtitle          string   `json:"subtitle,omitempty"`
	Description       string   `json:"description,omitempty"`
	BadgeText         string   `json:"badgeText,omitempty"`
	PillText          string   `json:"pillText,omitempty"`
	BackgroundPattern string   `json:"backgroundPattern,omitempty"`
	Stats             []Stat   `json:"stats,omitempty"`
	Logos             []string `json:"logos,omitempty"`
	Layout            string   `json:"layout,omitempty"`
	MainTitle         string   `json:"mainTitle,omitempty"`
	HeroImage         string   `json:"heroImage,omitempty"`
}

func (IntroContent) SlideType() SlideType { return TypeIntro }
func (c IntroContent) Headline() string   { return firstNonEmpty(c.MainTitle, c.HeadlineText, c.Subheadline) }
func (IntroContent) shape()               {}

// ContentSlideContent is the typed view of a CONTENT slide.
type ContentSlideContent struct {
	PillText      string         `json:"pillText,omitempty"`
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	CategoryBadge string         `json:"categoryBadge,omitempty"`
	Body          string         `json:"body,omitempty"`
	Steps         []Step         `json:"steps,omitempty"`
	BulletPoints  []BulletPoint  `json:"bulletPoints,omitempty"`
	KeyValue      []KeyValue     `json:"keyValue,omitempty"`
	Quote         *Quote         `json:"quote,omitempty"`
	Tools         []Tool         `json:"tools,omitempty"`
	Workflow      []WorkflowStep `json:"workflow,omitempty"`
	Illustration  string         `json:"illustration,omitempty"`
	FooterNote    string         `json:"footerNote,omitempty"`
	FooterCTA     string         `json:"footerCTA,omitempty"`
	Layout        string         `json:"layout,omitempty"`
	MainTitle     string         `json:"mainTitle,omitempty"`
	HeroImage     string         `json:"heroImage,omitempty"`
}

func (ContentSlideContent) SlideType() SlideType { return TypeContent }
func (c ContentSlideContent) Headline() string   { return firstNonEmpty(c.MainTitle, c.Title, c.Subtitle) }
func (ContentSlideContent) shape()               {}

// CTAContent is the typed view of a CTA slide.
type CTAContent struct {
	ProfileImage  string       `json:"profileImage,omitempty"`
	Name          string       `json:"name,omitempty"`
	Title         string       `json:"title,omitempty"`
	Company       string       `json:"company,omitempty"`
	CompanyLogo   string       `json:"companyLogo,omitempty"`
	Handle        string       `json:"handle,omitempty"`
	SocialLinks   []SocialLink `json:"socialLinks,omitempty"`
	CtaText       string       `json:"ctaText"`
	CtaButtonText string       `json:"ctaButtonText,omitempty"`
	ActionURL     string       `json:"actionUrl,omitempty"`
	SecondaryCTA  string       `json:"secondaryCTA,omitempty"`
	QrCode        string       `json:"qrCode,omitempty"`
	Testimonial   *Testimonial `json:"testimonial,omitempty"`
	Achievements  []string     `json:"achievements,omitempty"`
	Layout        string       `json:"layout,omitempty"`
	HeroImage     string       `json:"heroImage,omitempty"`
}

func (CTAContent) SlideType() SlideType { return TypeCTA }
func (c CTAContent) Headline() string   { return firstNonEmpty(c.CtaText, c.Name) }
func (CTAContent) shape()               {}

// Shape decodes the content into the typed view matching its Type. Unknown
// keys, style maps included, are ignored by the view but stay in Fields.
func (c Content) Shape() (Shape, error) {
	raw, err := json.Marshal(c.Fields)
	if err != nil {
		return nil, err
	}
	if c.Fields == nil {
		raw = []byte("{}")
	}

	switch c.Type {
	case TypeIntro:
		var v IntroContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", c.Type, err)
		}
		return v, nil
	case TypeContent:
		var v ContentSlideContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", c.Type, err)
		}
		return v, nil
	case TypeCTA:
		var v CTAContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", c.Type, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown slide type %q", c.Type)
	}
}

// Headline returns the shape headline, or "" when the content does not decode.
func (c Content) Headline() string {
	s, err := c.Shape()
	if err != nil {
		return ""
	}
	return s.Headline()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
