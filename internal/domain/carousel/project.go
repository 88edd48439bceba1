package carousel

// DefaultProjectName is used when a project has no name.
const DefaultProjectName = "Untitled Carousel"

// Project is the whole carousel document.
type Project struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	ThemeID        string         `json:"themeId"`
	Slides         []Slide        `json:"slides"`
	GlobalSettings GlobalSettings `json:"globalSettings"`
}

// NewProject returns an empty project with default settings.
func NewProject(id, name, themeID string) *Project {
	if name == "" {
		name = DefaultProjectName
	}
	return &Project{
		ID:             id,
		Name:           name,
		ThemeID:        themeID,
		Slides:         []Slide{},
		GlobalSettings: DefaultGlobalSettings(),
	}
}

// Clone returns a deep copy.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.GlobalSettings = p.GlobalSettings.Clone()
	out.Slides = make([]Slide, len(p.Slides))
	for i, s := range p.Slides {
		out.Slides[i] = s.Clone()
	}
	return &out
}

// IndexOf returns the position of the slide with id, or -1.
func (p *Project) IndexOf(id string) int {
	for i, s := range p.Slides {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Reindex sets each slide's Order to its position.
func (p *Project) Reindex() {
	for i := range p.Slides {
		p.Slides[i].Order = i
	}
}

// OrderConsistent reports whether slides[i].Order == i and every content
// type matches its slide type.
func (p *Project) OrderConsistent() bool {
	for i, s := range p.Slides {
		if s.Order != i || s.Content.Type != s.Type {
			return false
		}
	}
	return true
}

// Dimensions returns the canvas size implied by the aspect ratio.
func (p *Project) Dimensions() Dimensions {
	return p.GlobalSettings.AspectRatio.Dimensions()
}
