package carousel

import (
	"encoding/json"
)

// AIContext is advisory metadata mirrored from the selected variant. It is
// never read by rendering. Keys other than the three known ones are kept in
// Extra and written back unchanged.
type AIContext struct {
	Purpose               string
	BestUsedFor           string
	RecommendedDimensions *Dimensions
	Extra                 map[string]json.RawMessage
}

// Clone returns a deep copy.
func (a *AIContext) Clone() *AIContext {
	if a == nil {
		return nil
	}
	out := &AIContext{Purpose: a.Purpose, BestUsedFor: a.BestUsedFor}
	if a.RecommendedDimensions != nil {
		d := *a.RecommendedDimensions
		out.RecommendedDimensions = &d
	}
	if a.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(a.Extra))
		for key, value := range a.Extra {
			out.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return out
}

// MarshalJSON writes known keys plus Extra as one object.
func (a AIContext) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(a.Extra)+3)
	for key, value := range a.Extra {
		obj[key] = value
	}
	if a.Purpose != "" {
		obj["purpose"] = a.Purpose
	}
	if a.BestUsedFor != "" {
		obj["bestUsedFor"] = a.BestUsedFor
	}
	if a.RecommendedDimensions != nil {
		obj["recommendedDimensions"] = a.RecommendedDimensions
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads known keys and keeps the rest in Extra.
func (a *AIContext) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = AIContext{}
	for key, value := range obj {
		switch key {
		case "purpose":
			if err := json.Unmarshal(value, &a.Purpose); err != nil {
				return err
			}
		case "bestUsedFor":
			if err := json.Unmarshal(value, &a.BestUsedFor); err != nil {
				return err
			}
		case "recommendedDimensions":
			if string(value) == "null" {
				continue
			}
			var d Dimensions
			if err := json.Unmarshal(value, &d); err != nil {
				return err
			}
			a.RecommendedDimensions = &d
		default:
			if a.Extra == nil {
				a.Extra = map[string]json.RawMessage{}
			}
			compacted, err := compact(value)
			if err != nil {
				return err
			}
			a.Extra[key] = compacted
		}
	}
	return nil
}

// Slide is one ordered unit of a project.
type Slide struct {
	ID        string     `json:"id"`
	Type      SlideType  `json:"type"`
	Order     int        `json:"order"`
	VariantID string     `json:"variantId,omitempty"`
	Content   Content    `json:"content"`
	AIContext *AIContext `json:"aiContext,omitempty"`
}

// Clone returns a deep copy.
func (s Slide) Clone() Slide {
	out := s
	out.Content = s.Content.Clone()
	out.AIContext = s.AIContext.Clone()
	return out
}
