package carousel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Reserved content keys.
const (
	KeyType          = "type"
	KeyStyles        = "styles"
	KeySectionStyles = "sectionStyles"
)

// Fields is an open set of content values keyed by field name. Values are
// kept as compact JSON so unknown keys survive every merge untouched.
type Fields map[string]json.RawMessage

// FieldsFrom marshals each value of m into a Fields map.
func FieldsFrom(m map[string]any) (Fields, error) {
	out := make(Fields, len(m))
	for key, value := range m {
		if err := out.Set(key, value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MustFields is FieldsFrom for literals known to be encodable.
func MustFields(m map[string]any) Fields {
	f, err := FieldsFrom(m)
	if err != nil {
		panic(err)
	}
	return f
}

// Set stores value under key.
func (f Fields) Set(key string, value any) error {
	var raw []byte
	switch v := value.(type) {
	case json.RawMessage:
		raw = v
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode field %q: %w", key, err)
		}
		raw = encoded
	}
	compacted, err := compact(raw)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", key, err)
	}
	f[key] = compacted
	return nil
}

// UnmarshalJSON decodes an object and compacts every value.
func (f *Fields) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		*f = nil
		return nil
	}
	out := make(Fields, len(obj))
	for key, value := range obj {
		compacted, err := compact(value)
		if err != nil {
			return err
		}
		out[key] = compacted
	}
	*f = out
	return nil
}

// Has reports whether key is present, including explicit nulls.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Decode unmarshals the value under key into dst. It reports false when the
// key is absent.
func (f Fields) Decode(key string, dst any) (bool, error) {
	raw, ok := f[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode field %q: %w", key, err)
	}
	return true, nil
}

// String returns the string stored under key, or "" when absent or not a string.
func (f Fields) String(key string) string {
	var s string
	if _, err := f.Decode(key, &s); err != nil {
		return ""
	}
	return s
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = append(json.RawMessage(nil), value...)
	}
	return out
}

// Without returns a copy lacking the named keys.
func (f Fields) Without(keys ...string) Fields {
	out := f.Clone()
	if out == nil {
		out = Fields{}
	}
	for _, key := range keys {
		delete(out, key)
	}
	return out
}

// Merge shallow-merges overlay onto base; overlay keys win.
func Merge(base, overlay Fields) Fields {
	out := make(Fields, len(base)+len(overlay))
	for key, value := range base {
		out[key] = append(json.RawMessage(nil), value...)
	}
	for key, value := range overlay {
		out[key] = append(json.RawMessage(nil), value...)
	}
	return out
}

// Content is the tagged slide content union. Type is the discriminator; the
// remaining keys live in Fields. Use Shape for a typed view.
type Content struct {
	Type   SlideType
	Fields Fields
}

// NewContent builds content of type t from fields, dropping any "type" key.
func NewContent(t SlideType, fields Fields) Content {
	return Content{Type: t, Fields: fields.Without(KeyType)}
}

// Clone returns a deep copy.
func (c Content) Clone() Content {
	fields := c.Fields.Clone()
	if fields == nil {
		fields = Fields{}
	}
	return Content{Type: c.Type, Fields: fields}
}

// Patch shallow-merges p into the content. A "type" key in p is ignored so
// the discriminator always stays with the owning slide.
func (c Content) Patch(p Fields) Content {
	return Content{Type: c.Type, Fields: Merge(c.Fields, p.Without(KeyType))}
}

// WithDefaults fills keys missing from c with values from defaults; values
// already present in c win.
func (c Content) WithDefaults(defaults Fields) Content {
	return Content{Type: c.Type, Fields: Merge(defaults.Without(KeyType), c.Fields)}
}

// Equal reports whether both contents hold the same type and byte-identical values.
func (c Content) Equal(other Content) bool {
	if c.Type != other.Type || len(c.Fields) != len(other.Fields) {
		return false
	}
	for key, value := range c.Fields {
		o, ok := other.Fields[key]
		if !ok || !bytes.Equal(value, o) {
			return false
		}
	}
	return true
}

// Styles decodes the per-field style overrides. Entries that do not decode
// as an ElementStyle are skipped.
func (c Content) Styles() (map[string]ElementStyle, error) {
	return decodeStyleMap[ElementStyle](c.Fields, KeyStyles)
}

// SectionStyles decodes the per-section style overrides, skipping entries
// that do not decode.
func (c Content) SectionStyles() (map[string]SectionStyle, error) {
	return decodeStyleMap[SectionStyle](c.Fields, KeySectionStyles)
}

// decodeStyleMap fails only when the map itself is not an object.
func decodeStyleMap[T any](f Fields, key string) (map[string]T, error) {
	var entries map[string]json.RawMessage
	if _, err := f.Decode(key, &entries); err != nil {
		return nil, err
	}
	out := make(map[string]T, len(entries))
	for name, raw := range entries {
		var style T
		if err := json.Unmarshal(raw, &style); err != nil {
			continue
		}
		out[name] = style
	}
	return out, nil
}

// MarshalJSON writes the content as one flat object including "type".
func (c Content) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(c.Fields)+1)
	for key, value := range c.Fields {
		obj[key] = value
	}
	typ, err := json.Marshal(c.Type)
	if err != nil {
		return nil, err
	}
	obj[KeyType] = typ
	return json.Marshal(obj)
}

// UnmarshalJSON reads a flat content object. A missing or non-string "type"
// leaves Type empty; callers that own the slide force it afterwards.
func (c *Content) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Type = ""
	c.Fields = make(Fields, len(obj))
	for key, value := range obj {
		if key == KeyType {
			var t SlideType
			if err := json.Unmarshal(value, &t); err == nil {
				c.Type = t
			}
			continue
		}
		compacted, err := compact(value)
		if err != nil {
			return err
		}
		c.Fields[key] = compacted
	}
	return nil
}

// MergeStyleMaps merges two style maps key by key: keys from imported win,
// keys only in defaults are kept. When imported is not an object the
// defaults stand, or imported is kept verbatim if there are no defaults;
// replaced reports that imported was discarded.
func MergeStyleMaps(defaults, imported json.RawMessage) (merged json.RawMessage, replaced bool) {
	if len(imported) == 0 {
		return defaults, false
	}
	var importedMap map[string]json.RawMessage
	if err := json.Unmarshal(imported, &importedMap); err != nil || importedMap == nil {
		if len(defaults) > 0 {
			return defaults, true
		}
		return imported, false
	}
	var defaultMap map[string]json.RawMessage
	if len(defaults) > 0 {
		_ = json.Unmarshal(defaults, &defaultMap)
	}
	out := make(map[string]json.RawMessage, len(defaultMap)+len(importedMap))
	for key, value := range defaultMap {
		out[key] = value
	}
	for key, value := range importedMap {
		out[key] = value
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return imported, false
	}
	return encoded, false
}

func compact(raw []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}
