package schema

import (
	"fmt"
	"reflect"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
)

// ItemCount returns the number of items of a repeatable field.
func ItemCount(c carousel.Content, f Field) (int, error) {
	if !Repeatable(f.Kind) {
		return 0, fmt.Errorf("field %q (%s) is not repeatable", f.Key, f.Kind)
	}
	value, err := Read(c, f)
	if err != nil {
		return 0, err
	}
	return reflect.ValueOf(value).Len(), nil
}

// CanAddItem reports whether another item fits under the soft cap.
func CanAddItem(c carousel.Content, f Field) bool {
	n, err := ItemCount(c, f)
	if err != nil {
		return false
	}
	return n < handlers[f.Kind].maxItems()
}

// AppendItem returns a patch adding a blank item to a repeatable field. It
// fails once the soft cap is reached.
func AppendItem(c carousel.Content, f Field) (carousel.Fields, error) {
	if !CanAddItem(c, f) {
		return nil, fmt.Errorf("field %q: cannot add more than %d items", f.Key, handlers[f.Kind].maxItems())
	}
	h := handlers[f.Kind]
	value, err := h.read(c, f)
	if err != nil {
		return nil, err
	}
	list := reflect.ValueOf(value)
	item := reflect.ValueOf(h.blank())
	grown := reflect.Append(list, item)
	return Write(c, f, grown.Interface())
}

// RemoveItem returns a patch dropping the item at index.
func RemoveItem(c carousel.Content, f Field, index int) (carousel.Fields, error) {
	n, err := ItemCount(c, f)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= n {
		return nil, fmt.Errorf("field %q: item %d out of range", f.Key, index)
	}
	value, _ := Read(c, f)
	list := reflect.ValueOf(value)
	out := reflect.MakeSlice(list.Type(), 0, n-1)
	out = reflect.AppendSlice(out, list.Slice(0, index))
	out = reflect.AppendSlice(out, list.Slice(index+1, n))
	return Write(c, f, out.Interface())
}

// StylePatch returns a patch replacing the element style of a field that has
// style controls. Other entries of the styles map are kept.
func StylePatch(c carousel.Content, f Field, style carousel.ElementStyle) (carousel.Fields, error) {
	if !f.HasStyleControls {
		return nil, fmt.Errorf("field %q has no style controls", f.Key)
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return replaceStyleEntry(c, carousel.KeyStyles, f.Key, style)
}

// ElementStyleOf returns the style override of a field, zero when unset.
func ElementStyleOf(c carousel.Content, key string) (carousel.ElementStyle, error) {
	styles, err := c.Styles()
	if err != nil {
		return carousel.ElementStyle{}, err
	}
	return styles[key], nil
}
