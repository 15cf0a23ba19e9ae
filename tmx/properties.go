package tmx

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Properties holds custom metadata attached to an entity.
type Properties map[string]PropertyValue

// PropertyValue is one of StringValue, IntValue, FloatValue, BoolValue,
// ColorValue, FileValue or ObjectValue.
type PropertyValue interface {
	isPropertyValue()
}

type (
	StringValue string
	IntValue    int64
	FloatValue  float64
	BoolValue   bool
	ColorValue  Color
	FileValue   string // path as written in the document
	ObjectValue int64  // id of the referenced object
)

func (StringValue) isPropertyValue() {}
func (IntValue) isPropertyValue()    {}
func (FloatValue) isPropertyValue()  {}
func (BoolValue) isPropertyValue()   {}
func (ColorValue) isPropertyValue()  {}
func (FileValue) isPropertyValue()   {}
func (ObjectValue) isPropertyValue() {}

// Value returns the property name if it is present and has type T.
func Value[T PropertyValue](p Properties, name string) (T, bool) {
	v, ok := p[name].(T)
	return v, ok
}

func (p Properties) String(name string) (string, bool) {
	v, ok := Value[StringValue](p, name)
	return string(v), ok
}

func (p Properties) Int(name string) (int64, bool) {
	v, ok := Value[IntValue](p, name)
	return int64(v), ok
}

func (p Properties) Float(name string) (float64, bool) {
	v, ok := Value[FloatValue](p, name)
	return float64(v), ok
}

func (p Properties) Bool(name string) (bool, bool) {
	v, ok := Value[BoolValue](p, name)
	return bool(v), ok
}

// RawProperty is a property as written in the document. An empty Type means string.
type RawProperty struct {
	Name  string
	Type  string
	Value string
}

// DecodeProperties converts raw properties into typed values.
// A later property with the same name replaces an earlier one.
func DecodeProperties(raw []RawProperty) (Properties, error) {
	props := make(Properties, len(raw))
	for _, rp := range raw {
		value, err := decodePropertyValue(rp.Type, rp.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", rp.Name, err)
		}
		props[rp.Name] = value
	}
	return props, nil
}

func decodePropertyValue(typ, value string) (PropertyValue, error) {
	invalid := func(err error) error {
		return fmt.Errorf("%w: %s value %q: %w", ErrInvalidAttributeValue, typ, value, err)
	}

	switch typ {
	case "", "string":
		return StringValue(value), nil
	case "int":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, invalid(err)
		}
		return IntValue(v), nil
	case "float":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, invalid(err)
		}
		return FloatValue(v), nil
	case "bool":
		switch value {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
		return nil, invalid(strconv.ErrSyntax)
	case "color":
		if value == "" {
			return ColorValue{}, nil
		}
		c, err := ParseColor(value)
		if err != nil {
			return nil, invalid(err)
		}
		return ColorValue(c), nil
	case "file":
		return FileValue(value), nil
	case "object":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, invalid(err)
		}
		return ObjectValue(v), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidPropertyType, typ)
}

// Color is an RGBA color. Documents write it as #RRGGBB or #AARRGGBB.
type Color struct {
	R, G, B, A uint8
}

func ParseColor(s string) (Color, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil {
		return Color{}, err
	}
	switch len(b) {
	case 3:
		return Color{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
	case 4:
		return Color{A: b[0], R: b[1], G: b[2], B: b[3]}, nil
	}
	return Color{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
}

// parseProperties reads a <properties> element. Values longer than one line
// are stored as element text instead of the value attribute.
func parseProperties(n *xmlquery.Node) (Properties, error) {
	var raw []RawProperty
	for child := range childElements(n) {
		if child.Data != "property" {
			continue
		}
		a := newAttrs(child)
		rp := RawProperty{
			Name: a.String("name"),
			Type: a.OptString("type", ""),
		}
		if value, ok := a.Lookup("value"); ok {
			rp.Value = value
		} else {
			rp.Value = child.InnerText()
		}
		if a.err != nil {
			return nil, a.err
		}
		raw = append(raw, rp)
	}
	return DecodeProperties(raw)
}
