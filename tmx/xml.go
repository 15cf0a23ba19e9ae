package tmx

import (
	"bytes"
	"fmt"
	"iter"
	"strconv"

	"github.com/antchfx/xmlquery"
)

// parseDocument returns the root element of an XML document.
func parseDocument(data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}
	for child := range childElements(doc) {
		return child, nil
	}
	return nil, fmt.Errorf("%w: no root element", ErrMalformedXML)
}

func childElements(n *xmlquery.Node) iter.Seq[*xmlquery.Node] {
	return func(yield func(*xmlquery.Node) bool) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}
			if !yield(child) {
				return
			}
		}
	}
}

func firstChild(n *xmlquery.Node, tag string) *xmlquery.Node {
	for child := range childElements(n) {
		if child.Data == tag {
			return child
		}
	}
	return nil
}

// attrs reads typed attributes of a single element and keeps the first error,
// so a sequence of reads can be checked once.
type attrs struct {
	node *xmlquery.Node
	err  error
}

func newAttrs(n *xmlquery.Node) *attrs {
	return &attrs{node: n}
}

func (a *attrs) Lookup(name string) (string, bool) {
	for _, attr := range a.node.Attr {
		if attr.Name.Space == "" && attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func (a *attrs) required(name string) (string, bool) {
	value, ok := a.Lookup(name)
	if !ok && a.err == nil {
		a.err = fmt.Errorf("%w: %q on <%s>", ErrMissingAttribute, name, a.node.Data)
	}
	return value, ok
}

func (a *attrs) invalid(name, value string, err error) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: %s=%q on <%s>: %w", ErrInvalidAttributeValue, name, value, a.node.Data, err)
	}
}

func (a *attrs) String(name string) string {
	value, _ := a.required(name)
	return value
}

func (a *attrs) OptString(name, def string) string {
	if value, ok := a.Lookup(name); ok {
		return value
	}
	return def
}

func (a *attrs) parseInt(name, value string, bitSize int) int64 {
	v, err := strconv.ParseInt(value, 10, bitSize)
	if err != nil {
		a.invalid(name, value, err)
	}
	return v
}

func (a *attrs) parseUint(name, value string, bitSize int) uint64 {
	v, err := strconv.ParseUint(value, 10, bitSize)
	if err != nil {
		a.invalid(name, value, err)
	}
	return v
}

func (a *attrs) parseFloat(name, value string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		a.invalid(name, value, err)
	}
	return v
}

// Int reads a required signed 32-bit attribute.
func (a *attrs) Int(name string) int32 {
	if value, ok := a.required(name); ok {
		return int32(a.parseInt(name, value, 32))
	}
	return 0
}

// Dim reads a required non-negative size attribute.
func (a *attrs) Dim(name string) int {
	if value, ok := a.required(name); ok {
		return int(a.parseUint(name, value, 31))
	}
	return 0
}

func (a *attrs) OptDim(name string, def int) int {
	if value, ok := a.Lookup(name); ok {
		return int(a.parseUint(name, value, 31))
	}
	return def
}

func (a *attrs) Uint32(name string) uint32 {
	if value, ok := a.required(name); ok {
		return uint32(a.parseUint(name, value, 32))
	}
	return 0
}

func (a *attrs) OptUint32(name string, def uint32) uint32 {
	if value, ok := a.Lookup(name); ok {
		return uint32(a.parseUint(name, value, 32))
	}
	return def
}

func (a *attrs) Float(name string) float64 {
	if value, ok := a.required(name); ok {
		return a.parseFloat(name, value)
	}
	return 0
}

func (a *attrs) OptFloat(name string, def float64) float64 {
	if value, ok := a.Lookup(name); ok {
		return a.parseFloat(name, value)
	}
	return def
}

// OptBool accepts "0"/"1" as written by the editor, and "true"/"false".
func (a *attrs) OptBool(name string, def bool) bool {
	value, ok := a.Lookup(name)
	if !ok {
		return def
	}
	switch value {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	a.invalid(name, value, strconv.ErrSyntax)
	return def
}

func (a *attrs) OptColor(name string) *Color {
	value, ok := a.Lookup(name)
	if !ok || value == "" {
		return nil
	}
	c, err := ParseColor(value)
	if err != nil {
		a.invalid(name, value, err)
		return nil
	}
	return &c
}
