package tmx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/eak1mov/go-libtmx/tile"
)

type ObjectGroup struct {
	ID         uint32
	Name       string
	Color      *Color
	Opacity    float64
	Visible    bool
	Properties Properties
	Objects    []Object
}

type Shape uint8

const (
	ShapeRectangle Shape = iota
	ShapeEllipse
	ShapePoint
	ShapePolygon
	ShapePolyline
	ShapeTile
)

type Point struct {
	X float64
	Y float64
}

type Size struct {
	Width  float64
	Height float64
}

type Object struct {
	ID         uint32
	Name       string
	Type       string
	X          float64
	Y          float64
	Size       *Size // nil if the document gives no size
	Rotation   float64
	Visible    bool
	Tile       *tile.Tile // set for tile objects
	Shape      Shape
	Points     []Point // polygon and polyline vertices, relative to (X, Y)
	Properties Properties
}

type ImageLayer struct {
	ID         uint32
	Name       string
	Opacity    float64
	Visible    bool
	OffsetX    float64
	OffsetY    float64
	Image      *Image // nil if the layer has no image
	Properties Properties
}

func parseObjectGroup(n *xmlquery.Node) (ObjectGroup, error) {
	a := newAttrs(n)
	group := ObjectGroup{
		ID:      a.OptUint32("id", 0),
		Name:    a.OptString("name", ""),
		Color:   a.OptColor("color"),
		Opacity: a.OptFloat("opacity", 1),
		Visible: a.OptBool("visible", true),
	}
	if a.err != nil {
		return ObjectGroup{}, a.err
	}

	for child := range childElements(n) {
		var err error
		switch child.Data {
		case "properties":
			group.Properties, err = parseProperties(child)
		case "object":
			var object Object
			object, err = parseObject(child)
			group.Objects = append(group.Objects, object)
		}
		if err != nil {
			return ObjectGroup{}, fmt.Errorf("object group %q: %w", group.Name, err)
		}
	}
	return group, nil
}

func parseObject(n *xmlquery.Node) (Object, error) {
	a := newAttrs(n)
	object := Object{
		ID:       a.OptUint32("id", 0),
		Name:     a.OptString("name", ""),
		Type:     a.OptString("type", a.OptString("class", "")),
		X:        a.Float("x"),
		Y:        a.Float("y"),
		Rotation: a.OptFloat("rotation", 0),
		Visible:  a.OptBool("visible", true),
		Shape:    ShapeRectangle,
	}
	_, hasWidth := a.Lookup("width")
	_, hasHeight := a.Lookup("height")
	if hasWidth || hasHeight {
		object.Size = &Size{Width: a.OptFloat("width", 0), Height: a.OptFloat("height", 0)}
	}
	if _, ok := a.Lookup("gid"); ok {
		t := tile.Decode(a.Uint32("gid"))
		object.Tile = &t
		object.Shape = ShapeTile
	}
	if a.err != nil {
		return Object{}, a.err
	}

	for child := range childElements(n) {
		var err error
		switch child.Data {
		case "properties":
			object.Properties, err = parseProperties(child)
		case "ellipse":
			object.Shape = ShapeEllipse
		case "point":
			object.Shape = ShapePoint
		case "polygon":
			object.Shape = ShapePolygon
			object.Points, err = parsePoints(child)
		case "polyline":
			object.Shape = ShapePolyline
			object.Points, err = parsePoints(child)
		}
		if err != nil {
			return Object{}, fmt.Errorf("object %d: %w", object.ID, err)
		}
	}
	return object, nil
}

// parsePoints reads a points attribute of the form "x1,y1 x2,y2 ...".
func parsePoints(n *xmlquery.Node) ([]Point, error) {
	a := newAttrs(n)
	value := a.String("points")
	if a.err != nil {
		return nil, a.err
	}

	fields := strings.Fields(value)
	points := make([]Point, 0, len(fields))
	for _, field := range fields {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			a.invalid("points", value, fmt.Errorf("vertex %q", field))
			return nil, a.err
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			a.invalid("points", value, err)
			return nil, a.err
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			a.invalid("points", value, err)
			return nil, a.err
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

func parseImageLayer(n *xmlquery.Node) (ImageLayer, error) {
	a := newAttrs(n)
	layer := ImageLayer{
		ID:      a.OptUint32("id", 0),
		Name:    a.OptString("name", ""),
		Opacity: a.OptFloat("opacity", 1),
		Visible: a.OptBool("visible", true),
		OffsetX: a.OptFloat("offsetx", 0),
		OffsetY: a.OptFloat("offsety", 0),
	}
	if a.err != nil {
		return ImageLayer{}, a.err
	}

	for child := range childElements(n) {
		var err error
		switch child.Data {
		case "properties":
			layer.Properties, err = parseProperties(child)
		case "image":
			// The editor writes <image source=""/> for a layer without an image.
			if source, _ := newAttrs(child).Lookup("source"); source != "" {
				layer.Image, err = parseImage(child)
			}
		}
		if err != nil {
			return ImageLayer{}, fmt.Errorf("image layer %q: %w", layer.Name, err)
		}
	}
	return layer, nil
}
