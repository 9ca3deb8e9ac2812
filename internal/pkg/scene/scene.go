// Package scene describes a chart as a tree of draw instructions.
//
// A scene knows nothing about its output format: renderers walk the tree and commit the
// instructions to a target surface (e.g. an SVG document).
package scene

import "math"

// Shape is a draw instruction.
type Shape interface {
	shape()
}

// Point is a position in the coordinate space of the enclosing [Group].
type Point struct {
	X float64
	Y float64
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Group holds shapes drawn in a coordinate space translated by Translate.
type Group struct {
	Class     string
	Translate Point
	Children  []Shape
}

// Append shapes to the group.
func (g *Group) Append(shapes ...Shape) {
	g.Children = append(g.Children, shapes...)
}

// Line is a straight segment.
type Line struct {
	Class  string
	From   Point
	To     Point
	Stroke string
}

// Path is a polyline, drawn as straight segments.
//
// Each element of Segments is drawn as a separate sub-path.
type Path struct {
	Class    string
	Segments [][]Point
	Stroke   string
}

// NewPath builds a [Path] through points, splitting sub-paths at non-finite points.
func NewPath(points []Point) Path {
	var (
		segments [][]Point
		current  []Point
	)

	for _, p := range points {
		if !p.IsFinite() {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}

			continue
		}

		current = append(current, p)
	}

	if len(current) > 0 {
		segments = append(segments, current)
	}

	return Path{Segments: segments}
}

// Text is a label, made of one or several lines.
//
// The text is drawn at At, inside a coordinate space translated by Translate.
// Lines after the first one are offset vertically by their DY.
type Text struct {
	Class     string
	Translate Point
	At        Point
	Lines     []TextLine
	Anchor    string
	Fill      string
}

// TextLine is one line of a [Text]. DY is the vertical offset relative to the previous line.
type TextLine struct {
	Content string
	DY      float64
}

// Circle is a point marker.
type Circle struct {
	Class  string
	Center Point
	Radius float64
	Fill   string
}

func (Group) shape()  {}
func (Line) shape()   {}
func (Path) shape()   {}
func (Text) shape()   {}
func (Circle) shape() {}

// Chart is the complete scene of a chart: a surface of a given size holding a root group.
type Chart struct {
	Title  string
	Width  float64
	Height float64
	Root   Group
}

// Walk visits all shapes of the chart depth-first, in drawing order.
//
// The visit function receives the absolute translation of the group holding each shape.
func (c *Chart) Walk(visit func(offset Point, s Shape)) {
	walk(Point{}, c.Root, visit)
}

func walk(offset Point, g Group, visit func(Point, Shape)) {
	visit(offset, g)
	inner := Point{X: offset.X + g.Translate.X, Y: offset.Y + g.Translate.Y}

	for _, child := range g.Children {
		if group, ok := child.(Group); ok {
			walk(inner, group, visit)

			continue
		}

		visit(inner, child)
	}
}

// Find returns all shapes of the chart with a given class, in drawing order.
func (c *Chart) Find(class string) []Shape {
	var found []Shape
	c.Walk(func(_ Point, s Shape) {
		if ClassOf(s) == class {
			found = append(found, s)
		}
	})

	return found
}

// ClassOf returns the class of a shape.
func ClassOf(s Shape) string {
	switch v := s.(type) {
	case Group:
		return v.Class
	case Line:
		return v.Class
	case Path:
		return v.Class
	case Text:
		return v.Class
	case Circle:
		return v.Class
	default:
		return ""
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
