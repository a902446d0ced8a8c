package svgscene

import (
	"errors"

	"golang.org/x/net/html"

	"github.com/nottheswimmer/graphpaste/scene"
	"github.com/nottheswimmer/graphpaste/svgdom"
)

var errNoEdgePath = errors.New("svgscene: edge without path data")

// edgePath reconstructs one edge. The unit is either a wrapping group or a
// bare path element; its id attribute wins over fallbackID. The base type
// is a line, promoted to an arrow by marker attributes, triangle heads
// only.
func (c *cursor) edgePath(unit *html.Node, fallbackID string) (scene.Element, error) {
	pathNode := unit
	if !svgdom.Is(unit, "path") {
		pathNode = svgdom.Find(unit, "path")
	}
	if pathNode == nil {
		return scene.Element{}, errNoEdgePath
	}
	parsed, err := parsePathAttr(pathNode)
	if err != nil {
		return scene.Element{}, err
	}

	el := scene.NewElement(scene.TypeLine)
	if id := svgdom.Attr(unit, "id"); id != "" {
		el.ID = id
	} else if fallbackID != "" {
		el.ID = fallbackID
	}
	el.X = parsed.X
	el.Y = parsed.Y
	el.Width = parsed.Width
	el.Height = parsed.Height
	el.Points = parsed.Points

	style := svgdom.ParseStyle(svgdom.Attr(unit, "style"))
	if o, ok := style.Float("opacity"); ok {
		el.Opacity = o * 100
	}

	pathStyle := svgdom.ParseStyle(svgdom.Attr(pathNode, "style"))
	if w, ok := pathStyle.Length("stroke-width"); ok && w > 2 {
		el.StrokeWidth = 4
	}
	if pathStyle.Has("stroke-dasharray") {
		el.StrokeStyle = scene.StrokeDashed
		if c.dotted {
			el.StrokeStyle = scene.StrokeDotted
		}
	}

	if _, ok := svgdom.Lookup(pathNode, "marker-start"); ok {
		el.Type = scene.TypeArrow
		el.StartArrowhead = scene.ArrowheadTriangle
	}
	if _, ok := svgdom.Lookup(pathNode, "marker-end"); ok {
		el.Type = scene.TypeArrow
		el.EndArrowhead = scene.ArrowheadTriangle
	}
	return el, nil
}

// edgeLabel reconstructs an edge's label box: a node reconstruction with
// the text shrunk and any shape given the neutral label fill.
func (c *cursor) edgeLabel(g *html.Node) []scene.Element {
	els := c.node(g)
	for i := range els {
		if els[i].Type == scene.TypeText {
			els[i].FontSize *= 0.8
		} else {
			els[i].BackgroundColor = "#e0e0e0"
		}
	}
	return els
}
