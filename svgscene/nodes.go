package svgscene

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/math/f64"
	"golang.org/x/net/html"

	"github.com/nottheswimmer/graphpaste/scene"
	"github.com/nottheswimmer/graphpaste/svgdom"
	"github.com/nottheswimmer/graphpaste/svgpath"
)

// node reconstructs one diagram node: its labels, divider lines and
// container shape, reciprocally bound and stamped with one shared group
// id. A node classed "root" is a nested subgraph and recurses into the
// tree walk instead.
func (c *cursor) node(g *html.Node) []scene.Element {
	tx, ty := svgdom.ParseTranslate(svgdom.Attr(g, "transform"))

	if svgdom.HasClass(g, "root") {
		return c.tree(g, f64.Vec2{tx, ty})
	}

	els := c.nodeTexts(g, tx, ty)
	els = append(els, c.nodeLines(g, tx, ty)...)

	if shape, ok := c.nodeShape(g, tx, ty); ok {
		shape.BoundElements = make([]scene.BoundElement, 0, len(els))
		for i := range els {
			els[i].ContainerID = shape.ID
			shape.BoundElements = append(shape.BoundElements, scene.BoundElement{ID: els[i].ID, Type: els[i].Type})
		}
		els = append(els, shape)
	}

	gid := scene.NewID()
	for i := range els {
		els[i].GroupIDs = []string{gid}
	}
	return els
}

// link reconstructs nodes wrapped in a hyperlink element, carrying the
// target onto each produced element.
func (c *cursor) link(a *html.Node) []scene.Element {
	dx, dy := svgdom.ParseTranslate(svgdom.Attr(a, "transform"))
	href := svgdom.Attr(a, "href")

	var els []scene.Element
	for _, child := range svgdom.Children(a) {
		if svgdom.Is(child, "g") && (svgdom.HasClass(child, "node") || svgdom.HasClass(child, "root")) {
			els = append(els, c.node(child)...)
		}
	}
	for i := range els {
		els[i].Link = href
		els[i].X += dx
		els[i].Y += dy
	}
	return els
}

// cluster reconstructs a subgraph frame: the rectangle keeps its own
// position, the first inner group is rebuilt as a node, and everything is
// translated by the cluster transform and tagged with the cluster's id.
func (c *cursor) cluster(g *html.Node) []scene.Element {
	dx, dy := svgdom.ParseTranslate(svgdom.Attr(g, "transform"))

	var els []scene.Element
	if rect := svgdom.Find(g, "rect"); rect != nil {
		els = append(els, c.rectangle(rect))
	} else {
		c.log.Warn("cluster without frame", zap.String("id", svgdom.Attr(g, "id")))
	}
	if inner := svgdom.FindUnder(g, "g"); inner != nil {
		els = append(els, c.node(inner)...)
	}

	gid := svgdom.Attr(g, "id")
	if gid == "" {
		gid = scene.NewID()
	}
	for i := range els {
		els[i].X += dx
		els[i].Y += dy
		els[i].GroupIDs = append(els[i].GroupIDs, gid)
	}
	return els
}

// nodeTexts collects the node's labels: rich text blocks from
// foreignObject units, then stacked text spans with cumulative offsets.
func (c *cursor) nodeTexts(g *html.Node, tx, ty float64) []scene.Element {
	var els []scene.Element

	for _, fo := range svgdom.FindAll(g, "foreignObject") {
		content := svgdom.Text(fo)
		if content == "" {
			continue
		}
		txt := scene.NewElement(scene.TypeText)
		txt.Width = c.length(fo, "width")
		txt.Height = c.length(fo, "height")
		txt.X = tx
		txt.Y = ty
		if sub, ok := svgdom.Lookup(fo, "transform"); ok {
			dx, dy := svgdom.ParseTranslate(sub)
			txt.X += dx
			txt.Y += dy
		} else {
			txt.X -= txt.Width / 2
		}
		txt.Y -= txt.Height / 2
		txt.Text = content
		txt.OriginalText = content
		txt.FontSize = 16
		txt.FontFamily = 2
		txt.TextAlign = scene.AlignCenter
		txt.VerticalAlign = scene.AlignMiddle
		txt.Baseline = txt.Height - (txt.Height-txt.FontSize)/2
		if id := svgdom.Attr(fo, "id"); id != "" {
			txt.ID = id
		}
		els = append(els, txt)
	}

	for _, tn := range svgdom.FindAll(g, "text") {
		els = append(els, c.spanTexts(tn, tx, ty)...)
	}
	return els
}

// spanTexts rebuilds one text element's stacked spans. Each span becomes
// its own element at the running pen position: an absolute x or y resets
// the pen on that axis, dx and dy accumulate, matching the renderer's own
// layout. Known placeholder strings are dropped.
func (c *cursor) spanTexts(tn *html.Node, tx, ty float64) []scene.Element {
	dx, dy := svgdom.ParseTranslate(svgdom.Attr(tn, "transform"))
	penX := tx + dx + c.length(tn, "x")
	penY := ty + dy + c.length(tn, "y")

	spans := svgdom.ChildrenTag(tn, "tspan")
	if len(spans) == 0 {
		content := svgdom.Text(tn)
		if content == "" || c.placeholders[strings.ToLower(content)] {
			return nil
		}
		return []scene.Element{c.spanText(content, penX, penY)}
	}

	var els []scene.Element
	for _, sp := range spans {
		if x, ok := svgdom.Lookup(sp, "x"); ok {
			if f, err := svgdom.ParseLength(x); err == nil {
				penX = tx + dx + f
			}
		}
		if y, ok := svgdom.Lookup(sp, "y"); ok {
			if f, err := svgdom.ParseLength(y); err == nil {
				penY = ty + dy + f
			}
		}
		penX += c.length(sp, "dx")
		penY += c.length(sp, "dy")
		content := svgdom.Text(sp)
		if content == "" || c.placeholders[strings.ToLower(content)] {
			continue
		}
		els = append(els, c.spanText(content, penX, penY))
	}
	return els
}

func (c *cursor) spanText(content string, x, y float64) scene.Element {
	txt := scene.NewElement(scene.TypeText)
	txt.X = x
	txt.Y = y
	txt.Text = content
	txt.OriginalText = content
	txt.FontSize = 16
	txt.FontFamily = 2
	txt.TextAlign = scene.AlignLeft
	txt.VerticalAlign = scene.AlignTop
	return txt
}

// nodeLines collects divider lines.
func (c *cursor) nodeLines(g *html.Node, tx, ty float64) []scene.Element {
	var els []scene.Element
	for _, line := range svgdom.FindAll(g, "line") {
		x1, y1 := c.length(line, "x1"), c.length(line, "y1")
		x2, y2 := c.length(line, "x2"), c.length(line, "y2")
		ln := scene.NewElement(scene.TypeLine)
		ln.X = x1 + tx
		ln.Y = y1 + ty
		ln.Width = math.Abs(x2 - x1)
		ln.Height = math.Abs(y2 - y1)
		ln.Points = []f64.Vec2{{0, 0}, {x2 - x1, y2 - y1}}
		els = append(els, ln)
	}
	return els
}

// nodeShape finds the node's container shape, first match wins.
func (c *cursor) nodeShape(g *html.Node, tx, ty float64) (scene.Element, bool) {
	if rect := svgdom.Find(g, "rect"); rect != nil {
		el := c.rectangle(rect)
		el.X = tx - el.Width/2
		el.Y = ty - el.Height/2
		return el, true
	}
	if poly := svgdom.Find(g, "polygon"); poly != nil {
		return c.polygon(poly, tx, ty), true
	}
	if circ := svgdom.Find(g, "circle"); circ != nil {
		return c.circle(circ, tx, ty), true
	}
	if p := svgdom.Find(g, "path"); p != nil {
		el, err := c.pathShape(p, tx, ty)
		if err != nil {
			c.log.Warn("skipping node shape", zap.Error(err))
			return scene.Element{}, false
		}
		return el, true
	}
	return scene.Element{}, false
}

// rectangle builds the base rectangle at its own x/y attributes. Rounded
// corners give round sharpness; a radius of at least half the height means
// the shape is really a pill and becomes an ellipse.
func (c *cursor) rectangle(rect *html.Node) scene.Element {
	el := scene.NewElement(scene.TypeRectangle)
	el.Width = c.length(rect, "width")
	el.Height = c.length(rect, "height")
	el.X = c.length(rect, "x")
	el.Y = c.length(rect, "y")
	rx, ry := c.length(rect, "rx"), c.length(rect, "ry")
	switch {
	case rx > 0 && rx*2 >= el.Height:
		el.Type = scene.TypeEllipse
	case rx > 0 || ry > 0:
		el.StrokeSharpness = scene.SharpnessRound
	}
	return el
}

// polygon becomes a diamond sized and centered by the bounding box of its
// point list.
func (c *cursor) polygon(poly *html.Node, tx, ty float64) scene.Element {
	el := scene.NewElement(scene.TypeDiamond)
	fields := svgdom.Fields(svgdom.Attr(poly, "points"))

	var minX, maxX, minY, maxY float64
	seen := false
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			c.log.Debug("degenerate polygon point", zap.String("x", fields[i]), zap.String("y", fields[i+1]))
			continue
		}
		if !seen {
			minX, maxX, minY, maxY = x, x, y, y
			seen = true
			continue
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if !seen {
		c.log.Debug("polygon without points", zap.String("points", svgdom.Attr(poly, "points")))
		return el
	}

	dx, dy := svgdom.ParseTranslate(svgdom.Attr(poly, "transform"))
	el.Width = maxX - minX
	el.Height = maxY - minY
	el.X = tx + dx + (minX+maxX)/2 - el.Width/2
	el.Y = ty + dy + (minY+maxY)/2 - el.Height/2
	return el
}

// circle becomes an ellipse centered on the node origin.
func (c *cursor) circle(circ *html.Node, tx, ty float64) scene.Element {
	el := scene.NewElement(scene.TypeEllipse)
	r := c.length(circ, "r")
	el.Width = r * 2
	el.Height = r * 2
	el.X = tx + c.length(circ, "cx") - r
	el.Y = ty + c.length(circ, "cy") - r
	return el
}

// pathShape flattens raw path data into a line element.
func (c *cursor) pathShape(p *html.Node, tx, ty float64) (scene.Element, error) {
	parsed, err := parsePathAttr(p)
	if err != nil {
		return scene.Element{}, err
	}
	el := scene.NewElement(scene.TypeLine)
	el.X = parsed.X + tx
	el.Y = parsed.Y + ty
	el.Width = parsed.Width
	el.Height = parsed.Height
	el.Points = parsed.Points
	return el, nil
}

func parsePathAttr(p *html.Node) (svgpath.Path, error) {
	return svgpath.Parse(svgdom.Attr(p, "d"))
}
