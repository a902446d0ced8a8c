// Reconstructs whiteboard scene elements from diagram renderer SVG markup.
// The walker recognizes the structural groups such renderers emit (edge
// paths, edge labels, nodes, clusters) and rebuilds each as typed scene
// elements with bindings and group tags; unrecognized documents degrade to
// a flat best effort scan.
package svgscene

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/math/f64"
	"golang.org/x/net/html"

	"github.com/nottheswimmer/graphpaste/scene"
	"github.com/nottheswimmer/graphpaste/svgdom"
)

// DefaultPlaceholders are renderer artifact strings dropped from text
// spans. The list is an explicit allow-list of known junk, not a general
// sanitizer.
var DefaultPlaceholders = []string{"undefined"}

// Options configure a reconstruction.
type Options struct {
	// Logger receives skip warnings and degenerate geometry diagnostics.
	// Nil means no logging.
	Logger *zap.Logger

	// DottedDashes maps dash patterns to dotted strokes instead of dashed.
	DottedDashes bool

	// Placeholders overrides DefaultPlaceholders when non-nil.
	Placeholders []string
}

// Read parses markup and reconstructs the scene elements it describes.
// Failures local to one edge, node or cluster are logged and skipped; only
// empty or unparseable documents fail outright. Zero elements with a nil
// error means no diagram was found.
func Read(r io.Reader, opts Options) ([]scene.Element, error) {
	root, err := svgdom.Parse(r)
	if err != nil {
		return nil, err
	}
	return newCursor(opts).tree(root, f64.Vec2{}), nil
}

// ReadString is Read for an in-memory document.
func ReadString(markup string, opts Options) ([]scene.Element, error) {
	return Read(strings.NewReader(markup), opts)
}

// cursor carries the reconstruction state: logging and policy knobs. All
// positional state is passed down explicitly as translation offsets.
type cursor struct {
	log          *zap.Logger
	dotted       bool
	placeholders map[string]bool
}

func newCursor(opts Options) *cursor {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ph := opts.Placeholders
	if ph == nil {
		ph = DefaultPlaceholders
	}
	set := make(map[string]bool, len(ph))
	for _, p := range ph {
		set[strings.ToLower(p)] = true
	}
	return &cursor{log: log, dotted: opts.DottedDashes, placeholders: set}
}

// tree reconstructs one structural tree. Every element produced is
// translated by off and tagged with a group id freshly generated for the
// tree, appended after any inner group tags. When none of the structural
// groups are present the flat fallback scan runs instead, untagged.
func (c *cursor) tree(root *html.Node, off f64.Vec2) []scene.Element {
	edgePaths := svgdom.FindClass(root, "g", "edgePaths")
	edgeLabels := svgdom.FindClass(root, "g", "edgeLabels")
	nodes := svgdom.FindClass(root, "g", "nodes")
	clusters := svgdom.FindClass(root, "g", "clusters")

	if edgePaths == nil && edgeLabels == nil && nodes == nil && clusters == nil {
		return c.fallback(root, off)
	}

	var els []scene.Element

	if edgePaths != nil {
		// newer renderers emit bare paths, older ones wrap each in a group
		for i, p := range svgdom.ChildrenTag(edgePaths, "path") {
			el, err := c.edgePath(p, fmt.Sprintf("root-edgepath-%d", i))
			if err != nil {
				c.log.Warn("skipping edge", zap.String("id", svgdom.Attr(p, "id")), zap.Error(err))
				continue
			}
			els = append(els, el)
		}
		for _, g := range svgdom.ChildrenClass(edgePaths, "g", "edgePath") {
			el, err := c.edgePath(g, "")
			if err != nil {
				c.log.Warn("skipping edge", zap.String("id", svgdom.Attr(g, "id")), zap.Error(err))
				continue
			}
			els = append(els, el)
		}
	}

	if edgeLabels != nil {
		for _, g := range svgdom.ChildrenClass(edgeLabels, "g", "edgeLabel") {
			els = append(els, c.edgeLabel(g)...)
		}
	}

	if nodes != nil {
		for _, child := range svgdom.Children(nodes) {
			switch {
			case svgdom.Is(child, "g") && (svgdom.HasClass(child, "node") || svgdom.HasClass(child, "root")):
				els = append(els, c.node(child)...)
			case svgdom.Is(child, "a"):
				els = append(els, c.link(child)...)
			}
		}
	}

	if clusters != nil {
		for _, g := range svgdom.ChildrenClass(clusters, "g", "cluster") {
			els = append(els, c.cluster(g)...)
		}
	}

	treeID := scene.NewID()
	for i := range els {
		els[i].X += off[0]
		els[i].Y += off[1]
		els[i].GroupIDs = append(els[i].GroupIDs, treeID)
	}
	return els
}

// fallback is the flat scan for unrecognized diagram kinds: top level
// shapes become elements, bare groups are descended through with their
// translation applied, and nothing is grouped or bound. Lossy on purpose.
func (c *cursor) fallback(root *html.Node, off f64.Vec2) []scene.Element {
	var els []scene.Element
	for _, child := range svgdom.Children(root) {
		switch {
		case svgdom.Is(child, "g"):
			dx, dy := svgdom.ParseTranslate(svgdom.Attr(child, "transform"))
			els = append(els, c.fallback(child, f64.Vec2{off[0] + dx, off[1] + dy})...)
		case svgdom.Is(child, "rect"):
			el := c.rectangle(child)
			el.X += off[0]
			el.Y += off[1]
			els = append(els, el)
		case svgdom.Is(child, "path"):
			el, err := c.pathShape(child, off[0], off[1])
			if err != nil {
				c.log.Warn("skipping path", zap.Error(err))
				continue
			}
			els = append(els, el)
		case svgdom.Is(child, "text"):
			content := svgdom.Text(child)
			if content == "" || c.placeholders[strings.ToLower(content)] {
				continue
			}
			el := scene.NewElement(scene.TypeText)
			el.X = off[0] + c.length(child, "x")
			el.Y = off[1] + c.length(child, "y")
			el.Text = content
			el.OriginalText = content
			el.FontSize = 16
			el.FontFamily = 2
			el.TextAlign = scene.AlignLeft
			el.VerticalAlign = scene.AlignTop
			els = append(els, el)
		}
	}
	return els
}

// length reads a numeric attribute, logging and zeroing anything that does
// not parse. Geometry degrades instead of failing.
func (c *cursor) length(n *html.Node, key string) float64 {
	v, ok := svgdom.Lookup(n, key)
	if !ok {
		return 0
	}
	f, err := svgdom.ParseLength(v)
	if err != nil {
		c.log.Debug("degenerate length", zap.String("attr", key), zap.String("value", v))
	}
	return f
}
