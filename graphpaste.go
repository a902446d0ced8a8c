// Converts textual diagram descriptions into whiteboard scene documents.
// A graph is rendered to SVG by a remote service and the returned markup is
// reconstructed into typed scene elements, ready to be written to a scene
// file or pasted into the whiteboard.
package graphpaste

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nottheswimmer/graphpaste/mermaid"
	"github.com/nottheswimmer/graphpaste/scene"
	"github.com/nottheswimmer/graphpaste/svgscene"
)

// ErrNoDiagram reports that nothing was reconstructed: the graph was
// empty, the renderer rejected it, or the markup held no recognizable
// content.
var ErrNoDiagram = errors.New("graphpaste: no diagram found")

// Renderer turns a graph description into SVG markup. An empty result
// with a nil error means the renderer had nothing to draw.
type Renderer interface {
	Render(ctx context.Context, graph string) (string, error)
}

var _ Renderer = (*mermaid.Client)(nil)

// Converter drives the pipeline from graph text to scene document.
type Converter struct {
	log      *zap.Logger
	renderer Renderer
	source   string
	engine   svgscene.Options
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger shared by the converter, the reconstruction
// engine and the default renderer.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) { c.log = log }
}

// WithRenderer replaces the default mermaid.ink client.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) { c.renderer = r }
}

// WithSource sets the source URL stamped on produced documents.
func WithSource(source string) Option {
	return func(c *Converter) { c.source = source }
}

// WithDottedDashes maps dash patterns to dotted strokes instead of
// dashed ones.
func WithDottedDashes(dotted bool) Option {
	return func(c *Converter) { c.engine.DottedDashes = dotted }
}

// WithPlaceholders overrides the placeholder strings dropped from
// reconstructed text.
func WithPlaceholders(placeholders []string) Option {
	return func(c *Converter) { c.engine.Placeholders = placeholders }
}

// New returns a Converter. Without options it logs nowhere and renders
// through the public mermaid.ink endpoint.
func New(opts ...Option) *Converter {
	c := &Converter{
		log:    zap.NewNop(),
		source: scene.DefaultSource,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine.Logger = c.log
	if c.renderer == nil {
		c.renderer = mermaid.NewClient(mermaid.WithLogger(c.log))
	}
	return c
}

// Convert renders graph and reconstructs the result. Common syntax slips
// are repaired first; see NormalizeGraph.
func (c *Converter) Convert(ctx context.Context, graph string) (*scene.Document, error) {
	fixed := NormalizeGraph(graph)
	if fixed == "" {
		return nil, ErrNoDiagram
	}
	if fixed != strings.TrimSpace(graph) {
		c.log.Warn("adjusted graph syntax before rendering")
	}
	svg, err := c.renderer.Render(ctx, fixed)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(svg) == "" {
		return nil, ErrNoDiagram
	}
	return c.ConvertSVG(svg)
}

// ConvertSVG reconstructs a scene document from already rendered markup.
func (c *Converter) ConvertSVG(markup string) (*scene.Document, error) {
	elements, err := svgscene.ReadString(markup, c.engine)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, ErrNoDiagram
	}
	doc := scene.NewDocument()
	doc.Source = c.source
	doc.Elements = elements
	return doc, nil
}
