package graphpaste

import (
	"strings"

	"github.com/nottheswimmer/graphpaste/scene"
)

// graphKeywords mark a first line as a diagram description.
var graphKeywords = []string{
	"graph", "flowchart", "sequenceDiagram", "classDiagram", "stateDiagram",
	"erDiagram", "journey", "gantt", "pie", "mindmap", "timeline",
}

// NormalizeGraph trims text and repairs slips that commonly sneak into a
// hand-typed graph: a stray colon after the graph keyword, and single
// dashes or single arrows where the renderer wants doubled ones.
func NormalizeGraph(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "graph:", "graph")
	text = strings.ReplaceAll(text, " -> ", " --> ")
	text = strings.ReplaceAll(text, " - ", " -- ")
	return text
}

// LooksLikeGraph reports whether the first non-empty line of text names a
// known diagram type. Scene payloads can embed such text, so callers that
// handle both should try GraphFromScene first.
func LooksLikeGraph(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, kw := range graphKeywords {
			if strings.Contains(line, kw) {
				return true
			}
		}
		return false
	}
	return false
}

// GraphFromScene extracts the diagram description embedded in a scene
// clipboard payload, so an element copied back out of the whiteboard can
// be rendered again. Reports false when payload is not such a payload or
// carries no description.
func GraphFromScene(payload []byte) (string, bool) {
	if !strings.Contains(string(payload), scene.ClipboardType) {
		return "", false
	}
	doc, err := scene.Decode(payload)
	if err != nil {
		return "", false
	}
	if len(doc.Elements) == 0 {
		return "", false
	}
	graph := strings.TrimSpace(doc.Elements[0].OriginalText)
	if graph == "" {
		return "", false
	}
	return graph, true
}
