// Defines the whiteboard scene document model: typed elements, their
// bindings, and the JSON wire form understood by Excalidraw compatible
// applications. Documents are built by the reconstruction engine and can be
// encoded, decoded and validated without any drawing backend.
package scene

import (
	"encoding/json"
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DocumentType marks a scene file, ClipboardType a clipboard payload.
	DocumentType  = "excalidraw"
	ClipboardType = "excalidraw/clipboard"

	// DocumentVersion is the wire format revision this model implements.
	DocumentVersion = 2

	// DefaultSource identifies documents produced by this module.
	DefaultSource = "https://nottheswimmer.org"

	// defaultDecodeSource is assumed for imported documents that omit theirs.
	defaultDecodeSource = "https://excalidraw.com"

	defaultBackground = "#ffffff"
)

// Document is a whole scene: elements plus application state and any
// embedded files, keyed by file id.
type Document struct {
	Type     string          `json:"type"`
	Version  int             `json:"version"`
	Source   string          `json:"source"`
	Elements []Element       `json:"elements"`
	AppState AppState        `json:"appState"`
	Files    map[string]File `json:"files"`
}

// AppState is the viewer state carried alongside the elements. GridSize is
// serialized as an explicit null when unset.
type AppState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
	GridSize            *int   `json:"gridSize"`
}

// File is an embedded binary, typically an image referenced by an image
// element through its file id.
type File struct {
	MimeType string `json:"mimeType"`
	ID       string `json:"id"`
	DataURL  string `json:"dataURL"`
	Created  int64  `json:"created"`
}

// NewDocument returns an empty scene with the writer defaults.
func NewDocument() *Document {
	return &Document{
		Type:     DocumentType,
		Version:  DocumentVersion,
		Source:   DefaultSource,
		Elements: []Element{},
		AppState: AppState{ViewBackgroundColor: defaultBackground},
		Files:    map[string]File{},
	}
}

// Encode serializes the document. Encoding is deterministic: the same
// document always yields the same bytes, with required fields in a fixed
// order and unset optional fields omitted entirely. Nil collections are
// encoded as their empty forms without touching the receiver.
func (d *Document) Encode() ([]byte, error) {
	doc := *d
	doc.Elements = make([]Element, len(d.Elements))
	copy(doc.Elements, d.Elements)
	for i := range doc.Elements {
		if doc.Elements[i].GroupIDs == nil {
			doc.Elements[i].GroupIDs = []string{}
		}
	}
	if doc.Files == nil {
		doc.Files = map[string]File{}
	}
	return json.Marshal(&doc)
}

// Decode parses and validates a scene document. Element enum fields outside
// their closed sets and missing shared fields are decode errors; optional
// fields default sensibly.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range [...]string{"type", "elements", "files"} {
		if _, ok := raw[key]; !ok {
			return &MissingFieldError{Field: key}
		}
	}
	type document Document
	out := document{
		Version:  DocumentVersion,
		Source:   defaultDecodeSource,
		AppState: AppState{ViewBackgroundColor: defaultBackground},
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*d = Document(out)
	if d.Elements == nil {
		d.Elements = []Element{}
	}
	if d.Files == nil {
		d.Files = map[string]File{}
	}
	return nil
}

func (a *AppState) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 { // null or {} keep the defaults
		*a = AppState{ViewBackgroundColor: defaultBackground}
		return nil
	}
	for _, key := range [...]string{"viewBackgroundColor", "gridSize"} {
		if _, ok := raw[key]; !ok {
			return &MissingFieldError{Field: key}
		}
	}
	type appState AppState
	var out appState
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*a = AppState(out)
	return nil
}

// Validate checks the document invariants that are not already enforced
// during decoding.
func (d *Document) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Type, validation.Required),
		validation.Field(&d.Version, validation.Required, validation.Min(1)),
		validation.Field(&d.Source, validation.Required),
		validation.Field(&d.Elements, validation.By(validElements)),
	)
}

func validElements(value interface{}) error {
	els, _ := value.([]Element)
	seen := make(map[string]bool, len(els))
	for i := range els {
		el := &els[i]
		if el.ID == "" {
			return fmt.Errorf("element %d: empty id", i)
		}
		if seen[el.ID] {
			return fmt.Errorf("element %d: duplicate id %s", i, el.ID)
		}
		seen[el.ID] = true
		for _, v := range [...]float64{el.X, el.Y, el.Width, el.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("element %d (%s): non-finite geometry", i, el.ID)
			}
		}
		for _, b := range [...]*Binding{el.StartBinding, el.EndBinding} {
			if b != nil && b.ElementID == "" {
				return fmt.Errorf("element %d (%s): binding without target", i, el.ID)
			}
		}
	}
	return nil
}
