package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalDoc is a document exactly as Encode produces it: fixed key
// order, optionals omitted, gridSize an explicit null.
const canonicalDoc = `{"type":"excalidraw","version":2,"source":"https://nottheswimmer.org",` +
	`"elements":[{"id":"abcd1234abcd1234","type":"rectangle","x":10,"y":20,"width":30,"height":40,` +
	`"angle":0,"fillStyle":"hachure","strokeWidth":1,"strokeStyle":"solid","roughness":0,` +
	`"opacity":100,"groupIds":["g1"],"strokeSharpness":"sharp","seed":7,"version":1,` +
	`"versionNonce":8,"isDeleted":false,"updated":1700000000000,"backgroundColor":"transparent",` +
	`"strokeColor":"#000000"}],` +
	`"appState":{"viewBackgroundColor":"#ffffff","gridSize":null},"files":{}}`

func TestDocumentRoundTrip(t *testing.T) {
	doc, err := Decode([]byte(canonicalDoc))
	require.NoError(t, err)

	out, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, canonicalDoc, string(out))
}

func TestDocumentEncodeStable(t *testing.T) {
	doc := NewDocument()
	el := NewElement(TypeEllipse)
	el.X, el.Y, el.Width, el.Height = 1, 2, 3, 4
	doc.Elements = append(doc.Elements, el)

	first, err := doc.Encode()
	require.NoError(t, err)

	decoded, err := Decode(first)
	require.NoError(t, err)
	second, err := decoded.Encode()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestNewDocumentDefaults(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, DocumentType, doc.Type)
	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, DefaultSource, doc.Source)
	assert.NotNil(t, doc.Elements)
	assert.NotNil(t, doc.Files)
	assert.Equal(t, "#ffffff", doc.AppState.ViewBackgroundColor)
	assert.Nil(t, doc.AppState.GridSize)
}

func TestDecodeDefaults(t *testing.T) {
	// version, source and appState may be omitted by other writers.
	doc, err := Decode([]byte(`{"type":"excalidraw","elements":[],"files":{}}`))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "https://excalidraw.com", doc.Source)
	assert.Equal(t, "#ffffff", doc.AppState.ViewBackgroundColor)
	assert.Nil(t, doc.AppState.GridSize)
	assert.NotNil(t, doc.Elements)
	assert.NotNil(t, doc.Files)
}

func TestDecodeNullCollections(t *testing.T) {
	doc, err := Decode([]byte(`{"type":"excalidraw","elements":null,"files":null,"appState":null}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.Elements)
	assert.NotNil(t, doc.Files)
	assert.Equal(t, "#ffffff", doc.AppState.ViewBackgroundColor)
}

func TestDecodeMissingDocumentField(t *testing.T) {
	tests := []struct {
		name string
		data string
		key  string
	}{
		{"no type", `{"elements":[],"files":{}}`, "type"},
		{"no elements", `{"type":"excalidraw","files":{}}`, "elements"},
		{"no files", `{"type":"excalidraw","elements":[]}`, "files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			var merr *MissingFieldError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.key, merr.Field)
		})
	}
}

func TestDecodePartialAppState(t *testing.T) {
	// A non-empty appState must carry both keys.
	data := `{"type":"excalidraw","elements":[],"files":{},"appState":{"viewBackgroundColor":"#fff"}}`
	_, err := Decode([]byte(data))
	var merr *MissingFieldError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "gridSize", merr.Field)
}

func TestDecodeGridSize(t *testing.T) {
	data := `{"type":"excalidraw","elements":[],"files":{},"appState":{"viewBackgroundColor":"#ffffff","gridSize":20}}`
	doc, err := Decode([]byte(data))
	require.NoError(t, err)
	require.NotNil(t, doc.AppState.GridSize)
	assert.Equal(t, 20, *doc.AppState.GridSize)

	out, err := doc.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"gridSize":20`)
}

func TestDecodeClipboardPayload(t *testing.T) {
	data := `{"type":"excalidraw/clipboard","elements":[],"files":{}}`
	doc, err := Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, ClipboardType, doc.Type)
}

func TestValidateRejectsBrokenElements(t *testing.T) {
	valid := func() *Document {
		doc := NewDocument()
		el := NewElement(TypeRectangle)
		doc.Elements = append(doc.Elements, el)
		return doc
	}

	doc := valid()
	require.NoError(t, doc.Validate())

	doc = valid()
	doc.Elements[0].ID = ""
	assert.Error(t, doc.Validate())

	doc = valid()
	doc.Elements[0].Width = math.NaN()
	assert.Error(t, doc.Validate())

	doc = valid()
	doc.Elements[0].Y = math.Inf(1)
	assert.Error(t, doc.Validate())

	doc = valid()
	doc.Elements[0].StartBinding = &Binding{}
	assert.Error(t, doc.Validate())

	doc = valid()
	dup := doc.Elements[0]
	doc.Elements = append(doc.Elements, dup)
	assert.Error(t, doc.Validate())

	doc = valid()
	doc.Type = ""
	assert.Error(t, doc.Validate())
}

func TestEncodeNormalizesNilCollections(t *testing.T) {
	doc := &Document{
		Type:     DocumentType,
		Version:  DocumentVersion,
		Source:   DefaultSource,
		Elements: []Element{{ID: "x", Type: TypeLine}},
	}

	out, err := doc.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"groupIds":[]`)
	assert.Contains(t, string(out), `"files":{}`)

	// Normalization happens in the encoded form only.
	assert.Nil(t, doc.Files)
	assert.Nil(t, doc.Elements[0].GroupIDs)

	empty := &Document{Type: DocumentType, Version: DocumentVersion, Source: DefaultSource}
	out, err = empty.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"elements":[]`)
	assert.Nil(t, empty.Elements)
}
