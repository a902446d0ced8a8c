package scene

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/math/f64"
)

// Element is one scene object. The field order below is the wire order:
// the shared fields are always serialized, the optional block only when
// set. Points are stored relative to the element's (x, y) anchor.
type Element struct {
	ID              string      `json:"id"`
	Type            ElementType `json:"type"`
	X               float64     `json:"x"`
	Y               float64     `json:"y"`
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	Angle           float64     `json:"angle"`
	FillStyle       FillStyle   `json:"fillStyle"`
	StrokeWidth     int         `json:"strokeWidth"`
	StrokeStyle     StrokeStyle `json:"strokeStyle"`
	Roughness       int         `json:"roughness"`
	Opacity         float64     `json:"opacity"`
	GroupIDs        []string    `json:"groupIds"`
	StrokeSharpness Sharpness   `json:"strokeSharpness"`
	Seed            int64       `json:"seed"`
	Version         int         `json:"version"`
	VersionNonce    int64       `json:"versionNonce"`
	IsDeleted       bool        `json:"isDeleted"`
	Updated         int64       `json:"updated"`
	BackgroundColor string      `json:"backgroundColor"`
	StrokeColor     string      `json:"strokeColor"`

	BoundElements      []BoundElement `json:"boundElements,omitempty"`
	Link               string         `json:"link,omitempty"`
	Points             []f64.Vec2     `json:"points,omitempty"`
	LastCommittedPoint *f64.Vec2      `json:"lastCommittedPoint,omitempty"`
	StartBinding       *Binding       `json:"startBinding,omitempty"`
	EndBinding         *Binding       `json:"endBinding,omitempty"`
	StartArrowhead     Arrowhead      `json:"startArrowhead,omitempty"`
	EndArrowhead       Arrowhead      `json:"endArrowhead,omitempty"`
	Text               string         `json:"text,omitempty"`
	FontSize           float64        `json:"fontSize,omitempty"`
	FontFamily         int            `json:"fontFamily,omitempty"`
	TextAlign          TextAlign      `json:"textAlign,omitempty"`
	VerticalAlign      VerticalAlign  `json:"verticalAlign,omitempty"`
	Baseline           float64        `json:"baseline,omitempty"`
	ContainerID        string         `json:"containerId,omitempty"`
	OriginalText       string         `json:"originalText,omitempty"`
	Pressures          []float64      `json:"pressures,omitempty"`
	SimulatePressure   bool           `json:"simulatePressure,omitempty"`
	Status             string         `json:"status,omitempty"`
	FileID             string         `json:"fileId,omitempty"`
	Scale              []float64      `json:"scale,omitempty"`
}

// Binding attaches a line ending to another element.
type Binding struct {
	ElementID string  `json:"elementId"`
	Focus     float64 `json:"focus"`
	Gap       float64 `json:"gap"`
}

// BoundElement is the reciprocal side of a binding, kept on the container.
type BoundElement struct {
	ID   string      `json:"id"`
	Type ElementType `json:"type"`
}

// MissingFieldError is returned when a wire object lacks a required key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("scene: missing required field %q", e.Field)
}

// NewID returns a fresh 16 character hex identifier, used for element and
// group ids alike.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:8])
}

// NewElement returns an element of the given type with a fresh id, seed and
// version nonce, and the whiteboard defaults for everything else.
func NewElement(t ElementType) Element {
	return Element{
		ID:              NewID(),
		Type:            t,
		FillStyle:       FillHachure,
		StrokeWidth:     1,
		StrokeStyle:     StrokeSolid,
		Roughness:       0,
		Opacity:         100,
		GroupIDs:        []string{},
		StrokeSharpness: SharpnessSharp,
		Seed:            int64(rand.Int31()),
		Version:         1,
		VersionNonce:    int64(rand.Int31()),
		Updated:         time.Now().UnixMilli(),
		BackgroundColor: "transparent",
		StrokeColor:     "#000000",
	}
}

// requiredElementKeys are the shared fields every serialized element carries.
var requiredElementKeys = [...]string{
	"id", "type", "x", "y", "width", "height", "angle", "fillStyle",
	"strokeWidth", "strokeStyle", "roughness", "opacity", "groupIds",
	"strokeSharpness", "seed", "version", "versionNonce", "isDeleted",
	"updated", "backgroundColor", "strokeColor",
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range requiredElementKeys {
		if _, ok := raw[key]; !ok {
			return &MissingFieldError{Field: key}
		}
	}
	type element Element // drops this method
	var out element
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*e = Element(out)
	if e.GroupIDs == nil {
		e.GroupIDs = []string{}
	}
	return nil
}
