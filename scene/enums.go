package scene

import (
	"encoding/json"
	"fmt"
)

// ElementType partitions scene elements into the shapes a whiteboard
// understands.
type ElementType string

const (
	TypeArrow     ElementType = "arrow"
	TypeDiamond   ElementType = "diamond"
	TypeEllipse   ElementType = "ellipse"
	TypeFreeDraw  ElementType = "freedraw"
	TypeImage     ElementType = "image"
	TypeLine      ElementType = "line"
	TypeRectangle ElementType = "rectangle"
	TypeText      ElementType = "text"
)

// FillStyle selects the hatching used to fill a shape.
type FillStyle string

const (
	FillCrossHatch FillStyle = "cross-hatch"
	FillHachure    FillStyle = "hachure"
	FillSolid      FillStyle = "solid"
)

// StrokeStyle selects the dash pattern of a stroke.
type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
	StrokeDotted StrokeStyle = "dotted"
)

// Sharpness selects square or rounded corners.
type Sharpness string

const (
	SharpnessRound Sharpness = "round"
	SharpnessSharp Sharpness = "sharp"
)

// Arrowhead is the decoration drawn at a line ending.
type Arrowhead string

const (
	ArrowheadArrow    Arrowhead = "arrow"
	ArrowheadBar      Arrowhead = "bar"
	ArrowheadDot      Arrowhead = "dot"
	ArrowheadTriangle Arrowhead = "triangle"
)

// TextAlign is the horizontal alignment of a text element.
type TextAlign string

const (
	AlignCenter TextAlign = "center"
	AlignLeft   TextAlign = "left"
	AlignRight  TextAlign = "right"
)

// VerticalAlign is the vertical alignment of a text element.
type VerticalAlign string

const (
	AlignBottom VerticalAlign = "bottom"
	AlignMiddle VerticalAlign = "middle"
	AlignTop    VerticalAlign = "top"
)

// EnumError is returned when a wire value is outside the closed set its
// field allows.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("scene: unrecognized %s %q", e.Field, e.Value)
}

// enumString decodes a JSON string and checks membership, tolerating an
// explicit null (left as the zero value, meaning unset).
func enumString(data []byte, field string, allowed ...string) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", &EnumError{Field: field, Value: s}
}

func (t *ElementType) UnmarshalJSON(data []byte) error {
	s, err := enumString(data, "type",
		string(TypeArrow), string(TypeDiamond), string(TypeEllipse),
		string(TypeFreeDraw), string(TypeImage), string(TypeLine),
		string(TypeRectangle), string(TypeText))
	*t = ElementType(s)
	return err
}

func (f *FillStyle) UnmarshalJSON(data []byte) error {
	s, err := enumString(data, "fillStyle",
		string(FillCrossHatch), string(FillHachure), string(FillSolid))
	*f = FillStyle(s)
	return err
}

func (s *StrokeStyle) UnmarshalJSON(data []byte) error {
	v, err := enumString(data, "strokeStyle",
		string(StrokeSolid), string(StrokeDashed), string(StrokeDotted))
	*s = StrokeStyle(v)
	return err
}

func (s *Sharpness) UnmarshalJSON(data []byte) error {
	v, err := enumString(data, "strokeSharpness",
		string(SharpnessRound), string(SharpnessSharp))
	*s = Sharpness(v)
	return err
}

func (a *Arrowhead) UnmarshalJSON(data []byte) error {
	s, err := enumString(data, "arrowhead",
		string(ArrowheadArrow), string(ArrowheadBar),
		string(ArrowheadDot), string(ArrowheadTriangle))
	*a = Arrowhead(s)
	return err
}

func (t *TextAlign) UnmarshalJSON(data []byte) error {
	s, err := enumString(data, "textAlign",
		string(AlignCenter), string(AlignLeft), string(AlignRight))
	*t = TextAlign(s)
	return err
}

func (v *VerticalAlign) UnmarshalJSON(data []byte) error {
	s, err := enumString(data, "verticalAlign",
		string(AlignBottom), string(AlignMiddle), string(AlignTop))
	*v = VerticalAlign(s)
	return err
}
