package scene

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewElementDefaults(t *testing.T) {
	el := NewElement(TypeRectangle)

	assert.Len(t, el.ID, 16)
	_, err := hex.DecodeString(el.ID)
	assert.NoError(t, err)

	assert.Equal(t, TypeRectangle, el.Type)
	assert.Equal(t, FillHachure, el.FillStyle)
	assert.Equal(t, 1, el.StrokeWidth)
	assert.Equal(t, StrokeSolid, el.StrokeStyle)
	assert.Equal(t, 0, el.Roughness)
	assert.Equal(t, 100.0, el.Opacity)
	assert.Equal(t, SharpnessSharp, el.StrokeSharpness)
	assert.Equal(t, 1, el.Version)
	assert.Equal(t, "transparent", el.BackgroundColor)
	assert.Equal(t, "#000000", el.StrokeColor)
	assert.NotNil(t, el.GroupIDs)
	assert.Empty(t, el.GroupIDs)
	assert.Positive(t, el.Updated)
	assert.GreaterOrEqual(t, el.Seed, int64(0))
	assert.False(t, el.IsDeleted)
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

// wireElement builds a minimal valid wire object, with overrides applied
// as raw JSON fragments.
func wireElement(t *testing.T, overrides map[string]string) []byte {
	t.Helper()
	fields := map[string]string{
		"id": `"abcd1234abcd1234"`, "type": `"rectangle"`,
		"x": "10", "y": "20", "width": "30", "height": "40",
		"angle": "0", "fillStyle": `"hachure"`, "strokeWidth": "1",
		"strokeStyle": `"solid"`, "roughness": "0", "opacity": "100",
		"groupIds": "[]", "strokeSharpness": `"sharp"`, "seed": "7",
		"version": "1", "versionNonce": "8", "isDeleted": "false",
		"updated": "1700000000000", "backgroundColor": `"transparent"`,
		"strokeColor": `"#000000"`,
	}
	for k, v := range overrides {
		if v == "" {
			delete(fields, k)
		} else {
			fields[k] = v
		}
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, `"`+k+`":`+v)
	}
	return []byte("{" + strings.Join(parts, ",") + "}")
}

func TestElementDecode(t *testing.T) {
	var el Element
	require.NoError(t, json.Unmarshal(wireElement(t, nil), &el))

	assert.Equal(t, "abcd1234abcd1234", el.ID)
	assert.Equal(t, TypeRectangle, el.Type)
	assert.Equal(t, 10.0, el.X)
	assert.Equal(t, 40.0, el.Height)
	assert.Equal(t, []string{}, el.GroupIDs)
}

func TestElementDecodeMissingField(t *testing.T) {
	for _, key := range []string{"seed", "groupIds", "updated", "strokeColor"} {
		t.Run(key, func(t *testing.T) {
			var el Element
			err := json.Unmarshal(wireElement(t, map[string]string{key: ""}), &el)
			var merr *MissingFieldError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, key, merr.Field)
		})
	}
}

func TestElementDecodeNullGroupIDs(t *testing.T) {
	var el Element
	err := json.Unmarshal(wireElement(t, map[string]string{"groupIds": "null"}), &el)
	require.NoError(t, err)
	assert.NotNil(t, el.GroupIDs)
	assert.Empty(t, el.GroupIDs)
}

func TestElementDecodeRejectsUnknownEnum(t *testing.T) {
	tests := []struct {
		key   string
		value string
		field string
	}{
		{"fillStyle", `"zigzag"`, "fillStyle"},
		{"type", `"blob"`, "type"},
		{"strokeStyle", `"wavy"`, "strokeStyle"},
		{"strokeSharpness", `"fuzzy"`, "strokeSharpness"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			var el Element
			err := json.Unmarshal(wireElement(t, map[string]string{tt.key: tt.value}), &el)
			var eerr *EnumError
			require.ErrorAs(t, err, &eerr)
			assert.Equal(t, tt.field, eerr.Field)
			assert.Contains(t, eerr.Error(), eerr.Value)
		})
	}
}

func TestElementDecodeNullArrowhead(t *testing.T) {
	// Real documents serialize unset arrowheads as explicit nulls.
	var el Element
	data := wireElement(t, map[string]string{"startArrowhead": "null", "endArrowhead": `"triangle"`})
	require.NoError(t, json.Unmarshal(data, &el))
	assert.Equal(t, Arrowhead(""), el.StartArrowhead)
	assert.Equal(t, ArrowheadTriangle, el.EndArrowhead)
}

func TestElementOptionalOmitted(t *testing.T) {
	el := NewElement(TypeLine)
	el.Updated = 1700000000000

	data, err := json.Marshal(el)
	require.NoError(t, err)

	for _, key := range []string{"points", "text", "startBinding", "endArrowhead", "link", "boundElements"} {
		assert.NotContains(t, string(data), `"`+key+`"`)
	}
	for _, key := range requiredElementKeys {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
}
