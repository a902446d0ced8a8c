package svgpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f64"
)

func TestParseMoveAndLines(t *testing.T) {
	p, err := Parse("M 10 20 L 30 40 L 50 20")
	require.NoError(t, err)

	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 20.0, p.Y)
	assert.Equal(t, []f64.Vec2{{0, 0}, {20, 20}, {40, 0}}, p.Points)
	assert.Equal(t, 40.0, p.Width)
	assert.Equal(t, 20.0, p.Height)
	assert.Equal(t, f64.Vec2{40, 0}, p.End())
}

func TestParseRelativeLines(t *testing.T) {
	p, err := Parse("M10,10 l5,5 l-2,3")
	require.NoError(t, err)

	assert.Equal(t, []f64.Vec2{{0, 0}, {5, 5}, {3, 8}}, p.Points)
	assert.Equal(t, 5.0, p.Width)
	assert.Equal(t, 8.0, p.Height)
}

func TestParseImplicitRepeat(t *testing.T) {
	p, err := Parse("M0,0 L10,0 20,0")
	require.NoError(t, err)

	assert.Equal(t, []f64.Vec2{{0, 0}, {10, 0}, {20, 0}}, p.Points)
}

func TestParseCubicSampling(t *testing.T) {
	p, err := Parse("M0,0 C 10,0 20,10 30,10")
	require.NoError(t, err)

	// One leading {0,0} plus eleven curve samples.
	require.Len(t, p.Points, 12)
	assert.Equal(t, f64.Vec2{0, 0}, p.Points[0])
	assert.Equal(t, f64.Vec2{30, 10}, p.Points[11])

	// The first sample sits on the first control point, the midpoint
	// interpolates across all three.
	assert.Equal(t, f64.Vec2{10, 0}, p.Points[1])
	assert.InDelta(t, 20.0, p.Points[6][0], 1e-9)
	assert.InDelta(t, 7.5, p.Points[6][1], 1e-9)
	assert.InDelta(t, 12.0, p.Points[2][0], 1e-9)
	assert.InDelta(t, 1.9, p.Points[2][1], 1e-9)
}

func TestParseCubicAligned(t *testing.T) {
	// All three x coordinates equal: the segment reduces to its endpoint.
	p, err := Parse("M0,0 C 10,0 10,5 10,20")
	require.NoError(t, err)

	assert.Equal(t, []f64.Vec2{{0, 0}, {10, 20}}, p.Points)
}

func TestParseArcs(t *testing.T) {
	p, err := Parse("M0,0 A 5 5 0 0 1 10 10")
	require.NoError(t, err)
	assert.Equal(t, []f64.Vec2{{0, 0}, {10, 10}}, p.Points)

	p, err = Parse("M10,10 a 5 5 0 0 1 5 -5")
	require.NoError(t, err)
	assert.Equal(t, []f64.Vec2{{0, 0}, {5, -5}}, p.Points)
}

func TestParseClose(t *testing.T) {
	p, err := Parse("M5,5 L10,10 Z L20,20")
	require.NoError(t, err)

	// Z returns to the anchor and ends the path; the trailing line is
	// not consumed.
	assert.Equal(t, []f64.Vec2{{0, 0}, {5, 5}, {0, 0}}, p.Points)
}

func TestParseExponents(t *testing.T) {
	p, err := Parse("M 1e1 2E1 L 1e-1 0")
	require.NoError(t, err)

	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 20.0, p.Y)
	require.Len(t, p.Points, 2)
	assert.InDelta(t, -9.9, p.Points[1][0], 1e-9)
	assert.InDelta(t, -20.0, p.Points[1][1], 1e-9)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want error
	}{
		{"empty", "", ErrEmptyPath},
		{"blank", "  \n ", ErrEmptyPath},
		{"no move", "L10,10", ErrNoMove},
		{"unknown command", "M0,0 Q 1 2 3 4", ErrUnknownCommand},
		{"bad number", "M 0 x", ErrBadNumber},
		{"truncated", "M 10", ErrBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.d)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseErrorToken(t *testing.T) {
	_, err := Parse("M0,0 Q 1 2 3 4")
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Q", serr.Token)

	_, err = Parse("M 10")
	require.ErrorAs(t, err, &serr)
	assert.Empty(t, serr.Token)
	assert.Contains(t, err.Error(), "end of path")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		d    string
		want []string
	}{
		{"M1.5-2.5", []string{"M", "1.5", "-2.5"}},
		{"1e-5 2", []string{"1e-5", "2"}},
		{"1.5.5", []string{"1.5", ".5"}},
		{"M-1-2", []string{"M", "-1", "-2"}},
		{"M 0,0\tL\n1,1", []string{"M", "0", "0", "L", "1", "1"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.d), "tokenize(%q)", tt.d)
	}
}
