package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/math/f64"
)

// Errors wrapped by SyntaxError. Each aborts the path it occurs in; callers
// decide whether to skip the enclosing unit or fail outright.
var (
	ErrEmptyPath      = errors.New("svgpath: empty path")
	ErrNoMove         = errors.New("svgpath: path must open with a move")
	ErrUnknownCommand = errors.New("svgpath: unknown path command")
	ErrBadNumber      = errors.New("svgpath: malformed number")
)

// SyntaxError reports the token that made path data unparseable.
type SyntaxError struct {
	Token string // offending token, "" when the data ended early
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%v at end of path", e.Err)
	}
	return fmt.Sprintf("%v %q", e.Err, e.Token)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// flattenStep is the parametric step used to sample curved segments.
const flattenStep = 0.1

// Parse parses path data into a flattened point run.
//
// M and L consume one absolute pair, l one pair relative to the cursor.
// C consumes two control points and an endpoint, all absolute, and is
// flattened. A and a consume the seven arc parameters and keep only the
// endpoint. Z appends {0, 0} and ends the path. A number where a command
// is expected repeats the previous command; any other letter fails the
// parse.
func Parse(d string) (Path, error) {
	sc := scanner{tokens: tokenize(d)}
	if len(sc.tokens) == 0 {
		return Path{}, ErrEmptyPath
	}

	head := sc.tokens[0]
	if !strings.EqualFold(head, "M") {
		return Path{}, &SyntaxError{Token: head, Err: ErrNoMove}
	}
	sc.i = 1
	anchor, err := sc.pair()
	if err != nil {
		return Path{}, err
	}

	p := Path{X: anchor[0], Y: anchor[1], Points: []f64.Vec2{{0, 0}}}
	cur := anchor
	cmd := byte('M')
loop:
	for sc.more() {
		if tok := sc.peek(); isCommand(tok) {
			cmd = tok[0]
			sc.i++
		}
		switch cmd {
		case 'M', 'L':
			pt, err := sc.pair()
			if err != nil {
				return Path{}, err
			}
			cur = pt
			p.Points = append(p.Points, sub(cur, anchor))
		case 'l':
			d, err := sc.pair()
			if err != nil {
				return Path{}, err
			}
			cur = f64.Vec2{cur[0] + d[0], cur[1] + d[1]}
			p.Points = append(p.Points, sub(cur, anchor))
		case 'C':
			c1, err := sc.pair()
			if err != nil {
				return Path{}, err
			}
			c2, err := sc.pair()
			if err != nil {
				return Path{}, err
			}
			end, err := sc.pair()
			if err != nil {
				return Path{}, err
			}
			if aligned(c1, c2, end) {
				p.Points = append(p.Points, sub(end, anchor))
			} else {
				p.Points = append(p.Points, flatten(sub(c1, anchor), sub(c2, anchor), sub(end, anchor))...)
			}
			cur = end
		case 'A', 'a':
			// rx ry rotation large-arc sweep x y: endpoint only
			for k := 0; k < 5; k++ {
				if _, err := sc.number(); err != nil {
					return Path{}, err
				}
			}
			end, err := sc.pair()
			if err != nil {
				return Path{}, err
			}
			if cmd == 'a' {
				end = f64.Vec2{cur[0] + end[0], cur[1] + end[1]}
			}
			cur = end
			p.Points = append(p.Points, sub(cur, anchor))
		case 'Z', 'z':
			p.Points = append(p.Points, f64.Vec2{0, 0})
			break loop
		default:
			return Path{}, &SyntaxError{Token: string(cmd), Err: ErrUnknownCommand}
		}
	}

	p.Width, p.Height = extent(p.Points)
	return p, nil
}

type scanner struct {
	tokens []string
	i      int
}

func (s *scanner) more() bool { return s.i < len(s.tokens) }

func (s *scanner) peek() string { return s.tokens[s.i] }

// number consumes one numeric token.
func (s *scanner) number() (float64, error) {
	if !s.more() {
		return 0, &SyntaxError{Err: ErrBadNumber}
	}
	tok := s.tokens[s.i]
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &SyntaxError{Token: tok, Err: ErrBadNumber}
	}
	s.i++
	return f, nil
}

// pair consumes two numeric tokens.
func (s *scanner) pair() (f64.Vec2, error) {
	x, err := s.number()
	if err != nil {
		return f64.Vec2{}, err
	}
	y, err := s.number()
	if err != nil {
		return f64.Vec2{}, err
	}
	return f64.Vec2{x, y}, nil
}

func isCommand(tok string) bool {
	if len(tok) != 1 {
		return false
	}
	c := tok[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// tokenize splits path data into command letters and number tokens.
// Numbers break on whitespace and commas; a minus starts a new token unless
// it follows an exponent marker; a second dot starts a new token. An e next
// to digits is an exponent, on its own it is a (bogus) command letter.
func tokenize(d string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			flush()
		case c == 'e' || c == 'E':
			if current.Len() > 0 {
				current.WriteByte(c)
			} else {
				tokens = append(tokens, string(c))
			}
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			flush()
			tokens = append(tokens, string(c))
		case c == '-':
			if current.Len() > 0 {
				last := current.String()[current.Len()-1]
				if last != 'e' && last != 'E' {
					flush()
				}
			}
			current.WriteByte(c)
		case c == '.':
			if strings.Contains(current.String(), ".") {
				flush()
			}
			current.WriteByte(c)
		default:
			current.WriteByte(c)
		}
	}
	flush()

	return tokens
}

// flatten samples the two control points and the endpoint of a cubic
// segment by repeated linear interpolation at flattenStep, rounding each
// coordinate to five decimals. The last sample is the endpoint itself.
func flatten(c1, c2, end f64.Vec2) []f64.Vec2 {
	steps := int(1/flattenStep) + 1
	out := make([]f64.Vec2, 0, steps)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		out = append(out, f64.Vec2{
			casteljau(t, c1[0], c2[0], end[0]),
			casteljau(t, c1[1], c2[1], end[1]),
		})
	}
	return out
}

// casteljau reduces control values to one by pairwise interpolation,
// rounding at every level.
func casteljau(t float64, vals ...float64) float64 {
	for len(vals) > 1 {
		next := make([]float64, len(vals)-1)
		for i := range next {
			next[i] = round5(vals[i]*(1-t) + vals[i+1]*t)
		}
		vals = next
	}
	return vals[0]
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

func sub(a, b f64.Vec2) f64.Vec2 {
	return f64.Vec2{a[0] - b[0], a[1] - b[1]}
}

// aligned reports whether the points share an x or a y coordinate.
func aligned(a, b, c f64.Vec2) bool {
	return (a[0] == b[0] && b[0] == c[0]) || (a[1] == b[1] && b[1] == c[1])
}
