// Package aperture describes the transmitting region of a diffracting screen.
//
// Each shape bounds the transverse x coordinate as a function of y, so a
// shape together with an interval of y values describes a region that
// [quad.Double] can integrate over.
package aperture

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrDomain indicates a bound evaluated outside the range where the shape is
// defined.
var ErrDomain = errors.New("aperture: coordinate outside shape domain")

var sqrt3 = math.Sqrt(3)

type Kind int

const (
	KindCircle Kind = iota
	KindSquare
	KindTriangle
)

var kindNames = map[Kind]string{
	KindCircle:   "circle",
	KindSquare:   "square",
	KindTriangle: "triangle",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the full shape name or its first letter.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if s == name || (len(s) == 1 && s[0] == name[0]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown aperture shape: %q", s)
}

// Kinds lists all shapes in declaration order.
func Kinds() []Kind {
	return []Kind{KindCircle, KindSquare, KindTriangle}
}

// Shape yields the lower and upper x bound of the aperture at height y.
type Shape interface {
	Kind() Kind
	Bounds(y float64) (lower, upper float64, err error)
}

// New builds the shape of the given kind with characteristic half-extent r.
func New(kind Kind, r float64) (Shape, error) {
	if !(r > 0) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("aperture: half-extent must be positive and finite, got %g", r)
	}
	switch kind {
	case KindCircle:
		return Circle{Radius: r}, nil
	case KindSquare:
		return Square{HalfWidth: r}, nil
	case KindTriangle:
		return Triangle{HalfBase: r}, nil
	}
	return nil, fmt.Errorf("aperture: unsupported kind %v", kind)
}

type Circle struct {
	Radius float64
}

func (c Circle) Kind() Kind { return KindCircle }

// Bounds returns ±sqrt(r²-y²). |y| > r is a domain error.
func (c Circle) Bounds(y float64) (float64, float64, error) {
	if math.IsNaN(y) || math.Abs(y) > c.Radius {
		return 0, 0, fmt.Errorf("%w: circle radius %g, y=%g", ErrDomain, c.Radius, y)
	}
	half := math.Sqrt(math.Max(0, c.Radius*c.Radius-y*y))
	return -half, half, nil
}

type Square struct {
	HalfWidth float64
}

func (s Square) Kind() Kind { return KindSquare }

func (s Square) Bounds(float64) (float64, float64, error) {
	return -s.HalfWidth, s.HalfWidth, nil
}

// Triangle is equilateral with its apex up. Bounds are (y-r)/√3 and
// (r-y)/√3, which cross at y = r.
type Triangle struct {
	HalfBase float64
}

func (t Triangle) Kind() Kind { return KindTriangle }

func (t Triangle) Bounds(y float64) (float64, float64, error) {
	return (y - t.HalfBase) / sqrt3, (t.HalfBase - y) / sqrt3, nil
}
