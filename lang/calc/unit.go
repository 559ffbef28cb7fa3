package calc

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Dimension is an independent axis of a [Unit].
type Dimension int

// Dimensions.
const (
	Pixel Dimension = iota
	Percent
	Length
	Angle
	Time
	Frequency
	Resolution
	FontSize
	XHeight
	Grid
	RootFontSize
	ViewportWidth
	ViewportHeight
	ViewportMin
	ViewportMax
	CharWidth

	numDimensions
)

// Unit is a vector of integer exponents over the dimensions, with a scale
// factor to the canonical unit of the vector.
type Unit struct {
	token string
	scale float64
	exp   [numDimensions]int8
}

// Scalar is the dimensionless unit.
var Scalar = Unit{scale: 1}

func base(d Dimension, token string, scale float64) Unit {
	u := Unit{token: token, scale: scale}
	u.exp[d] = 1

	return u
}

// units maps every recognized CSS unit token to its Unit.
var units = map[string]Unit{
	"px":   base(Pixel, "px", 1),
	"%":    base(Percent, "%", 1),
	"pt":   base(Length, "pt", 1),
	"in":   base(Length, "in", 72),
	"cm":   base(Length, "cm", 72/2.54),
	"mm":   base(Length, "mm", 72/25.4),
	"q":    base(Length, "q", 72/101.6),
	"pc":   base(Length, "pc", 12),
	"deg":  base(Angle, "deg", 1),
	"rad":  base(Angle, "rad", 180 / math.Pi),
	"grad": base(Angle, "grad", 0.9),
	"turn": base(Angle, "turn", 360),
	"s":    base(Time, "s", 1),
	"ms":   base(Time, "ms", 0.001),
	"hz":   base(Frequency, "hz", 1),
	"khz":  base(Frequency, "khz", 1000),
	"dppx": base(Resolution, "dppx", 1),
	"x":    base(Resolution, "x", 1),
	"dpi":  base(Resolution, "dpi", 1.0/96),
	"dpcm": base(Resolution, "dpcm", 2.54/96),
	"em":   base(FontSize, "em", 1),
	"ex":   base(XHeight, "ex", 1),
	"fr":   base(Grid, "fr", 1),
	"rem":  base(RootFontSize, "rem", 1),
	"vw":   base(ViewportWidth, "vw", 1),
	"vh":   base(ViewportHeight, "vh", 1),
	"vmin": base(ViewportMin, "vmin", 1),
	"vmax": base(ViewportMax, "vmax", 1),
	"ch":   base(CharWidth, "ch", 1),
}

// canonical maps each pure dimension to the token its values are written
// with.
var canonical = [numDimensions]string{
	Pixel:          "px",
	Percent:        "%",
	Length:         "pt",
	Angle:          "deg",
	Time:           "s",
	Frequency:      "hz",
	Resolution:     "dppx",
	FontSize:       "em",
	XHeight:        "ex",
	Grid:           "fr",
	RootFontSize:   "rem",
	ViewportWidth:  "vw",
	ViewportHeight: "vh",
	ViewportMin:    "vmin",
	ViewportMax:    "vmax",
	CharWidth:      "ch",
}

// Lookup returns the unit for a CSS unit token. The empty token is
// [Scalar]. Tokens are matched case-insensitively.
func Lookup(token string) (Unit, bool) {
	if token == "" {
		return Scalar, true
	}

	u, ok := units[strings.ToLower(token)]

	return u, ok
}

// Compatible reports whether values in u and v can be added.
func (u Unit) Compatible(v Unit) bool { return u.exp == v.exp }

// IsScalar reports whether u is dimensionless.
func (u Unit) IsScalar() bool { return u.exp == Scalar.exp }

// Scale returns the factor converting u to its canonical unit.
func (u Unit) Scale() float64 { return u.scale }

// Mul returns the product unit of u and v.
func (u Unit) Mul(v Unit) Unit {
	w := Unit{scale: 1}
	for i := range w.exp {
		w.exp[i] = u.exp[i] + v.exp[i]
	}

	return w
}

// Div returns the quotient unit of u and v.
func (u Unit) Div(v Unit) Unit {
	w := Unit{scale: 1}
	for i := range w.exp {
		w.exp[i] = u.exp[i] - v.exp[i]
	}

	return w
}

// Canonical returns the canonical unit of u's dimension vector.
func (u Unit) Canonical() Unit {
	c := Unit{scale: 1, exp: u.exp}
	c.token, _ = c.css()

	return c
}

// css returns the CSS token for a registered pure vector.
func (u Unit) css() (string, bool) {
	if u.IsScalar() {
		return "", true
	}

	dim := -1

	for i, e := range u.exp {
		switch {
		case e == 0:
		case e == 1 && dim < 0:
			dim = i
		default:
			return "", false
		}
	}

	return canonical[dim], true
}

// String returns the unit token, or a product/quotient form such as
// "px*px" or "px/s" for compound units.
func (u Unit) String() string {
	if u.token != "" {
		return u.token
	}

	if t, ok := u.css(); ok {
		return t
	}

	var num, den []string

	for i, e := range u.exp {
		name := canonical[i]

		switch {
		case e > 0:
			num = append(num, power(name, e))
		case e < 0:
			den = append(den, power(name, -e))
		}
	}

	s := strings.Join(num, "*")
	if s == "" {
		s = "1"
	}

	if len(den) > 0 {
		s += "/" + strings.Join(den, "/")
	}

	return s
}

// LogValue implements slog.LogValuer.
func (u Unit) LogValue() slog.Value { return slog.StringValue(u.String()) }

func power(name string, e int8) string {
	if e == 1 {
		return name
	}

	return name + "^" + strconv.Itoa(int(e))
}
