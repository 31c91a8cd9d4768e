package color

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"regexp"
	"strconv"
)

// ErrInvalidHex is returned when a string is not a 6-digit hex color
var ErrInvalidHex = errors.New("invalid hex color")

var hexPattern = regexp.MustCompile(`(?i)^#?([0-9a-f]{2})([0-9a-f]{2})([0-9a-f]{2})$`)

// Ranges used for random colors. Saturation and lightness are kept away from
// the grey and black/white ends so every color is usable as a swatch.
const (
	hueRange        = 360
	minSaturation   = 60
	saturationRange = 40
	minLightness    = 40
	lightnessRange  = 30
)

// Color represents an RGB color
type Color struct {
	R uint8
	G uint8
	B uint8
}

// HSL represents a color in HSL space. H is in degrees, S and L are percentages.
type HSL struct {
	H float64
	S float64
	L float64
}

// Hex returns the canonical uppercase #RRGGBB form of the color
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer
func (c Color) String() string {
	return c.Hex()
}

// ToRGBA converts our Color to an opaque color.RGBA
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

// HSL converts the color to HSL space
func (c Color) HSL() HSL {
	return rgbToHSL(c)
}

// Random picks a hue in [0,360), saturation in [60,100) and lightness in
// [40,70), all whole numbers, and converts them to RGB.
func Random(rng *rand.Rand) Color {
	h := rng.Intn(hueRange)
	s := rng.Intn(saturationRange) + minSaturation
	l := rng.Intn(lightnessRange) + minLightness
	return HSLToRGB(float64(h), float64(s), float64(l))
}

// HSLToHex converts HSL (h in degrees, s and l in percent) to an uppercase #RRGGBB string
func HSLToHex(h, s, l float64) string {
	return HSLToRGB(h, s, l).Hex()
}

// HSLToRGB converts HSL (h in degrees, s and l in percent) to RGB
func HSLToRGB(h, s, l float64) Color {
	l /= 100
	a := s * math.Min(l, 1-l) / 100

	channel := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		if k < 0 {
			k += 12
		}
		c := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		// Round half up, then clamp for out-of-range inputs.
		v := math.Floor(255*c + 0.5)
		return uint8(math.Max(0, math.Min(255, v)))
	}

	return Color{R: channel(0), G: channel(8), B: channel(4)}
}

// HexToRGB parses a #RRGGBB (or RRGGBB) string, case-insensitive
func HexToRGB(hex string) (Color, error) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(m[i+1], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
		}
		ch[i] = uint8(v)
	}

	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// MustParseHex is like HexToRGB but panics on malformed input. Only use it on
// hex strings the program produced itself.
func MustParseHex(hex string) Color {
	c, err := HexToRGB(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// ContrastColor returns white or black depending on which provides better contrast
func ContrastColor(c Color) color.Color {
	if luminance(c) > 0.5 {
		return color.Black
	}
	return color.White
}

// IsLight reports whether black text reads better than white on c
func IsLight(c Color) bool {
	return luminance(c) > 0.5
}

// luminance approximates relative luminance with a 2.2 gamma
func luminance(c Color) float64 {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	return 0.2126*math.Pow(r, 2.2) + 0.7152*math.Pow(g, 2.2) + 0.0722*math.Pow(b, 2.2)
}

func rgbToHSL(rgb Color) HSL {
	r := float64(rgb.R) / 255
	g := float64(rgb.G) / 255
	b := float64(rgb.B) / 255

	hi := math.Max(math.Max(r, g), b)
	lo := math.Min(math.Min(r, g), b)
	h, s, l := 0.0, 0.0, (hi+lo)/2

	if hi != lo {
		d := hi - lo
		if l > 0.5 {
			s = d / (2 - hi - lo)
		} else {
			s = d / (hi + lo)
		}

		switch hi {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		case b:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return HSL{H: h * 360, S: s * 100, L: l * 100}
}
