package chart

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// FallbackColor is used for any value a palette has no color for.
var FallbackColor = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}

// Palette maps a category value to the color of its bar.
type Palette interface {
	Color(value string) color.Color
}

// brandColors are the hand-picked colors for known film brands.
var brandColors = map[string]string{
	"Rollei":     "#820b03",
	"Kodak":      "#e6a627",
	"Cinemot":    "#279ce6",
	"Ilford":     "#36015c",
	"Adox":       "#ed8b4a",
	"Bergger":    "#fa232a",
	"Cinestill":  "#b35054",
	"Revelab":    "#9c50b3",
	"Revelog":    "#030002",
	"Dubblefilm": "#e874e4",
	"Fomapan":    "#7a767a",
	"Lomography": "#472046",
	"Fujifilm":   "#045e1a",
}

type fixedPalette map[string]color.RGBA

func (p fixedPalette) Color(value string) color.Color {
	if c, ok := p[value]; ok {
		return c
	}
	return FallbackColor
}

// BrandPalette returns the fixed brand palette. Unknown brands are gray.
func BrandPalette() Palette {
	p := make(fixedPalette, len(brandColors))
	for name, hex := range brandColors {
		c, err := ParseHex(hex)
		if err != nil {
			panic(err)
		}
		p[name] = c
	}
	return p
}

// ColorMode selects how film colors are assigned.
type ColorMode string

const (
	// ColorRandom draws fresh colors every run.
	ColorRandom ColorMode = "random"
	// ColorSeeded draws colors from a PRNG seeded by the caller.
	ColorSeeded ColorMode = "seeded"
	// ColorHash derives each color from the value's FNV-1a hash.
	ColorHash ColorMode = "hash"
)

// ParseColorMode validates a mode name from config or flags.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorRandom, ColorSeeded, ColorHash:
		return m, nil
	default:
		return "", fmt.Errorf("unknown film color mode %q (want random, seeded or hash)", s)
	}
}

// NewFilmPalette assigns one color to each value up front so the count and
// percentage charts of a run agree. seed is only used by ColorSeeded.
func NewFilmPalette(mode ColorMode, seed uint64, values []string) Palette {
	var rng *rand.Rand
	switch mode {
	case ColorSeeded:
		rng = rand.New(rand.NewPCG(seed, seed))
	case ColorRandom:
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}

	p := make(fixedPalette, len(values))
	for _, v := range values {
		if _, ok := p[v]; ok {
			continue
		}
		if rng == nil {
			p[v] = hashColor(v)
			continue
		}
		p[v] = rgb(rng.Uint32N(0x1000000))
	}
	return p
}

func hashColor(value string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return rgb(h.Sum32() & 0xffffff)
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return rgb(uint32(v)), nil
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
