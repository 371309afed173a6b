package color

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit-per-channel terminal color.
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// Blend selects the perceptual space used for interpolation.
type Blend string

const (
	// BlendLab interpolates in CIE L*a*b*.
	BlendLab Blend = "lab"
	// BlendHcl interpolates in CIE LCh(ab) and follows the shorter hue arc.
	BlendHcl Blend = "hcl"
)

// ParseBlend validates a blend name from configuration.
func ParseBlend(s string) (Blend, error) {
	switch Blend(s) {
	case BlendLab, "":
		return BlendLab, nil
	case BlendHcl:
		return BlendHcl, nil
	}
	return "", fmt.Errorf("unknown blend %q (want lab or hcl)", s)
}

// Interpolate maps score in [0,1] to a color between low and high, blending
// in a perceptually uniform space. Channels outside the sRGB gamut are
// truncated and clamped to [0,255].
func Interpolate(score float64, low, high colorful.Color, blend Blend) RGB {
	score = math.Max(0, math.Min(1, score))

	var c colorful.Color
	switch blend {
	case BlendHcl:
		c = low.BlendHcl(high, score)
	default:
		l1, a1, b1 := low.Lab()
		l2, a2, b2 := high.Lab()
		c = colorful.Lab(
			l1+(l2-l1)*score,
			a1+(a2-a1)*score,
			b1+(b2-b1)*score,
		)
	}
	return RGB{channel(c.R), channel(c.G), channel(c.B)}
}

func channel(v float64) uint8 {
	n := int(v * 255)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// TextColorFor returns black for bright backgrounds and white otherwise.
func TextColorFor(bg RGB) RGB {
	brightness := float64(int(bg.R)*299+int(bg.G)*587+int(bg.B)*114) / 1000
	if brightness > 128 {
		return Black
	}
	return White
}

// FromFloats builds a colorful.Color from sRGB components in [0,1].
func FromFloats(v []float64) (colorful.Color, error) {
	if len(v) != 3 {
		return colorful.Color{}, fmt.Errorf("color needs 3 components, got %d", len(v))
	}
	for _, x := range v {
		if x < 0 || x > 1 {
			return colorful.Color{}, fmt.Errorf("color component %v out of range [0,1]", x)
		}
	}
	return colorful.Color{R: v[0], G: v[1], B: v[2]}, nil
}

// FromInts builds an RGB from 0..255 components.
func FromInts(v []int) (RGB, error) {
	if len(v) != 3 {
		return RGB{}, fmt.Errorf("color needs 3 components, got %d", len(v))
	}
	for _, x := range v {
		if x < 0 || x > 255 {
			return RGB{}, fmt.Errorf("color component %d out of range [0,255]", x)
		}
	}
	return RGB{uint8(v[0]), uint8(v[1]), uint8(v[2])}, nil
}
