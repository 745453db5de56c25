package highlights

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

// surface is a drawing context that grows on demand.
type surface struct {
	dc *gg.Context
}

func newSurface(w, h int) *surface {
	return &surface{dc: gg.NewContext(w, h)}
}

// ensure grows the surface, doubling its height, until bottom fits.
// Existing content is copied across.
func (s *surface) ensure(bottom float64) {
	need := int(math.Ceil(bottom))
	h := s.dc.Height()
	if need <= h {
		return
	}
	for h < need {
		h *= 2
	}
	next := gg.NewContext(s.dc.Width(), h)
	next.DrawImage(s.dc.Image(), 0, 0)
	s.dc = next
}

// hexColor parses "#rrggbb". Malformed input yields black.
func hexColor(hex string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// ellipsize shortens s with "..." until it is at most maxW wide.
func ellipsize(dc *gg.Context, s string, maxW float64) string {
	if w, _ := dc.MeasureString(s); w <= maxW {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		cand := string(runes) + "..."
		if w, _ := dc.MeasureString(cand); w <= maxW {
			return cand
		}
	}
	return ""
}
