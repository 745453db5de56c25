package collage

import "math"

// samplePitch is the spacing, in pixels, of the coverage sampling grid.
const samplePitch = 10.0

// OverlapPercent returns the exact intersection area of the bounding squares
// of a and b as a percentage of the smaller square's area. Rotation is
// ignored.
func OverlapPercent(a, b Placement) float64 {
	w := math.Min(a.X+a.Size, b.X+b.Size) - math.Max(a.X, b.X)
	h := math.Min(a.Y+a.Size, b.Y+b.Size) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	smaller := math.Min(a.Size, b.Size)
	if smaller <= 0 {
		return 0
	}
	return w * h / (smaller * smaller) * 100
}

// Coverage estimates the percentage of the width×height rectangle that is
// visually covered. The rectangle is sampled every samplePitch pixels and a
// sample counts as covered when it lies inside some placement's bounding
// circle, whose radius is half the square's diagonal.
//
// Coverage is an estimate only. Placement acceptance uses OverlapPercent.
func Coverage(placements []Placement, width, height float64) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	var total, covered int
	for y := 0.0; y < height; y += samplePitch {
		for x := 0.0; x < width; x += samplePitch {
			total++
			if coveredAt(placements, x, y) {
				covered++
			}
		}
	}
	return float64(covered) / float64(total) * 100
}

func coveredAt(placements []Placement, x, y float64) bool {
	for _, p := range placements {
		half := p.Size / 2
		dx := x - (p.X + half)
		dy := y - (p.Y + half)
		r := half * math.Sqrt2
		if dx*dx+dy*dy <= r*r {
			return true
		}
	}
	return false
}
