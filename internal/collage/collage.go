// Package collage computes photo placements for the highlights collage.
//
// Layout is a pure function of its random source: given the same seeded
// *rand.Rand, photo count and region it always returns the same placements.
// Photos are squares placed at randomized sizes, positions and rotations so
// that no two squares overlap by more than OverlapTolerance percent of the
// smaller one, while the region is covered as densely as the attempt budget
// allows.
package collage

import (
	"math"
	"math/rand/v2"
)

const (
	// OverlapTolerance is the maximum pairwise overlap, as a percentage of
	// the smaller square's area, between any two placements.
	OverlapTolerance = 10.0

	// MaxPhotos caps how many photos Prepare keeps for a single collage.
	MaxPhotos = 100

	// ReferenceWidth is the region width the size envelopes are tuned for.
	// Narrower or wider regions scale every size linearly.
	ReferenceWidth = 1200.0

	candidatesPerPhoto  = 300
	fallbackTries       = 50
	layoutAttempts      = 3
	targetBackground    = 5.0
	earlyStopBackground = 3.0
	largeBias           = 0.25
)

// Region is the rectangle photos are placed into. A zero Height lets the
// engine derive a nominal height from the photo count.
type Region struct {
	Width  float64
	Height float64
}

// Placement is the top-left corner of a photo's bounding square in region
// coordinates, its side length and a rotation in radians about its centre.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Rotation float64 `json:"rotation"`
}

// Bottom is the y coordinate of the square's lower edge.
func (p Placement) Bottom() float64 { return p.Y + p.Size }

// Result is the outcome of Layout.
type Result struct {
	// Placements holds one entry per photo, in input order.
	Placements []Placement
	// FinalHeight is the lowest bottom edge of any placement; the region
	// the caller must reserve to show every photo in full.
	FinalHeight float64
	// CoveragePercent is the share of Width×FinalHeight under some photo.
	CoveragePercent float64
	// Attempts counts the full layout passes that were run.
	Attempts int
	// Enlarged reports whether the enlarged-envelope retry produced the result.
	Enlarged bool
	// Fallbacks counts photos that were not placed by the random search.
	Fallbacks int
}

// Background is the uncovered share of the collage, in percent.
func (r Result) Background() float64 { return 100 - r.CoveragePercent }

// Layout places n photos inside region.
//
// Each pass shuffles the photo order and places photos one by one: first by
// random search, then through the grid, forced-large and biased-random
// fallbacks, and finally into a shelf slot below everything placed so far. Up to three passes run and the best-covered one is kept;
// if it still leaves 5% or more of the background visible, one more pass
// runs with an enlarged size envelope and its result is returned as is.
//
// Layout never returns fewer placements than n.
func Layout(rng *rand.Rand, n int, region Region) Result {
	if n <= 0 {
		return Result{Placements: []Placement{}}
	}
	if region.Width <= 0 {
		region.Width = ReferenceWidth
	}
	if n == 1 {
		return single(region)
	}

	env := standardEnvelope(n, region)

	var best Result
	attempts := 0
	for range layoutAttempts {
		res := runPass(rng, n, region.Width, env)
		attempts++
		if attempts == 1 || res.CoveragePercent > best.CoveragePercent {
			best = res
		}
		if best.Background() < earlyStopBackground {
			break
		}
	}

	if best.Background() >= targetBackground {
		best = runPass(rng, n, region.Width, enlargedEnvelope(n, region))
		best.Enlarged = true
		attempts++
	}

	best.Attempts = attempts
	return best
}

// single centres one photo at the largest allowed size.
func single(region Region) Result {
	env := standardEnvelope(1, region)
	size := math.Min(env.maxSize, region.Width)
	p := Placement{X: (region.Width - size) / 2, Y: 0, Size: size}
	placements := []Placement{p}
	return Result{
		Placements:      placements,
		FinalHeight:     p.Bottom(),
		CoveragePercent: Coverage(placements, region.Width, p.Bottom()),
		Attempts:        1,
	}
}

// runPass performs one full placement pass over a fresh shuffle.
func runPass(rng *rand.Rand, n int, width float64, env envelope) Result {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	pk := newPacker(rng, n, width, env)
	out := make([]Placement, n)
	fallbacks := 0
	for slot, idx := range order {
		p, how := pk.place(slot)
		out[idx] = p
		if how != strategyRandom {
			fallbacks++
		}
	}

	height := finalHeight(out)
	return Result{
		Placements:      out,
		FinalHeight:     height,
		CoveragePercent: Coverage(out, width, height),
		Fallbacks:       fallbacks,
	}
}

func finalHeight(ps []Placement) float64 {
	var h float64
	for _, p := range ps {
		h = math.Max(h, p.Bottom())
	}
	return h
}

// envelope is the size range and nominal height for one pass.
type envelope struct {
	minSize float64
	maxSize float64
	height  float64
}

func (e envelope) span() float64 { return e.maxSize - e.minSize }

// standardEnvelope shrinks photos as the count grows.
func standardEnvelope(n int, region Region) envelope {
	scale := region.Width / ReferenceWidth
	fn := float64(n)
	e := envelope{
		minSize: math.Max(180, 300-fn*5.5) * scale,
		maxSize: math.Max(270, 525-fn*7.5) * scale,
	}
	perRow := math.Ceil(math.Sqrt(fn * 1.8))
	rows := math.Ceil(fn / perRow)
	avg := (e.minSize + e.maxSize) / 2
	e.height = math.Max(400*scale, rows*(avg*0.6+20*scale))
	if region.Height > 0 {
		e.height = region.Height
	}
	return e
}

// enlargedEnvelope uses bigger photos and a tighter vertical extent.
func enlargedEnvelope(n int, region Region) envelope {
	scale := region.Width / ReferenceWidth
	fn := float64(n)
	e := envelope{
		minSize: math.Max(220, 360-fn*6) * scale,
		maxSize: math.Max(320, 600-fn*9) * scale,
	}
	perRow := math.Ceil(math.Sqrt(fn * 2.0))
	rows := math.Ceil(fn / perRow)
	avg := (e.minSize + e.maxSize) / 2
	e.height = math.Max(180*scale, rows*(avg*0.5+15*scale))
	if region.Height > 0 {
		e.height = math.Min(e.height, region.Height)
	}
	return e
}
