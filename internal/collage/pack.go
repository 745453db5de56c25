package collage

import (
	"math"
	"math/rand/v2"
)

// strategy records which rung of the placement ladder produced a photo.
type strategy int

const (
	strategyRandom strategy = iota
	strategyGrid
	strategyLarge
	strategyBiased
	strategyShelf
)

// rung is one step of the placement ladder. try reports false when it
// finds no candidate within tolerance.
type rung struct {
	how strategy
	try func(slot int) (Placement, bool)
}

// packer places photos for one pass and remembers what it has placed.
type packer struct {
	rng    *rand.Rand
	n      int
	width  float64
	env    envelope
	placed []Placement
	shelf  shelf
	rungs  []rung
}

// shelf is the open row used by last-resort placements.
type shelf struct {
	open bool
	x    float64
	y    float64
}

func newPacker(rng *rand.Rand, n int, width float64, env envelope) *packer {
	p := &packer{
		rng:    rng,
		n:      n,
		width:  width,
		env:    env,
		placed: make([]Placement, 0, n),
	}
	// Forced-large must precede biased.
	p.rungs = []rung{
		{strategyRandom, func(int) (Placement, bool) { return p.search(candidatesPerPhoto, p.randomCandidate) }},
		{strategyGrid, p.gridCandidate},
		{strategyLarge, func(int) (Placement, bool) { return p.search(fallbackTries, p.largeCandidate) }},
		{strategyBiased, func(int) (Placement, bool) { return p.search(fallbackTries, p.biasedCandidate) }},
	}
	return p
}

// place finds a position for the photo at the given shuffle slot. The
// shelf closes the ladder and always succeeds.
func (p *packer) place(slot int) (Placement, strategy) {
	for _, r := range p.rungs {
		if c, ok := r.try(slot); ok {
			return p.accept(c), r.how
		}
	}
	return p.accept(p.shelfSlot()), strategyShelf
}

// search draws up to tries candidates and returns the first that fits.
func (p *packer) search(tries int, next func() Placement) (Placement, bool) {
	for range tries {
		if c := next(); p.fits(c) {
			return c, true
		}
	}
	return Placement{}, false
}

func (p *packer) accept(c Placement) Placement {
	p.placed = append(p.placed, c)
	return c
}

// fits reports whether c stays within tolerance of every placed square.
func (p *packer) fits(c Placement) bool {
	for _, q := range p.placed {
		if OverlapPercent(c, q) > OverlapTolerance {
			return false
		}
	}
	return true
}

func (p *packer) randomCandidate() Placement {
	u := p.rng.Float64()
	switch {
	case p.n > 20:
		u = math.Pow(u, 0.7)
	case p.n > 10:
		u = math.Pow(u, 0.5)
	}
	size := p.env.minSize + u*p.env.span()
	if p.rng.Float64() < largeBias {
		size = math.Max(size, p.env.minSize+0.8*p.env.span())
	}
	return p.clamp(Placement{
		X:        -0.5*size + p.rng.Float64()*p.width,
		Y:        p.rng.Float64() * math.Max(0, p.env.height-size),
		Size:     size,
		Rotation: (p.rng.Float64() - 0.5) * 0.6,
	})
}

// gridCandidate scans grid cells starting at the photo's own cell and
// returns the first jittered cell placement that fits.
func (p *packer) gridCandidate(slot int) (Placement, bool) {
	cols := int(math.Ceil(math.Sqrt(float64(p.n) * 1.2)))
	rows := (p.n + cols - 1) / cols
	cellW := p.width / float64(cols)
	cellH := p.env.height / float64(rows)

	cells := cols * rows
	for k := range cells {
		cell := (slot + k) % cells
		col, row := cell%cols, cell/cols
		size := p.env.minSize + p.rng.Float64()*0.7*p.env.span()
		c := p.clamp(Placement{
			X:        float64(col)*cellW - 0.15*size + p.rng.Float64()*0.3*cellW,
			Y:        float64(row)*cellH + p.rng.Float64()*math.Max(0, cellH-size),
			Size:     size,
			Rotation: (p.rng.Float64() - 0.5) * 0.6,
		})
		if p.fits(c) {
			return c, true
		}
	}
	return Placement{}, false
}

func (p *packer) biasedCandidate() Placement {
	size := p.env.minSize + p.rng.Float64()*0.6*p.env.span()
	return p.clamp(Placement{
		X:        -0.2*size + p.rng.Float64()*(p.width-0.6*size),
		Y:        p.rng.Float64() * math.Max(0, p.env.height-size),
		Size:     size,
		Rotation: (p.rng.Float64() - 0.5) * 0.6,
	})
}

func (p *packer) largeCandidate() Placement {
	size := p.env.minSize + 0.8*p.env.span()
	return p.clamp(Placement{
		X:        -0.25*size + p.rng.Float64()*(p.width-0.5*size),
		Y:        p.rng.Float64() * math.Max(0, p.env.height-size),
		Size:     size,
		Rotation: (p.rng.Float64() - 0.5) * 0.4,
	})
}

// shelfSlot returns a position that cannot exceed the overlap tolerance:
// either the next slot on the open shelf row, when it fits, or the start of
// a new row below every square placed so far. Rows bleed 20% off the left
// edge. Rotation is random and does not affect the overlap check.
func (p *packer) shelfSlot() Placement {
	size := math.Max(p.env.minSize, 0.7*p.env.maxSize)
	rotation := (p.rng.Float64() - 0.5) * 0.5
	if p.shelf.open {
		c := Placement{X: p.shelf.x, Y: p.shelf.y, Size: size, Rotation: rotation}
		if c.X <= p.width-0.5*size && p.fits(c) {
			p.shelf.x += size
			return c
		}
	}
	x := -0.2 * size
	y := finalHeight(p.placed)
	p.shelf = shelf{open: true, x: x + size, y: y}
	return Placement{X: x, Y: y, Size: size, Rotation: rotation}
}

// clamp keeps a candidate inside the bleed-extended bounds.
func (p *packer) clamp(c Placement) Placement {
	c.X = math.Min(math.Max(c.X, -0.5*c.Size), p.width-0.5*c.Size)
	c.Y = math.Min(math.Max(c.Y, 0), math.Max(0, p.env.height-c.Size))
	return c
}
