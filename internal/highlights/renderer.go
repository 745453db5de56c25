// Package highlights renders a trip's summary image: a header, stat cards,
// the top favorites and a photo collage, finished with a footer band.
//
// Sections are drawn top to bottom onto a surface that starts at
// InitialHeight and grows when a section needs more room. Once everything
// is drawn the content is copied onto a right-sized canvas over the
// background gradient and the footer is drawn at the new bottom edge.
package highlights

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/collage"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

const (
	CanvasWidth   = 1200
	InitialHeight = 3000
	HeaderHeight  = 140
	FooterHeight  = 60

	// MinCollagePhotos is the fewest unique photos worth a collage section.
	MinCollagePhotos = 3
	// FooterText is printed in the footer band.
	FooterText = "Generated by Booze Cruise"

	decodeConcurrency = 8
)

// Input is everything one render needs. Events must already be filtered.
type Input struct {
	Trip         domain.Trip
	Participants []domain.Participant
	DrinkTypes   []domain.DrinkType
	Events       []domain.DrinkEvent
	// FilterLabel, when set, is printed under the date range.
	FilterLabel string
}

// Output is a finished highlights image.
type Output struct {
	PNG          []byte
	Filename     string
	Width        int
	Height       int
	Collage      collage.Result
	PhotoCount   int
	FailedPhotos int
}

// Renderer draws highlights images. It is safe for concurrent use; every
// call owns its own drawing surface.
type Renderer struct {
	logger  *slog.Logger
	regular *truetype.Font
	bold    *truetype.Font
}

// NewRenderer parses the embedded Go fonts and returns a Renderer.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("highlights.NewRenderer: regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("highlights.NewRenderer: bold font: %w", err)
	}
	return &Renderer{logger: logger, regular: regular, bold: bold}, nil
}

// Render draws the highlights image for in. rng drives the collage layout.
// It returns domain.ErrNoData when in has no events; photos that fail to
// decode are replaced by placeholders and counted in Output.FailedPhotos.
func (r *Renderer) Render(ctx context.Context, in Input, rng *rand.Rand) (Output, error) {
	if len(in.Events) == 0 {
		return Output{}, fmt.Errorf("highlights.Render: %w", domain.ErrNoData)
	}

	s := newSurface(CanvasWidth, InitialHeight)

	y := r.drawHeader(s, in)
	y = r.drawStats(s, y, analytics.StatsOf(in.Events))
	y = r.drawFavorites(s, y, analytics.FavoritesOf(in.Events, in.Participants, in.DrinkTypes))
	if err := ctx.Err(); err != nil {
		return Output{}, fmt.Errorf("highlights.Render: %w", err)
	}

	sec, err := r.drawCollage(ctx, s, y, in, rng)
	if err != nil {
		return Output{}, fmt.Errorf("highlights.Render: %w", err)
	}

	png, height, err := r.finalize(s, sec.bottom)
	if err != nil {
		return Output{}, fmt.Errorf("highlights.Render: %w", err)
	}

	return Output{
		PNG:          png,
		Filename:     Filename(in.Trip.Name),
		Width:        CanvasWidth,
		Height:       height,
		Collage:      sec.layout,
		PhotoCount:   sec.photos,
		FailedPhotos: sec.failed,
	}, nil
}

// finalize materializes a canvas exactly tall enough for the content.
func (r *Renderer) finalize(s *surface, contentBottom float64) ([]byte, int, error) {
	height := int(math.Ceil(contentBottom)) + FooterHeight
	dc := gg.NewContext(CanvasWidth, height)

	grad := gg.NewLinearGradient(0, 0, 0, float64(height))
	grad.AddColorStop(0, hexColor("#667eea"))
	grad.AddColorStop(1, hexColor("#764ba2"))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, CanvasWidth, float64(height))
	dc.Fill()

	dc.DrawImage(s.dc.Image(), 0, 0)

	top := float64(height - FooterHeight)
	dc.SetRGBA(0, 0, 0, 0.05)
	dc.DrawRectangle(0, top, CanvasWidth, FooterHeight)
	dc.Fill()
	dc.SetFontFace(r.face(false, 16))
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawStringAnchored(FooterText, CanvasWidth/2, top+FooterHeight/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, 0, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), height, nil
}

func (r *Renderer) face(bold bool, size float64) font.Face {
	f := r.regular
	if bold {
		f = r.bold
	}
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// Filename derives the download name from a trip name, e.g.
// "Summer Cruise!" becomes "summer_cruise__highlights.png".
func Filename(tripName string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(tripName) {
		if c < unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c)) {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	base := b.String()
	if strings.Trim(base, "_") == "" {
		base = "trip"
	}
	return base + "_highlights.png"
}
