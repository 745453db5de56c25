package highlights

import (
	"context"
	"image"
	"math/rand/v2"

	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/booze-cruise/backend/internal/collage"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
)

const (
	photoBorder = 4
	photoShadow = 3
)

// collageSection reports what drawCollage drew.
type collageSection struct {
	bottom float64
	layout collage.Result
	photos int
	failed int
}

// collectPhotos lists collage candidates: event photos first, then every
// photo in the trip's drink type catalog. Glyphs are skipped.
func collectPhotos(in Input) []collage.Item {
	var items []collage.Item
	for _, e := range in.Events {
		if src := embedded(e.FullPhoto, e.Photo); src != "" {
			items = append(items, collage.Item{ImageData: src, Kind: collage.KindEvent})
		}
	}
	for _, d := range in.DrinkTypes {
		if src := embedded(d.FullPhoto, d.Photo); src != "" {
			items = append(items, collage.Item{ImageData: src, Kind: collage.KindDrinkType})
		}
	}
	return items
}

// embedded returns the first candidate that is an image data URL.
func embedded(candidates ...string) string {
	for _, c := range candidates {
		if photo.IsDataURL(c) {
			return c
		}
	}
	return ""
}

// drawCollage lays out and draws the photo collage starting at y.
// The section is skipped when fewer than MinCollagePhotos unique photos exist.
func (r *Renderer) drawCollage(ctx context.Context, s *surface, y float64, in Input, rng *rand.Rand) (collageSection, error) {
	items := collage.Prepare(collectPhotos(in))
	if len(items) < MinCollagePhotos {
		return collageSection{bottom: y}, nil
	}

	imgs, err := r.loadPhotos(ctx, items)
	if err != nil {
		return collageSection{}, err
	}
	failed := 0
	for _, img := range imgs {
		if img == nil {
			failed++
		}
	}

	layout := collage.Layout(rng, len(items), collage.Region{Width: CanvasWidth})

	s.ensure(y + sectionTitleGap + layout.FinalHeight + 2*photoBorder + 40)
	dc := s.dc
	y = r.drawSectionTitle(dc, "Photo Memories", y)
	for i, p := range layout.Placements {
		r.drawPhoto(dc, y, p, imgs[i], items[i].Kind)
	}

	return collageSection{
		bottom: y + layout.FinalHeight + 2*photoBorder + 20,
		layout: layout,
		photos: len(items),
		failed: failed,
	}, nil
}

// loadPhotos decodes every item in parallel. A failed decode leaves a nil
// entry and is logged; only context cancellation is returned as an error.
func (r *Renderer) loadPhotos(ctx context.Context, items []collage.Item) ([]image.Image, error) {
	out := make([]image.Image, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(decodeConcurrency)
	for i, it := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := photo.Decode(it.ImageData)
			if err != nil {
				r.logger.Warn("highlights: photo decode failed", "index", i, "kind", it.Kind, "error", err)
				return nil
			}
			out[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// drawPhoto draws one placement rotated about its centre: a drop shadow,
// a white border and the cover-cropped photo or a placeholder tile.
func (r *Renderer) drawPhoto(dc *gg.Context, top float64, p collage.Placement, img image.Image, kind collage.Kind) {
	x, y, size := p.X, top+p.Y, p.Size
	cx, cy := x+size/2, y+size/2

	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(p.Rotation, cx, cy)

	outer := size + 2*photoBorder
	dc.SetRGBA(0, 0, 0, 0.3)
	dc.DrawRectangle(x-photoBorder+photoShadow, y-photoBorder+photoShadow, outer, outer)
	dc.Fill()
	dc.SetHexColor("#ffffff")
	dc.DrawRectangle(x-photoBorder, y-photoBorder, outer, outer)
	dc.Fill()

	if img != nil {
		side := max(1, int(size))
		dc.DrawImageAnchored(photo.Cover(img, side, side), int(cx), int(cy), 0.5, 0.5)
		return
	}

	dc.SetHexColor("#f0f0f0")
	dc.DrawRectangle(x, y, size, size)
	dc.Fill()
	label := "photo"
	if kind == collage.KindDrinkType {
		label = "drink"
	}
	dc.SetHexColor("#999999")
	dc.SetFontFace(r.face(true, size/8))
	dc.DrawStringAnchored(label, cx, cy, 0.5, 0.35)
}
