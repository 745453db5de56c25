package highlights

import (
	"fmt"
	"strings"

	"github.com/fogleman/gg"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
)

const (
	coverDiameter   = 80
	cardMargin      = 15
	cardGap         = 10
	cardBaseHeight  = 120
	cardRotation    = 0.02
	favoriteHeight  = 80
	favoriteGap     = 15
	favoriteLimit   = 3
	badgeRadius     = 20
	sectionTitleGap = 50
)

// statCard is one of the four headline numbers.
type statCard struct {
	label  string
	value  int
	accent string
}

var favoriteFills = []string{"#fff3e0", "#e8f5e9", "#f3e5f5"}

// drawHeader draws the title band and returns the y where the next section
// starts.
func (r *Renderer) drawHeader(s *surface, in Input) float64 {
	dc := s.dc

	dc.SetRGBA(1, 1, 1, 0.92)
	dc.DrawRoundedRectangle(20, 15, CanvasWidth-40, HeaderHeight-25, 18)
	dc.Fill()

	textW := float64(CanvasWidth - 80 - coverDiameter - 40)
	dc.SetHexColor("#1a1a2e")
	dc.SetFontFace(r.face(true, 38))
	dc.DrawString(ellipsize(dc, in.Trip.Name, textW), 45, 65)

	dc.SetHexColor("#555555")
	dc.SetFontFace(r.face(false, 20))
	dc.DrawString(dateRange(in.Trip), 45, 97)

	if in.FilterLabel != "" {
		dc.SetHexColor("#777777")
		dc.SetFontFace(r.face(false, 15))
		dc.DrawString(ellipsize(dc, "Filtered: "+in.FilterLabel, textW), 45, 120)
	}

	r.drawCover(dc, in.Trip)
	return HeaderHeight + 10
}

// drawCover draws the trip cover photo as a circle at the right of the
// header, or the trip's initial when there is no decodable cover.
func (r *Renderer) drawCover(dc *gg.Context, trip domain.Trip) {
	const radius = coverDiameter / 2
	cx := float64(CanvasWidth - 45 - radius)
	cy := float64(HeaderHeight-10) / 2

	dc.SetHexColor("#ffffff")
	dc.DrawCircle(cx, cy, radius+4)
	dc.Fill()

	if photo.IsDataURL(trip.CoverPhoto) {
		img, err := photo.Decode(trip.CoverPhoto)
		if err == nil {
			dc.Push()
			dc.DrawCircle(cx, cy, radius)
			dc.Clip()
			dc.DrawImageAnchored(photo.Cover(img, coverDiameter, coverDiameter), int(cx), int(cy), 0.5, 0.5)
			dc.ResetClip()
			dc.Pop()
			return
		}
		r.logger.Warn("highlights: cover photo decode failed", "trip_id", trip.ID, "error", err)
	}

	dc.SetHexColor("#667eea")
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()
	dc.SetHexColor("#ffffff")
	dc.SetFontFace(r.face(true, 34))
	dc.DrawStringAnchored(initial(trip.Name), cx, cy, 0.5, 0.35)
}

// drawStats draws the four stat cards with alternating height and tilt.
func (r *Renderer) drawStats(s *surface, y float64, st analytics.Stats) float64 {
	cards := []statCard{
		{label: "Total Drinks", value: st.TotalEvents, accent: "#FF6B35"},
		{label: "People", value: st.UniqueParticipants, accent: "#4CAF50"},
		{label: "Drink Types", value: st.UniqueDrinkTypes, accent: "#9C27B0"},
		{label: "Days Active", value: st.UniqueDays, accent: "#FF9800"},
	}
	cardW := float64(CanvasWidth-60) / float64(len(cards))
	tallest := float64(cardBaseHeight + 20)
	s.ensure(y + tallest + 40)
	dc := s.dc

	for i, c := range cards {
		h := float64(cardBaseHeight + (i%2)*20)
		x := float64(cardMargin) + float64(i)*(cardW+cardGap)
		rot := cardRotation
		if i%2 == 1 {
			rot = -cardRotation
		}

		dc.Push()
		dc.RotateAbout(rot, x+cardW/2, y+h/2)

		dc.SetRGBA(0, 0, 0, 0.15)
		dc.DrawRoundedRectangle(x+3, y+3, cardW, h, 14)
		dc.Fill()
		dc.SetHexColor("#ffffff")
		dc.DrawRoundedRectangle(x, y, cardW, h, 14)
		dc.Fill()
		dc.SetHexColor(c.accent)
		dc.DrawRectangle(x+14, y, cardW-28, 5)
		dc.Fill()

		// icon disc
		dc.DrawCircle(x+32, y+32, 18)
		dc.Fill()
		dc.SetHexColor("#ffffff")
		dc.SetFontFace(r.face(true, 18))
		dc.DrawStringAnchored(initial(c.label), x+32, y+32, 0.5, 0.35)

		dc.SetHexColor(c.accent)
		dc.SetFontFace(r.face(true, 44))
		dc.DrawStringAnchored(fmt.Sprint(c.value), x+cardW/2, y+h/2+4, 0.5, 0.35)

		dc.SetHexColor("#666666")
		dc.SetFontFace(r.face(false, 17))
		dc.DrawStringAnchored(c.label, x+cardW/2, y+h-20, 0.5, 0.35)

		dc.Pop()
	}
	return y + tallest + 30
}

// drawFavorites draws up to three favorites on alternating rounded and
// angled backgrounds, each with a rank badge.
func (r *Renderer) drawFavorites(s *surface, y float64, favs []analytics.Favorite) float64 {
	if len(favs) == 0 {
		return y
	}
	top := favs[:min(favoriteLimit, len(favs))]
	s.ensure(y + sectionTitleGap + float64(len(top))*(favoriteHeight+favoriteGap) + 20)
	dc := s.dc

	y = r.drawSectionTitle(dc, "Top Favorites", y)

	const left, right = 30.0, float64(CanvasWidth - 30)
	for i, f := range top {
		iy := y + float64(i)*(favoriteHeight+favoriteGap)

		dc.SetHexColor(favoriteFills[i%len(favoriteFills)])
		if i%2 == 0 {
			dc.DrawRoundedRectangle(left, iy, right-left, favoriteHeight, 18)
		} else {
			dc.MoveTo(left+20, iy)
			dc.LineTo(right, iy)
			dc.LineTo(right-20, iy+favoriteHeight)
			dc.LineTo(left, iy+favoriteHeight)
			dc.ClosePath()
		}
		dc.Fill()

		bx, by := left+45, iy+favoriteHeight/2
		dc.SetHexColor("#FF6B35")
		dc.DrawCircle(bx, by, badgeRadius)
		dc.Fill()
		dc.SetHexColor("#ffffff")
		dc.SetFontFace(r.face(true, 20))
		dc.DrawStringAnchored(fmt.Sprint(i+1), bx, by, 0.5, 0.35)

		textW := right - left - 140
		dc.SetHexColor("#1a1a2e")
		dc.SetFontFace(r.face(true, 24))
		dc.DrawString(ellipsize(dc, f.ParticipantName, textW), left+85, iy+35)

		dc.SetHexColor("#555555")
		dc.SetFontFace(r.face(false, 18))
		dc.DrawString(ellipsize(dc, fmt.Sprintf("%s · %s", f.DrinkTypeName, drinks(f.Count)), textW), left+85, iy+62)
	}
	return y + float64(len(top))*(favoriteHeight+favoriteGap) + 15
}

func (r *Renderer) drawSectionTitle(dc *gg.Context, title string, y float64) float64 {
	dc.SetHexColor("#ffffff")
	dc.SetFontFace(r.face(true, 28))
	dc.DrawString(title, 30, y+32)
	return y + sectionTitleGap
}

func dateRange(t domain.Trip) string {
	const layout = "Jan 2, 2006"
	if t.EndDate == nil {
		return t.StartDate.Format(layout)
	}
	return t.StartDate.Format(layout) + " - " + t.EndDate.Format(layout)
}

func drinks(n int) string {
	if n == 1 {
		return "1 drink"
	}
	return fmt.Sprintf("%d drinks", n)
}

func initial(s string) string {
	s = strings.TrimSpace(s)
	for _, c := range s {
		return strings.ToUpper(string(c))
	}
	return "?"
}
