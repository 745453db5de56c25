// Package analytics derives statistics from drink events.
// Every function is pure: no I/O, no shared state, and the inputs are never
// modified.
package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

// unknownName labels an ID that is missing from its catalog.
const unknownName = "Unknown"

// Filter narrows a set of events; see domain.EventFilter.
type Filter = domain.EventFilter

// DescribeFilter renders a short human-readable label for an active filter,
// e.g. "Alice | 2025-06-01 - 2025-06-03". It returns "" for a zero filter.
func DescribeFilter(f Filter, participants []domain.Participant) string {
	var parts []string
	if f.ParticipantID != nil {
		name := "Participant"
		if p, ok := indexParticipants(participants)[*f.ParticipantID]; ok {
			name = p.Name
		}
		parts = append(parts, name)
	}
	if f.Start != nil || f.End != nil {
		var dates []string
		if f.Start != nil {
			dates = append(dates, *f.Start)
		}
		if f.End != nil {
			dates = append(dates, *f.End)
		}
		parts = append(parts, strings.Join(dates, " - "))
	}
	return strings.Join(parts, " | ")
}

// FilterEvents returns the events whose date lies within [Start, End] and
// whose participant matches, preserving order.
func FilterEvents(events []domain.DrinkEvent, f Filter) []domain.DrinkEvent {
	out := make([]domain.DrinkEvent, 0, len(events))
	for _, e := range events {
		if f.Start != nil && e.Date < *f.Start {
			continue
		}
		if f.End != nil && e.Date > *f.End {
			continue
		}
		if f.ParticipantID != nil && e.ParticipantID != *f.ParticipantID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Stats holds the headline counts of a set of events.
type Stats struct {
	TotalEvents        int `json:"total_events"`
	UniqueParticipants int `json:"unique_participants"`
	UniqueDrinkTypes   int `json:"unique_drink_types"`
	UniqueDays         int `json:"unique_days"`
}

// StatsOf counts events and the distinct participants, drink types and days
// among them.
func StatsOf(events []domain.DrinkEvent) Stats {
	participants := make(map[uuid.UUID]struct{})
	drinkTypes := make(map[uuid.UUID]struct{})
	days := make(map[string]struct{})
	for _, e := range events {
		participants[e.ParticipantID] = struct{}{}
		drinkTypes[e.DrinkTypeID] = struct{}{}
		days[e.Date] = struct{}{}
	}
	return Stats{
		TotalEvents:        len(events),
		UniqueParticipants: len(participants),
		UniqueDrinkTypes:   len(drinkTypes),
		UniqueDays:         len(days),
	}
}

// Favorite is a participant's most frequent drink type.
type Favorite struct {
	ParticipantID    uuid.UUID `json:"participant_id"`
	ParticipantName  string    `json:"participant_name"`
	ParticipantPhoto string    `json:"participant_photo,omitempty"`
	DrinkTypeID      uuid.UUID `json:"drink_type_id"`
	DrinkTypeName    string    `json:"drink_type_name"`
	DrinkTypePhoto   string    `json:"drink_type_photo,omitempty"`
	Count            int       `json:"count"`
}

// FavoritesOf returns one Favorite per participant with at least one event,
// sorted by count descending. A tie between drink types goes to the one the
// participant drank first; a tie between participants keeps the order in
// which they first appear in events.
func FavoritesOf(events []domain.DrinkEvent, participants []domain.Participant, drinkTypes []domain.DrinkType) []Favorite {
	people := indexParticipants(participants)
	drinks := indexDrinkTypes(drinkTypes)

	tallies := tally(events)
	out := make([]Favorite, 0, len(tallies))
	for _, t := range tallies {
		var (
			bestID    uuid.UUID
			bestCount int
		)
		for _, c := range t.drinks {
			if c.n > bestCount {
				bestID, bestCount = c.id, c.n
			}
		}

		fav := Favorite{
			ParticipantID:   t.participantID,
			ParticipantName: unknownName,
			DrinkTypeID:     bestID,
			DrinkTypeName:   unknownName,
			Count:           bestCount,
		}
		if p, ok := people[t.participantID]; ok {
			fav.ParticipantName = p.Name
			fav.ParticipantPhoto = p.Photo
		}
		if d, ok := drinks[bestID]; ok {
			fav.DrinkTypeName = d.Name
			fav.DrinkTypePhoto = d.Photo
		}
		out = append(out, fav)
	}

	slices.SortStableFunc(out, func(a, b Favorite) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// Count is the number of events attributed to one catalog entry.
type Count struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Count int       `json:"count"`
}

// CountByParticipant counts events per participant, most active first.
func CountByParticipant(events []domain.DrinkEvent, participants []domain.Participant) []Count {
	people := indexParticipants(participants)
	return countBy(events, func(e domain.DrinkEvent) uuid.UUID { return e.ParticipantID }, func(id uuid.UUID) string {
		if p, ok := people[id]; ok {
			return p.Name
		}
		return unknownName
	})
}

// CountByDrinkType counts events per drink type, most popular first.
func CountByDrinkType(events []domain.DrinkEvent, drinkTypes []domain.DrinkType) []Count {
	drinks := indexDrinkTypes(drinkTypes)
	return countBy(events, func(e domain.DrinkEvent) uuid.UUID { return e.DrinkTypeID }, func(id uuid.UUID) string {
		if d, ok := drinks[id]; ok {
			return d.Name
		}
		return unknownName
	})
}

// DayCount is the number of events on one date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CountByDay counts events per date, oldest first.
func CountByDay(events []domain.DrinkEvent) []DayCount {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Date]++
	}
	out := make([]DayCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DayCount{Date: d, Count: n})
	}
	slices.SortFunc(out, func(a, b DayCount) int { return strings.Compare(a.Date, b.Date) })
	return out
}

// Breakdown is one participant's per-drink-type counts.
type Breakdown struct {
	ParticipantID   uuid.UUID `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	DrinkTypes      []Count   `json:"drink_types"`
}

// BreakdownOf returns, for every participant with events, how many of each
// drink type they had. Participants keep their first-appearance order.
func BreakdownOf(events []domain.DrinkEvent, participants []domain.Participant, drinkTypes []domain.DrinkType) []Breakdown {
	people := indexParticipants(participants)
	drinks := indexDrinkTypes(drinkTypes)

	tallies := tally(events)
	out := make([]Breakdown, 0, len(tallies))
	for _, t := range tallies {
		b := Breakdown{
			ParticipantID:   t.participantID,
			ParticipantName: unknownName,
			DrinkTypes:      make([]Count, 0, len(t.drinks)),
		}
		if p, ok := people[t.participantID]; ok {
			b.ParticipantName = p.Name
		}
		for _, c := range t.drinks {
			name := unknownName
			if d, ok := drinks[c.id]; ok {
				name = d.Name
			}
			b.DrinkTypes = append(b.DrinkTypes, Count{ID: c.id, Name: name, Count: c.n})
		}
		slices.SortStableFunc(b.DrinkTypes, func(x, y Count) int { return cmp.Compare(y.Count, x.Count) })
		out = append(out, b)
	}
	return out
}

// Report bundles every aggregate the analytics view shows.
type Report struct {
	Stats         Stats       `json:"stats"`
	FirstDate     string      `json:"first_date,omitempty"`
	LastDate      string      `json:"last_date,omitempty"`
	DaysSpan      int         `json:"days_span"`
	ByParticipant []Count     `json:"by_participant"`
	ByDrinkType   []Count     `json:"by_drink_type"`
	ByDay         []DayCount  `json:"by_day"`
	Breakdown     []Breakdown `json:"breakdown"`
	Favorites     []Favorite  `json:"favorites"`
}

// Summarize computes a full Report over events.
func Summarize(events []domain.DrinkEvent, participants []domain.Participant, drinkTypes []domain.DrinkType) Report {
	r := Report{
		Stats:         StatsOf(events),
		ByParticipant: CountByParticipant(events, participants),
		ByDrinkType:   CountByDrinkType(events, drinkTypes),
		ByDay:         CountByDay(events),
		Breakdown:     BreakdownOf(events, participants, drinkTypes),
		Favorites:     FavoritesOf(events, participants, drinkTypes),
	}
	if len(r.ByDay) > 0 {
		r.FirstDate = r.ByDay[0].Date
		r.LastDate = r.ByDay[len(r.ByDay)-1].Date
		r.DaysSpan = daysBetween(r.FirstDate, r.LastDate) + 1
	}
	return r
}

func daysBetween(from, to string) int {
	a, errA := time.Parse(domain.DateLayout, from)
	b, errB := time.Parse(domain.DateLayout, to)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// participantTally holds one participant's per-drink counts in the order
// the drink types were first seen.
type participantTally struct {
	participantID uuid.UUID
	drinks        []drinkCount
}

type drinkCount struct {
	id uuid.UUID
	n  int
}

// tally groups events by participant in a single pass.
func tally(events []domain.DrinkEvent) []*participantTally {
	var order []*participantTally
	byParticipant := make(map[uuid.UUID]*participantTally)
	for _, e := range events {
		t, ok := byParticipant[e.ParticipantID]
		if !ok {
			t = &participantTally{participantID: e.ParticipantID}
			byParticipant[e.ParticipantID] = t
			order = append(order, t)
		}
		i := slices.IndexFunc(t.drinks, func(c drinkCount) bool { return c.id == e.DrinkTypeID })
		if i < 0 {
			t.drinks = append(t.drinks, drinkCount{id: e.DrinkTypeID})
			i = len(t.drinks) - 1
		}
		t.drinks[i].n++
	}
	return order
}

func countBy(events []domain.DrinkEvent, key func(domain.DrinkEvent) uuid.UUID, name func(uuid.UUID) string) []Count {
	var out []Count
	pos := make(map[uuid.UUID]int)
	for _, e := range events {
		id := key(e)
		i, ok := pos[id]
		if !ok {
			i = len(out)
			pos[id] = i
			out = append(out, Count{ID: id, Name: name(id)})
		}
		out[i].Count++
	}
	if out == nil {
		out = []Count{}
	}
	slices.SortStableFunc(out, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

func indexParticipants(ps []domain.Participant) map[uuid.UUID]domain.Participant {
	m := make(map[uuid.UUID]domain.Participant, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return m
}

func indexDrinkTypes(ds []domain.DrinkType) map[uuid.UUID]domain.DrinkType {
	m := make(map[uuid.UUID]domain.DrinkType, len(ds))
	for _, d := range ds {
		m[d.ID] = d
	}
	return m
}
