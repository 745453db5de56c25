package collage

import "strings"

// Kind says where a collage photo came from.
type Kind string

const (
	KindEvent     Kind = "event"
	KindDrinkType Kind = "drinkType"
)

// Item is one candidate photo for the collage.
// ImageData is an embedded image payload, normally a base64 data URL.
type Item struct {
	ImageData string
	Kind      Kind
}

// DedupeKey returns the approximate identity of an image payload: the part
// between 30% and 70% of the payload that follows the first comma.
// It is a heuristic, not a content hash.
func DedupeKey(data string) string {
	if i := strings.IndexByte(data, ','); i >= 0 {
		data = data[i+1:]
	}
	n := len(data)
	return data[n*3/10 : n*7/10]
}

// Prepare orders event photos ahead of drink-type photos (stable within each
// kind), drops empty and duplicate payloads and caps the list at MaxPhotos.
func Prepare(items []Item) []Item {
	ordered := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Kind == KindEvent {
			ordered = append(ordered, it)
		}
	}
	for _, it := range items {
		if it.Kind != KindEvent {
			ordered = append(ordered, it)
		}
	}

	seen := make(map[string]struct{}, len(ordered))
	out := make([]Item, 0, min(len(ordered), MaxPhotos))
	for _, it := range ordered {
		if it.ImageData == "" {
			continue
		}
		key := DedupeKey(it.ImageData)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
		if len(out) == MaxPhotos {
			break
		}
	}
	return out
}
