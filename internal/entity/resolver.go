// Package entity resolves @-markers in text against the player card dictionary.
package entity

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"SportsFeed/internal/domain"
	"SportsFeed/internal/ports"
)

var markerExpr = regexp.MustCompile(`@[a-zA-Z0-9çğıöşüÇĞİÖŞÜ]+`)

// Defaults is the built-in dictionary. Order matters: tags are appended in it.
var Defaults = []domain.Entity{
	{
		ID: "p4", Tag: "@Messi", Name: "Lionel Messi", Team: "Inter Miami",
		Stats:       domain.EntityStats{Matches: 900, Goals: 800, Assists: 350},
		ImageURL:    "https://images.unsplash.com/photo-1614632537197-38a17061c2bd?auto=format&fit=crop&q=80&w=500",
		Description: "Widely regarded as the best player in football history.",
		Keywords:    []string{"messi"},
	},
	{
		ID: "p5", Tag: "@Ronaldo", Name: "Cristiano Ronaldo", Team: "Al Nassr",
		Stats:       domain.EntityStats{Matches: 950, Goals: 850, Assists: 200},
		ImageURL:    "https://images.unsplash.com/photo-1530234621133-3b8227197f97?auto=format&fit=crop&q=80&w=500",
		Description: "A goal machine known for his drive and work rate.",
		Keywords:    []string{"ronaldo"},
	},
	{
		ID: "p2", Tag: "@Mbappe", Name: "Kylian Mbappé", Team: "Real Madrid",
		Stats:       domain.EntityStats{Matches: 30, Goals: 28, Assists: 10},
		ImageURL:    "https://images.unsplash.com/photo-1431324155629-1a6de134d478?auto=format&fit=crop&q=80&w=500",
		Description: "One of the fastest and most technical players in the world.",
		Keywords:    []string{"mbappe", "mbappé"},
	},
	{
		ID: "p1", Tag: "@Icardi", Name: "Mauro Icardi", Team: "Galatasaray",
		Stats:       domain.EntityStats{Matches: 25, Goals: 20, Assists: 6},
		ImageURL:    "https://images.unsplash.com/photo-1517466787929-bc90951d0974?auto=format&fit=crop&q=80&w=500",
		Description: "Argentine striker known for his finishing inside the box.",
		Keywords:    []string{"icardi"},
	},
}

// Segment is a piece of resolved text. Entity is set for a known marker.
type Segment struct {
	Text   string         `json:"text"`
	Entity *domain.Entity `json:"entity,omitempty"`
}

// Resolver tags and resolves entity markers.
type Resolver struct {
	entities []domain.Entity
	byTag    map[string]domain.Entity
}

var _ ports.Tagger = (*Resolver)(nil)

// NewResolver builds a resolver over entities; an empty list means Defaults.
func NewResolver(entities []domain.Entity) *Resolver {
	if len(entities) == 0 {
		entities = Defaults
	}
	entities = lo.Filter(entities, func(e domain.Entity, _ int) bool {
		return strings.HasPrefix(e.Tag, "@") && len(e.Tag) > 1
	})
	return &Resolver{
		entities: entities,
		byTag: lo.SliceToMap(entities, func(e domain.Entity) (string, domain.Entity) {
			return strings.ToLower(e.Tag), e
		}),
	}
}

// Entities lists the dictionary in tagging order.
func (r *Resolver) Entities() []domain.Entity {
	return append([]domain.Entity(nil), r.entities...)
}

// Lookup finds an entity by its marker, case-insensitively.
func (r *Resolver) Lookup(tag string) (domain.Entity, bool) {
	e, ok := r.byTag[strings.ToLower(tag)]
	return e, ok
}

// Tag appends " @Tag" for every entity whose keyword occurs in text. A marker
// already present in another form is appended again.
func (r *Resolver) Tag(text string) string {
	lower := strings.ToLower(text)
	tagged := text
	for _, e := range r.entities {
		if lo.SomeBy(keywords(e), func(kw string) bool { return strings.Contains(lower, kw) }) {
			tagged += " " + e.Tag
		}
	}
	return tagged
}

// Resolve splits text into plain and marker segments.
func (r *Resolver) Resolve(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range markerExpr.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		token := text[loc[0]:loc[1]]
		seg := Segment{Text: token}
		if e, ok := r.Lookup(token); ok {
			seg.Entity = &e
		}
		segments = append(segments, seg)
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

func keywords(e domain.Entity) []string {
	if len(e.Keywords) == 0 {
		return []string{strings.ToLower(strings.TrimPrefix(e.Tag, "@"))}
	}
	return lo.Map(e.Keywords, func(kw string, _ int) string { return strings.ToLower(kw) })
}
