// Package reports assembles the holistic report: derived labels from the
// assessment data, an LLM prose expansion, and the final HTML documents.
package reports

import "sort"

// Quadrant percentages from the star card. They usually sum to 100 but the
// classifier does not depend on that.
type Quadrants struct {
	Thinking int `json:"thinking"`
	Acting   int `json:"acting"`
	Feeling  int `json:"feeling"`
	Planning int `json:"planning"`
}

// Pattern buckets for the gap between the top two quadrants.
const (
	PatternDominant      = "Dominant Strength"
	PatternBalanced      = "Balanced Profile"
	PatternComplementary = "Complementary Strengths"
	PatternDistinctive   = "Distinctive Profile"
)

// Constellation is the derived strengths label.
type Constellation struct {
	Archetype string   `json:"archetype"`
	Pattern   string   `json:"pattern"`
	Ordered   []string `json:"ordered"`
}

// archetypes maps the top-two quadrant pair, in rank order, to a name.
var archetypes = map[[2]string]string{
	{"Thinking", "Acting"}:   "Strategic Executor",
	{"Thinking", "Feeling"}:  "Insightful Connector",
	{"Thinking", "Planning"}: "Systematic Analyst",
	{"Acting", "Thinking"}:   "Decisive Strategist",
	{"Acting", "Feeling"}:    "Energizing Catalyst",
	{"Acting", "Planning"}:   "Dynamic Organizer",
	{"Feeling", "Thinking"}:  "Empathic Sage",
	{"Feeling", "Acting"}:    "Inspiring Mobilizer",
	{"Feeling", "Planning"}:  "Supportive Architect",
	{"Planning", "Thinking"}: "Methodical Thinker",
	{"Planning", "Acting"}:   "Structured Driver",
	{"Planning", "Feeling"}:  "Thoughtful Steward",
}

const fallbackArchetype = "Unique Constellation"

// Classify derives the constellation label. It is a pure function of the
// four percentages; the same input always yields the same label.
//
// Sort is stable over the fixed Thinking, Acting, Feeling, Planning input
// order, so ties resolve deterministically.
func Classify(q Quadrants) Constellation {
	type entry struct {
		name  string
		value int
	}
	entries := []entry{
		{"Thinking", q.Thinking},
		{"Acting", q.Acting},
		{"Feeling", q.Feeling},
		{"Planning", q.Planning},
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})

	ordered := make([]string, len(entries))
	for i, e := range entries {
		ordered[i] = e.name
	}

	top, second := entries[0], entries[1]
	gap := top.value - second.value

	// The gap between rank 1 and rank 2 picks the bucket.
	var pattern string
	switch {
	case gap >= 40:
		pattern = PatternDominant
	case gap <= 5:
		pattern = PatternBalanced
	case gap <= 10:
		pattern = PatternComplementary
	default:
		pattern = PatternDistinctive
	}

	archetype, ok := archetypes[[2]string{top.name, second.name}]
	if !ok {
		archetype = fallbackArchetype
	}

	return Constellation{
		Archetype: archetype,
		Pattern:   pattern,
		Ordered:   ordered,
	}
}
