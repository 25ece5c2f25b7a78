package location

import (
	"context"
	"regexp"
	"strings"
)

// Kind tags what granularity of place a match refers to.
type Kind string

const (
	KindBorough      Kind = "borough"
	KindNeighborhood Kind = "neighborhood"
)

// Match is the result of location extraction: a canonical place string
// and its kind. At most one match is produced per message.
type Match struct {
	Kind  Kind
	Value string
}

// Confirmer lets heuristic stages verify a candidate phrase against the
// artwork dataset before accepting it, to avoid matching arbitrary noun
// phrases.
type Confirmer interface {
	LocationMentioned(ctx context.Context, phrase string) (bool, error)
}

// Extractor recognizes location mentions in free-text messages. The
// strategies run in fixed order and the first success wins: boroughs,
// known neighborhoods, street patterns, landmark patterns, prepositional
// phrases, then a dataset-confirmed sliding window. Later stages are
// looser, which is why the dataset confirmation gates them.
type Extractor struct {
	repo       Confirmer
	strategies []strategy
}

type strategy func(ctx context.Context, lower string) (Match, bool)

func New(repo Confirmer) *Extractor {
	e := &Extractor{repo: repo}
	e.strategies = []strategy{
		e.matchBorough,
		e.matchNeighborhood,
		e.matchStreet,
		e.matchLandmark,
		e.matchPreposition,
		e.matchWindow,
	}
	return e
}

// Extract returns the first location match found in the message, if any.
func (e *Extractor) Extract(ctx context.Context, message string) (Match, bool) {
	lower := strings.ToLower(message)
	for _, s := range e.strategies {
		if m, ok := s(ctx, lower); ok {
			return m, true
		}
	}
	return Match{}, false
}

// boroughs are checked before anything else; order is fixed.
var boroughs = []struct {
	key   string
	value string
}{
	{"manhattan", "Manhattan"},
	{"brooklyn", "Brooklyn"},
	{"queens", "Queens"},
	{"bronx", "Bronx"},
	{"staten island", "Staten Island"},
}

func (e *Extractor) matchBorough(ctx context.Context, lower string) (Match, bool) {
	for _, b := range boroughs {
		if strings.Contains(lower, b.key) {
			return Match{Kind: KindBorough, Value: b.value}, true
		}
	}
	return Match{}, false
}

// neighborhoods is the fixed list of well-known NYC areas and landmarks.
var neighborhoods = []string{
	"central park",
	"times square",
	"soho",
	"tribeca",
	"chelsea",
	"harlem",
	"williamsburg",
	"dumbo",
	"astoria",
	"flushing",
	"greenpoint",
	"bushwick",
	"prospect park",
	"battery park",
	"high line",
	"midtown",
	"downtown",
	"uptown",
	"east village",
	"west village",
	"lower east side",
	"upper west side",
	"upper east side",
	"columbus circle",
	"union square",
	"washington square",
	"bryant park",
	"rockefeller",
	"lincoln center",
	"wall street",
	"chinatown",
	"little italy",
	"greenwich village",
	"financial district",
	"meatpacking",
	"flatiron",
	"gramercy",
	"murray hill",
	"hell's kitchen",
	"long island city",
	"red hook",
	"park slope",
	"cobble hill",
	"fort greene",
	"bed stuy",
	"crown heights",
	"sunset park",
	"broadway",
	"5th avenue",
	"fifth avenue",
	"herald square",
	"madison square",
	"nolita",
	"noho",
}

func (e *Extractor) matchNeighborhood(ctx context.Context, lower string) (Match, bool) {
	for _, n := range neighborhoods {
		if strings.Contains(lower, n) {
			return Match{Kind: KindNeighborhood, Value: n}, true
		}
	}
	return Match{}, false
}

// "place" is omitted from the suffix list: it collides with verb
// phrases ("take place") far more often than it names a street.
var streetRe = regexp.MustCompile(`\b([a-z0-9]+)\s+(st|street|ave|avenue|blvd|boulevard|rd|road|pkwy|parkway)\b`)

func (e *Extractor) matchStreet(ctx context.Context, lower string) (Match, bool) {
	m := streetRe.FindStringSubmatch(lower)
	if m == nil {
		return Match{}, false
	}
	name := m[1]
	if stopWords[name] {
		return Match{}, false
	}
	return Match{Kind: KindNeighborhood, Value: m[1] + " " + m[2]}, true
}

var landmarkRe = regexp.MustCompile(`\b([a-z0-9']+(?:\s+[a-z0-9']+)?)\s+(park|square|plaza|garden|gardens|circle|center)\b`)

// stopWords are stripped from a captured landmark span; they are query
// scaffolding, not part of a place name.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "at": true,
	"near": true, "around": true, "by": true, "to": true, "of": true,
	"me": true, "my": true, "some": true, "any": true, "show": true,
	"find": true, "see": true, "art": true, "artwork": true,
	"artworks": true, "visit": true, "about": true, "what": true,
	"whats": true, "is": true, "there": true,
}

func (e *Extractor) matchLandmark(ctx context.Context, lower string) (Match, bool) {
	m := landmarkRe.FindStringSubmatch(lower)
	if m == nil {
		return Match{}, false
	}
	var kept []string
	for _, word := range strings.Fields(m[1]) {
		if !stopWords[word] {
			kept = append(kept, word)
		}
	}
	if len(kept) == 0 {
		return Match{}, false
	}
	value := strings.Join(kept, " ") + " " + m[2]
	return Match{Kind: KindNeighborhood, Value: value}, true
}

var prepositionRe = regexp.MustCompile(`\b(?:near|in|at|around|by)\s+([a-z'][a-z']*(?:\s+[a-z'][a-z']*){0,2})`)

// fillers are phrases a prepositional pattern may capture that never
// name a place.
var fillers = map[string]bool{
	"me": true, "you": true, "us": true, "them": true, "it": true,
	"here": true, "there": true, "this": true, "that": true,
	"my": true, "your": true, "a": true, "an": true, "the": true,
	"general": true, "case": true, "fact": true, "order": true,
	"nyc": true, "new york": true, "new york city": true,
	"the city": true, "town": true,
}

func (e *Extractor) matchPreposition(ctx context.Context, lower string) (Match, bool) {
	m := prepositionRe.FindStringSubmatch(lower)
	if m == nil {
		return Match{}, false
	}
	candidate := strings.TrimSpace(m[1])
	// Drop trailing scaffolding words so "in dumbo today" tries "dumbo".
	words := strings.Fields(candidate)
	for len(words) > 0 && stopWords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	candidate = strings.Join(words, " ")
	if len(candidate) < 3 || fillers[candidate] {
		return Match{}, false
	}
	mentioned, err := e.repo.LocationMentioned(ctx, candidate)
	if err != nil || !mentioned {
		return Match{}, false
	}
	return Match{Kind: KindNeighborhood, Value: candidate}, true
}

// windowDenylist holds word sequences the sliding-window stage must not
// send to the dataset: generic chat phrasing that would otherwise
// produce spurious lookups.
var windowDenylist = map[string]bool{
	"show me art":      true,
	"me some art":      true,
	"can you show":     true,
	"what can i":       true,
	"i want to":        true,
	"is there any":     true,
	"art near me":      true,
	"do you know":      true,
	"show me":          true,
	"me art":           true,
	"any art":          true,
	"the map":          true,
	"art tour":         true,
	"public art":       true,
	"art in":           true,
	"art installations": true,
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9' ]+`)

func (e *Extractor) matchWindow(ctx context.Context, lower string) (Match, bool) {
	cleaned := nonWordRe.ReplaceAllString(lower, " ")
	words := strings.Fields(cleaned)
	for _, size := range []int{3, 2} {
		for i := 0; i+size <= len(words); i++ {
			phrase := strings.Join(words[i:i+size], " ")
			if windowDenylist[phrase] || allStopWords(words[i:i+size]) {
				continue
			}
			mentioned, err := e.repo.LocationMentioned(ctx, phrase)
			if err != nil {
				continue
			}
			if mentioned {
				return Match{Kind: KindNeighborhood, Value: phrase}, true
			}
		}
	}
	return Match{}, false
}

func allStopWords(words []string) bool {
	for _, w := range words {
		if !stopWords[w] && !fillers[w] {
			return false
		}
	}
	return true
}
