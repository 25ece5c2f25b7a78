package llm

import (
	"strings"
	"sync"
)

// excludedKeywords filters out catalog entries that cannot serve plain
// text generation or are too unstable to rely on.
var excludedKeywords = []string{
	"preview",
	"experimental",
	"exp",
	"image",
	"embedding",
	"embed",
	"audio",
	"tts",
	"whisper",
	"realtime",
	"moderation",
	"dall-e",
}

// defaultPreferred orders model-name keywords by preference. Lighter
// models come first: chat replies are latency-sensitive and short.
var defaultPreferred = []string{"flash-lite", "flash", "mini"}

// Selector owns the process-wide "currently selected model" state. It
// is injectable so tests can assert fallback transitions; writes are
// last-writer-wins, which only affects which model is tried first.
type Selector struct {
	mu         sync.Mutex
	current    string
	candidates []string
}

// NewSelector filters the advertised catalog and picks an initial
// model by keyword preference, falling back to the first candidate.
func NewSelector(catalog []string, preferred []string) *Selector {
	if len(preferred) == 0 {
		preferred = defaultPreferred
	}

	var candidates []string
	for _, name := range catalog {
		if isExcluded(name) {
			continue
		}
		candidates = append(candidates, name)
	}

	current := ""
	for _, keyword := range preferred {
		for _, name := range candidates {
			if strings.Contains(strings.ToLower(name), keyword) {
				current = name
				break
			}
		}
		if current != "" {
			break
		}
	}
	if current == "" && len(candidates) > 0 {
		current = candidates[0]
	}

	return &Selector{current: current, candidates: candidates}
}

// Current returns the model that generation attempts start with.
func (s *Selector) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Candidates returns a copy of the eligible model list.
func (s *Selector) Candidates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Promote makes name the new current selection after a successful
// fallback generation.
func (s *Selector) Promote(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = name
}

func isExcluded(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range excludedKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
