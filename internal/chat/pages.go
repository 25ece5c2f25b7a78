package chat

import "strings"

// Page is a navigable area of the site. The whole struct is sent to
// clients as navigation metadata.
type Page struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type pageEntry struct {
	key  string
	page Page
}

// Registry holds the site's navigable pages in a fixed order, which
// keeps intent detection and prompt context deterministic.
type Registry struct {
	entries []pageEntry
	byKey   map[string]Page
}

// NewRegistry returns the site page registry.
func NewRegistry() *Registry {
	entries := []pageEntry{
		{"map", Page{"/artinerary/", "Interactive Map",
			"Shows all NYC public artworks on an interactive map. Click markers to see details, filter by borough."}},
		{"artworks", Page{"/loc_detail/", "Browse Artworks",
			"Browse and search all public artworks. Filter by artist, location, or type."}},
		{"events", Page{"/events/", "Events",
			"Browse art events, join community tours, or create your own art meetups."}},
		{"itineraries", Page{"/itineraries/", "My Itineraries",
			"View and manage your saved art tour itineraries. Create new custom routes."}},
		{"favorites", Page{"/favorites/", "My Favorites",
			"View artworks you've saved to favorites. Add artworks by clicking the heart icon."}},
		{"profile", Page{"/user_profile/edit/", "My Profile",
			"Edit your profile info, change picture, update bio."}},
		{"dashboard", Page{"/dashboard/", "Dashboard",
			"Your home page with activity feed, recent itineraries, and recommendations."}},
		{"chat", Page{"/chat/", "Messages",
			"Chat with other users, discuss art, plan meetups."}},
	}
	byKey := make(map[string]Page, len(entries))
	for _, e := range entries {
		byKey[e.key] = e.page
	}
	return &Registry{entries: entries, byKey: byKey}
}

// Get looks up a page by key.
func (r *Registry) Get(key string) (Page, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

// Each calls fn for every page in registry order.
func (r *Registry) Each(fn func(key string, page Page)) {
	for _, e := range r.entries {
		fn(e.key, e.page)
	}
}

// pageKeywords maps intent phrases to page keys. Checked in order; the
// first phrase found in the message wins.
var pageKeywords = []struct {
	key      string
	keywords []string
}{
	{"map", []string{"map", "interactive map", "see map", "view map", "where is map"}},
	{"artworks", []string{"browse artwork", "see artwork", "view artwork", "all artwork", "browse art", "see art"}},
	{"events", []string{"event", "events", "attend", "meetup", "gathering", "join"}},
	{"itineraries", []string{"itinerary", "itineraries", "my tour", "my route", "saved tour"}},
	{"favorites", []string{"favorite", "favorites", "my favorite", "saved artwork", "liked", "my saved"}},
	{"profile", []string{"profile", "my profile", "edit profile", "account", "my account"}},
	{"dashboard", []string{"dashboard", "home page", "main page", "home"}},
	{"chat", []string{"chat", "message", "messages", "talk to user", "dm"}},
}

// DetectIntent returns the key of the page the message asks about.
func (r *Registry) DetectIntent(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, group := range pageKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.key, true
			}
		}
	}
	return "", false
}
