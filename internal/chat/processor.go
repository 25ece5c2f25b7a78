package chat

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/citypooh/Artinerary/internal/artwork"
	"github.com/citypooh/Artinerary/internal/location"
	"github.com/citypooh/Artinerary/internal/moderation"
	"github.com/citypooh/Artinerary/internal/places"
)

const (
	nearbyLimit       = 5
	nearbyRadiusMiles = 2.0
	locationLimit     = 6
	searchLimit       = 10
)

// Generator is the slice of the LLM responder the pipeline needs. A nil
// generator degrades every open-ended reply to a canned fallback.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Processor routes each inbound message through an ordered rule list;
// the first rule that handles the message produces the response. The
// final rule always handles, so Process never fails.
type Processor struct {
	repo      artwork.Repository
	moderator *moderation.Moderator
	extractor *location.Extractor
	advisor   places.Advisor
	responder Generator
	pages     *Registry
	rules     []rule
	log       zerolog.Logger
}

type rule struct {
	name   string
	handle func(ctx context.Context, req *request) (Response, bool)
}

// request carries per-message state across rules. Location extraction
// is cached so the places and location rules don't run the strategies
// twice.
type request struct {
	message string
	lower   string
	user    User
	point   Point
	located bool

	locDone  bool
	locMatch location.Match
	locOK    bool
}

func NewProcessor(repo artwork.Repository, moderator *moderation.Moderator, extractor *location.Extractor, advisor places.Advisor, responder Generator, pages *Registry) *Processor {
	p := &Processor{
		repo:      repo,
		moderator: moderator,
		extractor: extractor,
		advisor:   advisor,
		responder: responder,
		pages:     pages,
		log:       log.With().Str("component", "chat").Logger(),
	}
	p.rules = []rule{
		{"moderation", p.handleModeration},
		{"nearby", p.handleNearby},
		{"places", p.handlePlaces},
		{"location", p.handleLocation},
		{"page_intent", p.handlePageIntent},
		{"navigation", p.handleNavigation},
		{"search", p.handleSearch},
		{"greeting", p.handleGreeting},
		{"thanks", p.handleThanks},
		{"general", p.handleGeneral},
	}
	return p
}

// Process runs the message through the rule list and returns the first
// response produced. The location payload is optional and loosely typed.
func (p *Processor) Process(ctx context.Context, message string, user User, loc map[string]any) Response {
	req := &request{
		message: strings.TrimSpace(message),
		lower:   strings.ToLower(strings.TrimSpace(message)),
		user:    user,
	}
	req.point, req.located = ParsePoint(loc)

	for _, r := range p.rules {
		if resp, ok := r.handle(ctx, req); ok {
			p.log.Debug().Str("rule", r.name).Str("user", user.Username).Msg("Message handled")
			return resp
		}
	}
	// Unreachable: the general rule always handles.
	return newResponse(defaultFallback)
}

func (p *Processor) handleModeration(ctx context.Context, req *request) (Response, bool) {
	flagged, severity := p.moderator.Screen(ctx, req.user.ID, req.message)
	if !flagged {
		return Response{}, false
	}
	resp := newResponse(moderation.WarningResponse(severity))
	resp.Metadata[MetaContentWarning] = true
	resp.Metadata[MetaModerationSeverity] = string(severity)
	return resp, true
}

var nearbyKeywords = []string{
	"nearby", "near me", "around me", "close by", "close to me", "closest", "nearest",
}

func (p *Processor) handleNearby(ctx context.Context, req *request) (Response, bool) {
	if !containsAny(req.lower, nearbyKeywords) {
		return Response{}, false
	}
	if !req.located {
		resp := newResponse("To find nearby artworks, please share your location using the 📍 button below.")
		resp.Metadata[MetaRequestLocation] = true
		return resp, true
	}

	views, err := p.repo.Nearby(ctx, req.point.Lat, req.point.Lon, nearbyLimit, nearbyRadiusMiles)
	if err != nil {
		p.log.Error().Err(err).Msg("Nearby query failed")
	}
	if len(views) == 0 {
		resp := newResponse("I couldn't find artworks within 2 miles. Try exploring a specific neighborhood or the map!")
		p.attachPage(resp.Metadata, "map")
		return resp, true
	}

	resp := newResponse(fmt.Sprintf(
		"Found %d artworks near you!\n\nWould you like to create an itinerary with these?", len(views)))
	attachArtworks(resp.Metadata, views)
	return resp, true
}

var diningKeywords = []string{
	"restaurant", "restaurants", "food", "eat", "dining",
	"bar", "bars", "drink", "drinks", "pub", "cafe", "coffee",
	"entertainment", "nightlife", "club",
}

func (p *Processor) handlePlaces(ctx context.Context, req *request) (Response, bool) {
	if !containsAny(req.lower, diningKeywords) {
		return Response{}, false
	}
	match, ok := p.locationOf(ctx, req)
	if !ok {
		return Response{}, false
	}

	// The artwork lookup and the venue suggestion are independent;
	// fetch them concurrently.
	var (
		views []artwork.View
		info  string
		found bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		views, err = p.artworksFor(gctx, match)
		return err
	})
	g.Go(func() error {
		info, found = p.advisor.Suggest(gctx, match.Value)
		return nil
	})
	if err := g.Wait(); err != nil {
		p.log.Error().Err(err).Str("location", match.Value).Msg("Artwork lookup failed")
		views = nil
	}

	area := titleCase(match.Value)
	if len(views) > 0 {
		msg := fmt.Sprintf("Here are public artworks in %s!\n\n", area)
		if found {
			msg += fmt.Sprintf("Nearby dining options:\n%s\n\nWould you like to create an art itinerary?", info)
		} else {
			msg += "For dining, I recommend Google Maps or Yelp for current options.\n\nWould you like to create an art itinerary?"
		}
		resp := newResponse(msg)
		attachArtworks(resp.Metadata, views)
		return resp, true
	}
	if found {
		return newResponse(fmt.Sprintf(
			"Here are some spots near %s:\n\n%s\n\nI can also help you find art in this area!", area, info)), true
	}
	return newResponse(p.respond(ctx, req)), true
}

func (p *Processor) handleLocation(ctx context.Context, req *request) (Response, bool) {
	match, ok := p.locationOf(ctx, req)
	if !ok {
		return Response{}, false
	}

	views, err := p.artworksFor(ctx, match)
	if err != nil {
		p.log.Error().Err(err).Str("location", match.Value).Msg("Artwork lookup failed")
	}
	area := titleCase(match.Value)
	if len(views) == 0 {
		resp := newResponse(fmt.Sprintf(
			"I don't have artworks listed for %s yet. The interactive map is the best way to browse what's around there!", area))
		p.attachPage(resp.Metadata, "map")
		resp.Metadata[MetaShowMap] = true
		return resp, true
	}

	msg := fmt.Sprintf("Here are public artworks in %s!", area)
	if info, found := p.advisor.Suggest(ctx, match.Value); found {
		msg += fmt.Sprintf("\n\nNearby Recreational Spots to Chill:\n%s", info)
	}
	msg += "\n\nWould you like to create an itinerary?"

	resp := newResponse(msg)
	attachArtworks(resp.Metadata, views)
	return resp, true
}

func (p *Processor) handlePageIntent(ctx context.Context, req *request) (Response, bool) {
	key, ok := p.pages.DetectIntent(req.message)
	if !ok {
		return Response{}, false
	}
	page, ok := p.pages.Get(key)
	if !ok {
		return Response{}, false
	}
	resp := newResponse(p.respond(ctx, req))
	resp.Metadata[MetaNavigation] = page
	return resp, true
}

var navigationKeywords = []string{"go to", "take me", "open", "navigate to", "show me the"}

func (p *Processor) handleNavigation(_ context.Context, req *request) (Response, bool) {
	if !containsAny(req.lower, navigationKeywords) {
		return Response{}, false
	}
	var resp Response
	handled := false
	p.pages.Each(func(key string, page Page) {
		if handled {
			return
		}
		if strings.Contains(req.lower, key) || strings.Contains(req.lower, strings.ToLower(page.Name)) {
			resp = newResponse(fmt.Sprintf("Taking you to %s!", page.Name))
			resp.Metadata[MetaNavigation] = page
			handled = true
		}
	})
	return resp, handled
}

var searchKeywords = []string{"find artwork", "search for", "look for artwork"}

// searchStripWords are removed from the message to leave the bare search
// terms. Order matters: "artwork" is stripped before "artworks", leaving
// a stray "s" behind, matching long-standing client expectations.
var searchStripWords = []string{
	"find", "search", "look for", "artwork", "artworks", "art", "the", "some", "any", "for",
}

func (p *Processor) handleSearch(ctx context.Context, req *request) (Response, bool) {
	if !containsAny(req.lower, searchKeywords) {
		return Response{}, false
	}
	terms := req.lower
	for _, w := range searchStripWords {
		terms = strings.ReplaceAll(terms, w, "")
	}
	terms = strings.TrimSpace(terms)
	if len(terms) <= 2 {
		return Response{}, false
	}

	views, err := p.repo.SearchText(ctx, terms, searchLimit)
	if err != nil {
		p.log.Error().Err(err).Str("terms", terms).Msg("Search query failed")
		return Response{}, false
	}
	if len(views) == 0 {
		// Defer to the general rule so the user still gets a helpful reply.
		return Response{}, false
	}

	resp := newResponse(fmt.Sprintf("Found %d artworks for '%s'!", len(views), terms))
	attachArtworks(resp.Metadata, views)
	return resp, true
}

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true,
	"hi!": true, "hello!": true, "hey!": true,
}

func (p *Processor) handleGreeting(_ context.Context, req *request) (Response, bool) {
	if !greetings[req.lower] {
		return Response{}, false
	}
	return newResponse(fmt.Sprintf(
		"Hello %s! I'm ArtBot, your NYC public art guide.\n\n"+
			"I can help you find artworks, explore the map, "+
			"browse events, or plan an art tour. "+
			"What would you like to do?", req.user.DisplayName())), true
}

var thanksKeywords = []string{"thank", "thanks", "thx", "appreciate"}

func (p *Processor) handleThanks(_ context.Context, req *request) (Response, bool) {
	if !containsAny(req.lower, thanksKeywords) {
		return Response{}, false
	}
	return newResponse("You're welcome! Happy to help you explore NYC's " +
		"amazing public art. Let me know if you need anything else!"), true
}

func (p *Processor) handleGeneral(ctx context.Context, req *request) (Response, bool) {
	resp := newResponse(p.respond(ctx, req))

	// Offer a navigation button when the reply mentions a page by name.
	replyLower := strings.ToLower(resp.Message)
	attached := false
	p.pages.Each(func(_ string, page Page) {
		if attached {
			return
		}
		if strings.Contains(replyLower, strings.ToLower(page.Name)) {
			resp.Metadata[MetaNavigation] = page
			attached = true
		}
	})
	return resp, true
}

// respond asks the language model for a reply and degrades to a canned
// fallback when no model is available.
func (p *Processor) respond(ctx context.Context, req *request) string {
	if p.responder == nil {
		return fallbackResponse(req.message)
	}
	text, err := p.responder.Generate(ctx, p.buildPrompt(req))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			p.log.Warn().Err(err).Msg("Using fallback response")
		}
		return fallbackResponse(req.message)
	}
	return text
}

func (p *Processor) buildPrompt(req *request) string {
	var pagesContext strings.Builder
	p.pages.Each(func(_ string, page Page) {
		fmt.Fprintf(&pagesContext, "- %s (%s): %s\n", page.Name, page.URL, page.Description)
	})

	return fmt.Sprintf(`You are ArtBot, a friendly and helpful AI assistant for Artinerary - a platform for exploring NYC public art.

WEBSITE FEATURES:
%s
YOUR CAPABILITIES:
1. Help users find public artworks in NYC neighborhoods
2. Guide users to website features (map, events, favorites, etc.)
3. Answer questions about NYC public art
4. Help plan art tours and itineraries
5. Provide information about website features

RESPONSE GUIDELINES:
- Be conversational, friendly, and helpful
- Keep responses concise (2-4 sentences typically)
- When users ask about website features, explain AND offer to take them there
- For art location queries, suggest specific neighborhoods or use the map
- Do NOT use markdown formatting (no **, ##, bullet points with *)
- Use plain text with natural line breaks
- If asked about non-art topics, briefly acknowledge then redirect to art

CONTEXT: User %q is asking: %q
`, pagesContext.String(), req.user.Username, req.message)
}

// locationOf extracts and caches the message's location match.
func (p *Processor) locationOf(ctx context.Context, req *request) (location.Match, bool) {
	if !req.locDone {
		req.locMatch, req.locOK = p.extractor.Extract(ctx, req.message)
		req.locDone = true
	}
	return req.locMatch, req.locOK
}

// artworksFor queries by borough or by location text depending on the
// match kind.
func (p *Processor) artworksFor(ctx context.Context, match location.Match) ([]artwork.View, error) {
	if match.Kind == location.KindBorough {
		return p.repo.ByBorough(ctx, match.Value, locationLimit)
	}
	return p.repo.SearchByLocationText(ctx, match.Value, locationLimit)
}

func (p *Processor) attachPage(meta map[string]any, key string) {
	if page, ok := p.pages.Get(key); ok {
		meta[MetaNavigation] = page
	}
}

func attachArtworks(meta map[string]any, views []artwork.View) {
	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	meta[MetaArtworks] = views
	meta[MetaItineraryPrompt] = true
	meta[MetaSuggestedLocations] = ids
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
