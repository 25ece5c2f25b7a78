package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citypooh/Artinerary/internal/artwork"
	"github.com/citypooh/Artinerary/internal/location"
	"github.com/citypooh/Artinerary/internal/moderation"
	"github.com/citypooh/Artinerary/internal/places"
)

func ptr(f float64) *float64 { return &f }

func testRepo() *artwork.MemoryRepository {
	return artwork.NewMemoryRepository(
		artwork.Artwork{
			ID: 1, Title: "Alice in Wonderland", Artist: "José de Creeft",
			Location: "Central Park, near E 74th St", Borough: "Manhattan", Medium: "Bronze",
			Latitude: ptr(40.7829), Longitude: ptr(-73.9654),
		},
		artwork.Artwork{
			ID: 2, Title: "Charging Bull", Artist: "Arturo Di Modica",
			Location: "Bowling Green, Columbus Circle area", Borough: "Manhattan", Medium: "Bronze",
			Latitude: ptr(40.7680), Longitude: ptr(-73.9819),
		},
		artwork.Artwork{
			ID: 3, Title: "Pink Flamingo", Artist: "Ann Smith",
			Location: "SoHo, Greene St", Borough: "Manhattan", Medium: "Steel",
			Latitude: ptr(40.7233), Longitude: ptr(-74.0030),
		},
	)
}

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func newTestProcessor(repo artwork.Repository, gen Generator) *Processor {
	return NewProcessor(repo, moderation.New(nil), location.New(repo), places.NewStaticAdvisor(), gen, NewRegistry())
}

func TestModerationRunsBeforeEverything(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "you stupid bot near central park", User{ID: "u1", Username: "sam"}, nil)

	assert.Equal(t, true, resp.Metadata[MetaContentWarning])
	assert.Equal(t, "warn", resp.Metadata[MetaModerationSeverity])
	assert.Contains(t, resp.Message, "respectful")
	// The location mention never reaches the retrieval rules.
	assert.NotContains(t, resp.Metadata, MetaArtworks)
}

func TestNearbyWithLocation(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)
	loc := map[string]any{"lat": 40.7829, "lng": -73.9654}

	resp := p.Process(context.Background(), "what artworks are nearby?", User{Username: "sam"}, loc)

	assert.Contains(t, resp.Message, "artworks near you!")
	assert.Equal(t, true, resp.Metadata[MetaItineraryPrompt])

	views, ok := resp.Metadata[MetaArtworks].([]artwork.View)
	require.True(t, ok)
	require.NotEmpty(t, views)
	// The co-located record sorts first at distance zero.
	require.NotNil(t, views[0].Distance)
	assert.Equal(t, 0.0, *views[0].Distance)
	assert.Equal(t, int64(1), views[0].ID)

	ids, ok := resp.Metadata[MetaSuggestedLocations].([]int64)
	require.True(t, ok)
	assert.Equal(t, views[0].ID, ids[0])
}

func TestNearbyWithoutLocationAsksForIt(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "show artworks near me", User{Username: "sam"}, nil)

	assert.Equal(t, true, resp.Metadata[MetaRequestLocation])
	assert.Contains(t, resp.Message, "share your location")
}

func TestNearbyWithMalformedCoordinates(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)
	loc := map[string]any{"lat": "invalid", "lng": "coords"}

	resp := p.Process(context.Background(), "anything nearby?", User{Username: "sam"}, loc)

	assert.Equal(t, true, resp.Metadata[MetaRequestLocation])
}

func TestNearbyNoResultsPointsAtMap(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)
	// Staten Island, far from every record.
	loc := map[string]any{"lat": 40.5795, "lng": -74.1502}

	resp := p.Process(context.Background(), "anything nearby?", User{Username: "sam"}, loc)

	assert.Contains(t, resp.Message, "within 2 miles")
	nav, ok := resp.Metadata[MetaNavigation].(Page)
	require.True(t, ok)
	assert.Equal(t, "Interactive Map", nav.Name)
}

func TestPlacesQueryCombinesArtAndDining(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "where can I eat near columbus circle", User{Username: "sam"}, nil)

	assert.Contains(t, resp.Message, "Here are public artworks in Columbus Circle!")
	assert.Contains(t, resp.Message, "Nearby dining options:")
	assert.Contains(t, resp.Message, "Per Se")
	assert.Equal(t, true, resp.Metadata[MetaItineraryPrompt])
}

func TestPlacesQueryWithoutArtworks(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "good restaurants in dumbo?", User{Username: "sam"}, nil)

	assert.Contains(t, resp.Message, "Here are some spots near Dumbo:")
	assert.Contains(t, resp.Message, "Juliana's Pizza")
	assert.NotContains(t, resp.Metadata, MetaArtworks)
}

func TestLocationQueryWithResults(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "show me art in soho", User{Username: "sam"}, nil)

	assert.Contains(t, resp.Message, "Here are public artworks in Soho!")
	assert.Contains(t, resp.Message, "Nearby Recreational Spots to Chill:")
	assert.Contains(t, resp.Message, "Balthazar")
	assert.Contains(t, resp.Message, "create an itinerary?")

	views, ok := resp.Metadata[MetaArtworks].([]artwork.View)
	require.True(t, ok)
	require.Len(t, views, 1)
	assert.Equal(t, int64(3), views[0].ID)
}

func TestLocationQueryWithoutResults(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "any art in bushwick?", User{Username: "sam"}, nil)

	assert.Contains(t, resp.Message, "Bushwick")
	assert.Equal(t, true, resp.Metadata[MetaShowMap])
	nav, ok := resp.Metadata[MetaNavigation].(Page)
	require.True(t, ok)
	assert.Equal(t, "Interactive Map", nav.Name)
}

func TestPageIntentAttachesNavigation(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "take me to the map", User{Username: "sam"}, nil)

	nav, ok := resp.Metadata[MetaNavigation].(Page)
	require.True(t, ok)
	assert.Equal(t, "Interactive Map", nav.Name)
	assert.NotEmpty(t, resp.Message)
}

func TestSearchFindsArtworks(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "find artwork flamingo", User{Username: "sam"}, nil)

	assert.Contains(t, resp.Message, "Found 1 artworks for 'flamingo'!")
	views, ok := resp.Metadata[MetaArtworks].([]artwork.View)
	require.True(t, ok)
	assert.Equal(t, "Pink Flamingo", views[0].Title)
}

func TestSearchWithNoResultsDefersToGeneral(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "find artwork zzzqqq", User{Username: "sam"}, nil)

	// With no model configured the general rule answers with the
	// default canned reply, which mentions the Events page.
	assert.Equal(t, defaultFallback, resp.Message)
	nav, ok := resp.Metadata[MetaNavigation].(Page)
	require.True(t, ok)
	assert.Equal(t, "Events", nav.Name)
}

func TestGreetingUsesFirstName(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "hi", User{Username: "sam", FirstName: "Test"}, nil)

	assert.Contains(t, resp.Message, "Hello Test!")
	assert.Contains(t, resp.Message, "ArtBot")
	assert.Empty(t, resp.Metadata)
}

func TestGreetingFallsBackToUsername(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "Hey!", User{Username: "sam"}, nil)

	assert.Contains(t, resp.Message, "Hello sam!")
}

func TestThanks(t *testing.T) {
	p := newTestProcessor(testRepo(), nil)

	resp := p.Process(context.Background(), "thanks!", User{Username: "sam"}, nil)

	assert.Contains(t, resp.Message, "You're welcome!")
}

func TestGeneralUsesModelReply(t *testing.T) {
	p := newTestProcessor(testRepo(), &stubGenerator{text: "Public art is everywhere in the five boroughs."})

	resp := p.Process(context.Background(), "tell me something interesting", User{Username: "sam"}, nil)

	assert.Equal(t, "Public art is everywhere in the five boroughs.", resp.Message)
	assert.Empty(t, resp.Metadata)
}

func TestGeneralModelFailureUsesFallback(t *testing.T) {
	p := newTestProcessor(testRepo(), &stubGenerator{err: errors.New("unavailable")})

	resp := p.Process(context.Background(), "tell me something interesting", User{Username: "sam"}, nil)

	assert.Equal(t, defaultFallback, resp.Message)
}

func TestGeneralReplyMentioningPageAttachesNavigation(t *testing.T) {
	p := newTestProcessor(testRepo(), &stubGenerator{text: "You can plan tours from My Itineraries."})

	resp := p.Process(context.Background(), "how do I plan a tour across boroughs", User{Username: "sam"}, nil)

	nav, ok := resp.Metadata[MetaNavigation].(Page)
	require.True(t, ok)
	assert.Equal(t, "My Itineraries", nav.Name)
}
