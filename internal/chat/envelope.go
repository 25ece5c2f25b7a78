package chat

// Metadata keys attached to responses. Clients key off these to render
// artwork cards, navigation buttons, and location prompts.
const (
	MetaContentWarning     = "content_warning"
	MetaModerationSeverity = "moderation_severity"
	MetaArtworks           = "artworks"
	MetaItineraryPrompt    = "show_itinerary_prompt"
	MetaSuggestedLocations = "suggested_locations"
	MetaNavigation         = "navigation"
	MetaRequestLocation    = "request_location"
	MetaShowMap            = "show_map"
)

// Response is what the pipeline hands back for every message: reply
// text plus client-facing metadata. Metadata is always non-nil, possibly
// empty.
type Response struct {
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata"`
}

func newResponse(message string) Response {
	return Response{Message: message, Metadata: map[string]any{}}
}

// User identifies the message sender. FirstName is optional and used
// only for greeting personalization.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
}

// DisplayName prefers the first name and falls back to the username.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
