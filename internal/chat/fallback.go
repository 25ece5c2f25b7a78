package chat

import "strings"

// fallbackGroups map message keywords to canned replies used when the
// language model is unavailable. Checked in order.
var fallbackGroups = []struct {
	keywords []string
	reply    string
}{
	{[]string{"map", "where is the map"},
		"The interactive map shows all NYC public artworks! " +
			"You can click on markers to see artwork details, " +
			"filter by borough, and plan your route. " +
			"Would you like me to take you there?"},
	{[]string{"event", "attend", "join"},
		"You can browse art events, join community tours, " +
			"or create your own meetups on the Events page. " +
			"It's a great way to explore art with others! " +
			"Want me to show you the events?"},
	{[]string{"favorite", "saved", "liked"},
		"Your favorites are artworks you've saved by clicking " +
			"the heart icon. You can view all your saved artworks " +
			"in My Favorites. Would you like to see them?"},
	{[]string{"profile", "account"},
		"In your profile, you can update your info, " +
			"change your picture, and add a bio. " +
			"Would you like to edit your profile?"},
	{[]string{"itinerary", "tour", "route", "plan"},
		"You can create custom art tour itineraries! " +
			"Add artworks, arrange your stops, and save routes. " +
			"Tell me an area and I can suggest artworks to include."},
	{[]string{"dashboard", "home"},
		"Your dashboard shows your activity, recent itineraries, " +
			"and personalized recommendations. " +
			"Would you like to go to your dashboard?"},
	{[]string{"chat", "message", "talk"},
		"You can chat with other art enthusiasts, " +
			"discuss artworks, and plan meetups together. " +
			"Would you like to see your messages?"},
	{[]string{"visit", "places", "where", "what can i", "suggestions"},
		"I can help you discover NYC public art! " +
			"Try asking about a specific area like 'Show me art in " +
			"Central Park' or 'What's in Brooklyn?' " +
			"You can also explore our interactive map."},
}

const defaultFallback = "I'm here to help you explore NYC public art! " +
	"You can ask me about artworks in specific areas, " +
	"website features like the map or events, " +
	"or how to plan an art tour. What interests you?"

// fallbackResponse picks a canned reply matching the message topic.
func fallbackResponse(message string) string {
	lower := strings.ToLower(message)
	for _, group := range fallbackGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.reply
			}
		}
	}
	return defaultFallback
}
