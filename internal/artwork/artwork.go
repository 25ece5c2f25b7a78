package artwork

import "context"

// Defaults substituted for missing text fields when a record is
// projected for a chat response. Fields are never left empty.
const (
	DefaultTitle    = "Untitled"
	DefaultArtist   = "Unknown"
	DefaultLocation = "Location not specified"
)

// Artwork is a geotagged public-art record as stored. Text fields may be
// empty and coordinates may be absent; only records with both
// coordinates are eligible for proximity queries.
type Artwork struct {
	ID        int64
	Title     string
	Artist    string
	Location  string
	Borough   string
	Medium    string
	Latitude  *float64
	Longitude *float64
}

// HasCoordinates reports whether both coordinates are present.
func (a Artwork) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// View is the artwork projection returned to chat clients, with
// defaulted text fields and an optional distance in miles.
type View struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist"`
	Location  string   `json:"location"`
	Borough   string   `json:"borough"`
	Medium    string   `json:"medium,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Distance  *float64 `json:"distance,omitempty"`
}

// View projects the record with defaults applied.
func (a Artwork) View() View {
	v := View{
		ID:        a.ID,
		Title:     a.Title,
		Artist:    a.Artist,
		Location:  a.Location,
		Borough:   a.Borough,
		Medium:    a.Medium,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
	if v.Title == "" {
		v.Title = DefaultTitle
	}
	if v.Artist == "" {
		v.Artist = DefaultArtist
	}
	if v.Location == "" {
		v.Location = DefaultLocation
	}
	return v
}

// Repository is the read-only query surface over the artwork dataset.
// Implementations must never let a single malformed record abort a
// whole query.
type Repository interface {
	// Nearby returns artworks within radiusMiles of the point, sorted
	// ascending by distance and truncated to limit. Records without
	// both coordinates are excluded.
	Nearby(ctx context.Context, lat, lon float64, limit int, radiusMiles float64) ([]View, error)

	// SearchText matches the query case-insensitively against title,
	// artist, location, borough and medium. Any field matching is
	// sufficient.
	SearchText(ctx context.Context, query string, limit int) ([]View, error)

	// SearchByLocationText matches location or borough, restricted to
	// records with coordinates.
	SearchByLocationText(ctx context.Context, location string, limit int) ([]View, error)

	// ByBorough matches the borough field, restricted to records with
	// coordinates.
	ByBorough(ctx context.Context, borough string, limit int) ([]View, error)

	// LocationMentioned reports whether any record's location text
	// contains the phrase. The location extractor uses it to reject
	// candidate phrases the dataset has never seen.
	LocationMentioned(ctx context.Context, phrase string) (bool, error)
}
