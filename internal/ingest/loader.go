package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/citypooh/Artinerary/internal/artwork"
)

// record is the artwork dataset's on-disk shape, one entry per public
// artwork. Coordinates are optional; records without them stay
// searchable but never appear in proximity results.
type record struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist"`
	Location  string   `json:"location"`
	Borough   string   `json:"borough"`
	Medium    string   `json:"medium"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Loader fills the in-memory repository from JSON dataset files.
type Loader struct {
	repo *artwork.MemoryRepository
}

func NewLoader(repo *artwork.MemoryRepository) *Loader {
	return &Loader{repo: repo}
}

// LoadFromFile replaces the repository contents with the records in the
// file. The swap is atomic from the point of view of concurrent queries.
func (l *Loader) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer file.Close()

	var records []record
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return fmt.Errorf("decode dataset %s: %w", path, err)
	}

	artworks := make([]artwork.Artwork, 0, len(records))
	for _, r := range records {
		artworks = append(artworks, artwork.Artwork{
			ID:        r.ID,
			Title:     r.Title,
			Artist:    r.Artist,
			Location:  r.Location,
			Borough:   r.Borough,
			Medium:    r.Medium,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	l.repo.Replace(artworks)

	log.Info().Str("path", path).Int("artworks", len(artworks)).Msg("Dataset loaded")
	return nil
}

// LoadSampleData seeds the repository with a handful of well-known NYC
// public artworks so the service is usable without a dataset file.
func (l *Loader) LoadSampleData() {
	f := func(v float64) *float64 { return &v }
	samples := []artwork.Artwork{
		{ID: 1, Title: "Alice in Wonderland", Artist: "José de Creeft",
			Location: "Central Park, east of Conservatory Water", Borough: "Manhattan",
			Medium: "Bronze", Latitude: f(40.7749), Longitude: f(-73.9665)},
		{ID: 2, Title: "Charging Bull", Artist: "Arturo Di Modica",
			Location: "Bowling Green, Broadway", Borough: "Manhattan",
			Medium: "Bronze", Latitude: f(40.7056), Longitude: f(-74.0134)},
		{ID: 3, Title: "The Sphere", Artist: "Fritz Koenig",
			Location: "Liberty Park, Financial District", Borough: "Manhattan",
			Medium: "Bronze and steel", Latitude: f(40.7105), Longitude: f(-74.0134)},
		{ID: 4, Title: "Atlas", Artist: "Lee Lawrie",
			Location: "Rockefeller Center, Fifth Avenue", Borough: "Manhattan",
			Medium: "Bronze", Latitude: f(40.7587), Longitude: f(-73.9787)},
		{ID: 5, Title: "LOVE", Artist: "Robert Indiana",
			Location: "Sixth Avenue at W 55th St, Midtown", Borough: "Manhattan",
			Medium: "Painted aluminum", Latitude: f(40.7631), Longitude: f(-73.9773)},
		{ID: 6, Title: "Unisphere", Artist: "Gilmore D. Clarke",
			Location: "Flushing Meadows-Corona Park", Borough: "Queens",
			Medium: "Stainless steel", Latitude: f(40.7459), Longitude: f(-73.8450)},
		{ID: 7, Title: "OY/YO", Artist: "Deborah Kass",
			Location: "Brooklyn Bridge Park, Dumbo", Borough: "Brooklyn",
			Medium: "Painted aluminum", Latitude: f(40.7033), Longitude: f(-73.9910)},
		{ID: 8, Title: "Mosaic House", Artist: "Susan Gardner",
			Location: "Wyckoff Street, Boerum Hill", Borough: "Brooklyn",
			Medium: "Mosaic", Latitude: f(40.6857), Longitude: f(-73.9852)},
		{ID: 9, Title: "Keith Haring Mural", Artist: "Keith Haring",
			Location: "Carmine Street pool, West Village", Borough: "Manhattan",
			Medium: "Mural", Latitude: f(40.7303), Longitude: f(-74.0037)},
		{ID: 10, Title: "Hall of Fame for Great Americans", Artist: "Stanford White",
			Location: "Bronx Community College", Borough: "Bronx",
			Medium: "Colonnade", Latitude: f(40.8578), Longitude: f(-73.9125)},
	}
	l.repo.Replace(samples)
	log.Info().Int("artworks", len(samples)).Msg("Sample dataset loaded")
}
