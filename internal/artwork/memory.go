package artwork

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/citypooh/Artinerary/internal/geo"
)

// MemoryRepository holds the dataset in memory. It backs the service
// when no database is configured and is the repository used in tests.
// The dataset watcher swaps its contents wholesale via Replace.
type MemoryRepository struct {
	mu       sync.RWMutex
	artworks []Artwork
}

func NewMemoryRepository(artworks ...Artwork) *MemoryRepository {
	return &MemoryRepository{artworks: artworks}
}

// Replace swaps the full dataset. Used on reload.
func (r *MemoryRepository) Replace(artworks []Artwork) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artworks = artworks
}

// Add appends a single record.
func (r *MemoryRepository) Add(a Artwork) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artworks = append(r.artworks, a)
}

// Len returns the current dataset size.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.artworks)
}

func (r *MemoryRepository) Nearby(ctx context.Context, lat, lon float64, limit int, radiusMiles float64) ([]View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nearby := make([]View, 0)
	for _, a := range r.artworks {
		if !a.HasCoordinates() {
			continue
		}
		d := geo.Distance(lat, lon, *a.Latitude, *a.Longitude)
		if d > radiusMiles {
			continue
		}
		v := a.View()
		rounded := math.Round(d*100) / 100
		v.Distance = &rounded
		nearby = append(nearby, v)
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return *nearby[i].Distance < *nearby[j].Distance
	})
	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

func (r *MemoryRepository) SearchText(ctx context.Context, query string, limit int) ([]View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	results := make([]View, 0)
	for _, a := range r.artworks {
		if containsFold(a.Title, q) || containsFold(a.Artist, q) ||
			containsFold(a.Location, q) || containsFold(a.Borough, q) ||
			containsFold(a.Medium, q) {
			results = append(results, a.View())
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (r *MemoryRepository) SearchByLocationText(ctx context.Context, location string, limit int) ([]View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(location)
	results := make([]View, 0)
	for _, a := range r.artworks {
		if !a.HasCoordinates() {
			continue
		}
		if containsFold(a.Location, q) || containsFold(a.Borough, q) {
			results = append(results, a.View())
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (r *MemoryRepository) ByBorough(ctx context.Context, borough string, limit int) ([]View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(borough)
	results := make([]View, 0)
	for _, a := range r.artworks {
		if !a.HasCoordinates() {
			continue
		}
		if containsFold(a.Borough, q) {
			results = append(results, a.View())
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (r *MemoryRepository) LocationMentioned(ctx context.Context, phrase string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(phrase)
	if q == "" {
		return false, nil
	}
	for _, a := range r.artworks {
		if containsFold(a.Location, q) {
			return true, nil
		}
	}
	return false, nil
}

// containsFold reports whether s contains the already-lowercased needle.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
