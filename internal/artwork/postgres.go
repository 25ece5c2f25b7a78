package artwork

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/citypooh/Artinerary/internal/geo"
)

// PostgresRepository queries the artwork dataset in Postgres. Text
// matching uses ILIKE; proximity filtering happens in Go so that a
// single corrupt row can be skipped without failing the scan.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

const selectColumns = `
	id,
	COALESCE(title, ''),
	COALESCE(artist, ''),
	COALESCE(location, ''),
	COALESCE(borough, ''),
	COALESCE(medium, ''),
	latitude,
	longitude`

func (r *PostgresRepository) Nearby(ctx context.Context, lat, lon float64, limit int, radiusMiles float64) ([]View, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM artworks
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query nearby artworks: %w", err)
	}
	defer rows.Close()

	nearby := make([]View, 0)
	for rows.Next() {
		a, err := scanArtwork(rows.Scan)
		if err != nil {
			// One bad row must not abort the whole scan.
			log.Warn().Err(err).Msg("Skipping malformed artwork row")
			continue
		}
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nearby artworks: %w", err)
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return *nearby[i].Distance < *nearby[j].Distance
	})
	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

func (r *PostgresRepository) SearchText(ctx context.Context, query string, limit int) ([]View, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM artworks
		WHERE title ILIKE $1
		   OR artist ILIKE $1
		   OR location ILIKE $1
		   OR borough ILIKE $1
		   OR medium ILIKE $1
		ORDER BY id
		LIMIT $2`,
		"%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search artworks: %w", err)
	}
	defer rows.Close()
	return collectViews(rows.Next, rows.Scan, rows.Err)
}

func (r *PostgresRepository) SearchByLocationText(ctx context.Context, location string, limit int) ([]View, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM artworks
		WHERE (location ILIKE $1 OR borough ILIKE $1)
		  AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY id
		LIMIT $2`,
		"%"+location+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search artworks by location: %w", err)
	}
	defer rows.Close()
	return collectViews(rows.Next, rows.Scan, rows.Err)
}

func (r *PostgresRepository) ByBorough(ctx context.Context, borough string, limit int) ([]View, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM artworks
		WHERE borough ILIKE $1
		  AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY id
		LIMIT $2`,
		"%"+borough+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("query artworks by borough: %w", err)
	}
	defer rows.Close()
	return collectViews(rows.Next, rows.Scan, rows.Err)
}

func (r *PostgresRepository) LocationMentioned(ctx context.Context, phrase string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM artworks WHERE location ILIKE $1
		)`,
		"%"+phrase+"%").Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check location mention: %w", err)
	}
	return exists, nil
}

func scanArtwork(scan func(dest ...any) error) (Artwork, error) {
	var a Artwork
	err := scan(&a.ID, &a.Title, &a.Artist, &a.Location, &a.Borough, &a.Medium,
		&a.Latitude, &a.Longitude)
	return a, err
}

func collectViews(next func() bool, scan func(dest ...any) error, rowsErr func() error) ([]View, error) {
	results := make([]View, 0)
	for next() {
		a, err := scanArtwork(scan)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping malformed artwork row")
			continue
		}
		results = append(results, a.View())
	}
	if err := rowsErr(); err != nil {
		return nil, fmt.Errorf("iterate artwork rows: %w", err)
	}
	return results, nil
}
