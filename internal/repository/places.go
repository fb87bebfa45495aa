package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/placepack/api/internal/entity"
)

// PlacesRepository persists the place cache. Upserts are idempotent and
// last-write-wins; created_at of an existing place is never modified.
type PlacesRepository interface {
	FindByID(ctx context.Context, id entity.PlaceID) (*entity.Place, error)
	FindByIDWithDetails(ctx context.Context, id entity.PlaceID) (*entity.PlaceWithDetails, error)
	UpsertPlace(ctx context.Context, place entity.Place) (entity.Place, error)
	UpsertDetails(ctx context.Context, details entity.PlaceDetails) (entity.PlaceDetails, error)
	UpsertWithDetails(ctx context.Context, place entity.Place, details entity.PlaceDetails) (entity.PlaceWithDetails, error)
}

type placeUpserter interface {
	UpsertPlace(ctx context.Context, place entity.Place) (entity.Place, error)
	UpsertDetails(ctx context.Context, details entity.PlaceDetails) (entity.PlaceDetails, error)
}

// upsertPair issues both writes concurrently. They are independent statements,
// so a failure of one does not roll back the other.
func upsertPair(ctx context.Context, r placeUpserter, place entity.Place, details entity.PlaceDetails) (entity.PlaceWithDetails, error) {
	if !place.ID().Equal(details.PlaceID()) {
		return entity.PlaceWithDetails{}, &entity.ValidationError{Field: "place_id", Reason: "details belong to a different place"}
	}

	var (
		storedPlace   entity.Place
		storedDetails entity.PlaceDetails
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := r.UpsertPlace(gctx, place)
		storedPlace = p
		return err
	})
	g.Go(func() error {
		d, err := r.UpsertDetails(gctx, details)
		storedDetails = d
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.PlaceWithDetails{}, err
	}
	return entity.PlaceWithDetails{Place: storedPlace, Details: &storedDetails}, nil
}

// PGXPlacesRepository implements PlacesRepository with pgx.
type PGXPlacesRepository struct {
	pool pgxPool
}

// NewPGXPlacesRepository wires a pgx backed place cache.
func NewPGXPlacesRepository(pool *pgxpool.Pool) *PGXPlacesRepository {
	return &PGXPlacesRepository{pool: pool}
}

// FindByID fetches a place without details.
func (r *PGXPlacesRepository) FindByID(ctx context.Context, id entity.PlaceID) (*entity.Place, error) {
	row := r.pool.QueryRow(ctx, `SELECT place_id, latitude, longitude, created_at FROM places WHERE place_id = $1`, id.String())

	var rec placeRecord
	if err := row.Scan(&rec.PlaceID, &rec.Latitude, &rec.Longitude, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, storageErr("find place", err)
	}

	place, err := rec.toEntity()
	if err != nil {
		return nil, storageErr("decode place", err)
	}
	return &place, nil
}

const pgFindWithDetailsSQL = `
        SELECT p.place_id, p.latitude, p.longitude, p.created_at,
               d.place_id, d.name, d.address, d.photo_reference, d.rating, d.review_count,
               d.price_level, d.category_tag, d.phone, d.website, d.last_fetched_at
        FROM places p
        LEFT JOIN place_details_cache d ON d.place_id = p.place_id
        WHERE p.place_id = $1
    `

// FindByIDWithDetails fetches a place and its cached details in one round trip.
func (r *PGXPlacesRepository) FindByIDWithDetails(ctx context.Context, id entity.PlaceID) (*entity.PlaceWithDetails, error) {
	row := r.pool.QueryRow(ctx, pgFindWithDetailsSQL, id.String())

	var (
		rec           placeRecord
		detailsID     *string
		name          *string
		lastFetchedAt *time.Time
		d             detailsRecord
	)
	err := row.Scan(
		&rec.PlaceID, &rec.Latitude, &rec.Longitude, &rec.CreatedAt,
		&detailsID, &name, &d.Address, &d.PhotoReference, &d.Rating, &d.ReviewCount,
		&d.PriceLevel, &d.CategoryTag, &d.Phone, &d.Website, &lastFetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, storageErr("find place with details", err)
	}

	place, err := rec.toEntity()
	if err != nil {
		return nil, storageErr("decode place", err)
	}
	out := &entity.PlaceWithDetails{Place: place}
	if detailsID == nil {
		return out, nil
	}

	d.PlaceID = *detailsID
	if name != nil {
		d.Name = *name
	}
	if lastFetchedAt != nil {
		d.LastFetchedAt = *lastFetchedAt
	}
	details, err := d.toEntity()
	if err != nil {
		return nil, storageErr("decode place details", err)
	}
	out.Details = &details
	return out, nil
}

// UpsertPlace inserts the place or updates its coordinates, keeping created_at.
func (r *PGXPlacesRepository) UpsertPlace(ctx context.Context, place entity.Place) (entity.Place, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO places (place_id, latitude, longitude, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (place_id) DO UPDATE SET
            latitude = EXCLUDED.latitude,
            longitude = EXCLUDED.longitude
        RETURNING place_id, latitude, longitude, created_at
    `, place.ID().String(), place.Latitude().Float64(), place.Longitude().Float64(), place.CreatedAt())

	var rec placeRecord
	if err := row.Scan(&rec.PlaceID, &rec.Latitude, &rec.Longitude, &rec.CreatedAt); err != nil {
		return entity.Place{}, storageErr("upsert place", err)
	}
	stored, err := rec.toEntity()
	if err != nil {
		return entity.Place{}, storageErr("decode place", err)
	}
	return stored, nil
}

// UpsertDetails overwrites every column, clearing fields that are absent.
func (r *PGXPlacesRepository) UpsertDetails(ctx context.Context, details entity.PlaceDetails) (entity.PlaceDetails, error) {
	rec := recordFromDetails(details)
	_, err := r.pool.Exec(ctx, `
        INSERT INTO place_details_cache (
            place_id,
            name,
            address,
            photo_reference,
            rating,
            review_count,
            price_level,
            category_tag,
            phone,
            website,
            last_fetched_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (place_id) DO UPDATE SET
            name = EXCLUDED.name,
            address = EXCLUDED.address,
            photo_reference = EXCLUDED.photo_reference,
            rating = EXCLUDED.rating,
            review_count = EXCLUDED.review_count,
            price_level = EXCLUDED.price_level,
            category_tag = EXCLUDED.category_tag,
            phone = EXCLUDED.phone,
            website = EXCLUDED.website,
            last_fetched_at = EXCLUDED.last_fetched_at
    `,
		rec.PlaceID,
		rec.Name,
		rec.Address,
		rec.PhotoReference,
		rec.Rating,
		rec.ReviewCount,
		rec.PriceLevel,
		rec.CategoryTag,
		rec.Phone,
		rec.Website,
		rec.LastFetchedAt,
	)
	if err != nil {
		return entity.PlaceDetails{}, storageErr("upsert place details", err)
	}
	return details, nil
}

// UpsertWithDetails writes the place and its details concurrently.
func (r *PGXPlacesRepository) UpsertWithDetails(ctx context.Context, place entity.Place, details entity.PlaceDetails) (entity.PlaceWithDetails, error) {
	return upsertPair(ctx, r, place, details)
}
