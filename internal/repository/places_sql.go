package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/octobees/placepack/api/internal/entity"
)

// SQLPlacesRepository implements PlacesRepository on database/sql with the
// SQLite dialect. Timestamps are stored as unix milliseconds.
type SQLPlacesRepository struct {
	db *sql.DB
}

// NewSQLPlacesRepository wires a SQLite backed place cache.
func NewSQLPlacesRepository(db *sql.DB) *SQLPlacesRepository {
	return &SQLPlacesRepository{db: db}
}

// FindByID fetches a place without details.
func (r *SQLPlacesRepository) FindByID(ctx context.Context, id entity.PlaceID) (*entity.Place, error) {
	row := r.db.QueryRowContext(ctx, `SELECT place_id, latitude, longitude, created_at FROM places WHERE place_id = ?`, id.String())

	rec, err := scanSQLPlace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

// FindByIDWithDetails fetches a place and its cached details.
func (r *SQLPlacesRepository) FindByIDWithDetails(ctx context.Context, id entity.PlaceID) (*entity.PlaceWithDetails, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT p.place_id, p.latitude, p.longitude, p.created_at,
		       d.place_id, d.name, d.address, d.photo_reference, d.rating, d.review_count,
		       d.price_level, d.category_tag, d.phone, d.website, d.last_fetched_at
		FROM places p
		LEFT JOIN place_details_cache d ON d.place_id = p.place_id
		WHERE p.place_id = ?`, id.String())

	var (
		rec           placeRecord
		createdAt     int64
		detailsID     sql.NullString
		name          sql.NullString
		address       sql.NullString
		photoRef      sql.NullString
		rating        sql.NullFloat64
		reviewCount   sql.NullInt64
		priceLevel    sql.NullInt64
		categoryTag   sql.NullString
		phone         sql.NullString
		website       sql.NullString
		lastFetchedAt sql.NullInt64
	)
	err := row.Scan(
		&rec.PlaceID, &rec.Latitude, &rec.Longitude, &createdAt,
		&detailsID, &name, &address, &photoRef, &rating, &reviewCount,
		&priceLevel, &categoryTag, &phone, &website, &lastFetchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, storageErr("find place with details", err)
	}
	rec.CreatedAt = fromUnixMilli(createdAt)

	place, err := rec.toEntity()
	if err != nil {
		return nil, storageErr("decode place", err)
	}
	out := &entity.PlaceWithDetails{Place: place}
	if !detailsID.Valid {
		return out, nil
	}

	d := detailsRecord{
		PlaceID:        detailsID.String,
		Name:           name.String,
		Address:        nullString(address),
		PhotoReference: nullString(photoRef),
		Rating:         nullFloat(rating),
		ReviewCount:    nullInt(reviewCount),
		PriceLevel:     nullInt(priceLevel),
		CategoryTag:    nullString(categoryTag),
		Phone:          nullString(phone),
		Website:        nullString(website),
		LastFetchedAt:  fromUnixMilli(lastFetchedAt.Int64),
	}
	details, err := d.toEntity()
	if err != nil {
		return nil, storageErr("decode place details", err)
	}
	out.Details = &details
	return out, nil
}

// UpsertPlace inserts the place or updates its coordinates, keeping created_at.
func (r *SQLPlacesRepository) UpsertPlace(ctx context.Context, place entity.Place) (entity.Place, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO places (place_id, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (place_id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude
		RETURNING place_id, latitude, longitude, created_at`,
		place.ID().String(), place.Latitude().Float64(), place.Longitude().Float64(), toUnixMilli(place.CreatedAt()))

	rec, err := scanSQLPlace(row)
	if err != nil {
		return entity.Place{}, storageErr("upsert place", err)
	}
	stored, err := rec.toEntity()
	if err != nil {
		return entity.Place{}, storageErr("decode place", err)
	}
	return stored, nil
}

// UpsertDetails overwrites every column, clearing fields that are absent.
func (r *SQLPlacesRepository) UpsertDetails(ctx context.Context, details entity.PlaceDetails) (entity.PlaceDetails, error) {
	rec := recordFromDetails(details)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO place_details_cache (
			place_id, name, address, photo_reference, rating, review_count,
			price_level, category_tag, phone, website, last_fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (place_id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			photo_reference = excluded.photo_reference,
			rating = excluded.rating,
			review_count = excluded.review_count,
			price_level = excluded.price_level,
			category_tag = excluded.category_tag,
			phone = excluded.phone,
			website = excluded.website,
			last_fetched_at = excluded.last_fetched_at`,
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
		toUnixMilli(rec.LastFetchedAt),
	)
	if err != nil {
		return entity.PlaceDetails{}, storageErr("upsert place details", err)
	}
	return details, nil
}

// UpsertWithDetails writes the place and its details concurrently.
func (r *SQLPlacesRepository) UpsertWithDetails(ctx context.Context, place entity.Place, details entity.PlaceDetails) (entity.PlaceWithDetails, error) {
	return upsertPair(ctx, r, place, details)
}

func scanSQLPlace(row *sql.Row) (placeRecord, error) {
	var (
		rec       placeRecord
		createdAt int64
	)
	if err := row.Scan(&rec.PlaceID, &rec.Latitude, &rec.Longitude, &createdAt); err != nil {
		return placeRecord{}, err
	}
	rec.CreatedAt = fromUnixMilli(createdAt)
	return rec, nil
}
