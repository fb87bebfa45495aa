package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/octobees/placepack/api/internal/entity"
)

// placeRecord and detailsRecord are the column level shapes shared by the
// Postgres and SQLite implementations.
type placeRecord struct {
	PlaceID   string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

func (r placeRecord) toEntity() (entity.Place, error) {
	id, err := entity.NewPlaceID(r.PlaceID)
	if err != nil {
		return entity.Place{}, err
	}
	lat, err := entity.NewLatitude(r.Latitude)
	if err != nil {
		return entity.Place{}, err
	}
	lng, err := entity.NewLongitude(r.Longitude)
	if err != nil {
		return entity.Place{}, err
	}
	return entity.NewPlace(id, lat, lng, r.CreatedAt)
}

type detailsRecord struct {
	PlaceID        string
	Name           string
	Address        *string
	PhotoReference *string
	Rating         *float64
	ReviewCount    *int
	PriceLevel     *int
	CategoryTag    *string
	Phone          *string
	Website        *string
	LastFetchedAt  time.Time
}

func recordFromDetails(d entity.PlaceDetails) detailsRecord {
	rec := detailsRecord{
		PlaceID:        d.PlaceID().String(),
		Name:           d.Name(),
		Address:        d.Address(),
		PhotoReference: d.PhotoReference(),
		ReviewCount:    d.ReviewCount(),
		LastFetchedAt:  d.LastFetchedAt(),
	}
	if r := d.Rating(); r != nil {
		v := r.Float64()
		rec.Rating = &v
	}
	if p := d.PriceLevel(); p != nil {
		v := p.Int()
		rec.PriceLevel = &v
	}
	if c := d.CategoryTag(); c != nil {
		v := c.String()
		rec.CategoryTag = &v
	}
	if p := d.Phone(); p != nil {
		v := p.String()
		rec.Phone = &v
	}
	if w := d.Website(); w != nil {
		v := w.String()
		rec.Website = &v
	}
	return rec
}

// toEntity rebuilds validated details. Stored values that no longer pass
// validation surface as an error rather than being silently dropped.
func (r detailsRecord) toEntity() (entity.PlaceDetails, error) {
	id, err := entity.NewPlaceID(r.PlaceID)
	if err != nil {
		return entity.PlaceDetails{}, err
	}
	params := entity.PlaceDetailsParams{
		PlaceID:        id,
		Name:           r.Name,
		Address:        r.Address,
		PhotoReference: r.PhotoReference,
		ReviewCount:    r.ReviewCount,
		LastFetchedAt:  r.LastFetchedAt,
	}
	if r.Rating != nil {
		v, err := entity.NewRating(*r.Rating)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.Rating = &v
	}
	if r.PriceLevel != nil {
		v, err := entity.NewPriceLevel(*r.PriceLevel)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.PriceLevel = &v
	}
	if r.CategoryTag != nil {
		v, err := entity.NewCategoryTag(*r.CategoryTag)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.CategoryTag = &v
	}
	if r.Phone != nil {
		v, err := entity.NewPhoneNumber(*r.Phone, "")
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.Phone = &v
	}
	if r.Website != nil {
		v, err := entity.NewWebsiteURL(*r.Website)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.Website = &v
	}
	return entity.NewPlaceDetails(params)
}

type actionRecord struct {
	ID            int64
	UserID        string
	PlaceID       string
	ActionType    string
	CreatedAt     time.Time
	PlaceName     *string
	PlacePhotoRef *string
}

func (r actionRecord) toEntity() (entity.UserActionWithPlace, error) {
	id, err := entity.NewUserActionID(r.ID)
	if err != nil {
		return entity.UserActionWithPlace{}, err
	}
	userID, err := entity.NewUserID(r.UserID)
	if err != nil {
		return entity.UserActionWithPlace{}, err
	}
	placeID, err := entity.NewPlaceID(r.PlaceID)
	if err != nil {
		return entity.UserActionWithPlace{}, err
	}
	actionType, err := entity.ParseActionType(r.ActionType)
	if err != nil {
		return entity.UserActionWithPlace{}, err
	}
	out := entity.UserActionWithPlace{
		Action: entity.UserAction{
			ID:        id,
			UserID:    userID,
			PlaceID:   placeID,
			Type:      actionType,
			CreatedAt: r.CreatedAt,
		},
	}
	if r.PlaceName != nil {
		out.Place = &entity.PlaceSummary{Name: *r.PlaceName, PhotoReference: r.PlacePhotoRef}
	}
	return out, nil
}

// UserActionFilter narrows FindByUser. Limit must already be bounded by the caller.
type UserActionFilter struct {
	UserID  entity.UserID
	Type    *entity.ActionType
	PlaceID *entity.PlaceID
	Limit   int
	Offset  int
}

// where renders the filter with the dialect's placeholder style and returns
// the next free placeholder index.
func (f UserActionFilter) where(placeholder func(int) string) (string, []any, int) {
	clauses := []string{"a.user_id = " + placeholder(1)}
	args := []any{f.UserID.String()}
	idx := 2
	if f.Type != nil {
		clauses = append(clauses, "a.action_type = "+placeholder(idx))
		args = append(args, f.Type.String())
		idx++
	}
	if f.PlaceID != nil {
		clauses = append(clauses, "a.place_id = "+placeholder(idx))
		args = append(args, f.PlaceID.String())
		idx++
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, idx
}

func pgPlaceholder(i int) string   { return fmt.Sprintf("$%d", i) }
func sqlitePlaceholder(int) string { return "?" }

func toUnixMilli(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromUnixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
