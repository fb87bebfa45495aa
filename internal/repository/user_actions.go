package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/placepack/api/internal/entity"
)

const pgForeignKeyViolation = "23503"

// UserActionsRepository persists LIKE/NOPE/VIEW actions.
type UserActionsRepository interface {
	Create(ctx context.Context, userID entity.UserID, placeID entity.PlaceID, actionType entity.ActionType) (entity.UserAction, error)
	FindNopedPlaceIDs(ctx context.Context, userID entity.UserID) (map[entity.PlaceID]struct{}, error)
	FindByUser(ctx context.Context, filter UserActionFilter) ([]entity.UserActionWithPlace, int, error)
}

// PGXUserActionsRepository implements UserActionsRepository using pgx.
type PGXUserActionsRepository struct {
	pool pgxPool
}

// NewPGXUserActionsRepository wires a pgx backed user-action store.
func NewPGXUserActionsRepository(pool *pgxpool.Pool) *PGXUserActionsRepository {
	return &PGXUserActionsRepository{pool: pool}
}

// Create inserts a new action. Referencing an unknown place yields ErrPlaceNotFound.
func (r *PGXUserActionsRepository) Create(ctx context.Context, userID entity.UserID, placeID entity.PlaceID, actionType entity.ActionType) (entity.UserAction, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO user_actions (user_id, place_id, action_type)
        VALUES ($1, $2, $3)
        RETURNING user_action_id, created_at
    `, userID.String(), placeID.String(), actionType.String())

	var (
		id        int64
		createdAt time.Time
	)
	if err := row.Scan(&id, &createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return entity.UserAction{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, placeID)
		}
		return entity.UserAction{}, storageErr("insert user action", err)
	}

	actionID, err := entity.NewUserActionID(id)
	if err != nil {
		return entity.UserAction{}, storageErr("decode user action", err)
	}
	return entity.UserAction{ID: actionID, UserID: userID, PlaceID: placeID, Type: actionType, CreatedAt: createdAt}, nil
}

// FindNopedPlaceIDs returns every place the user has marked NOPE.
func (r *PGXUserActionsRepository) FindNopedPlaceIDs(ctx context.Context, userID entity.UserID) (map[entity.PlaceID]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT place_id FROM user_actions WHERE user_id = $1 AND action_type = $2`, userID.String(), entity.ActionNope.String())
	if err != nil {
		return nil, storageErr("find noped places", err)
	}
	defer rows.Close()

	out := make(map[entity.PlaceID]struct{})
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, storageErr("scan noped place", err)
		}
		id, err := entity.NewPlaceID(raw)
		if err != nil {
			return nil, storageErr("decode noped place", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate noped places", err)
	}
	return out, nil
}

// FindByUser lists actions newest first with the cached place summary and the
// total number of matching rows.
func (r *PGXUserActionsRepository) FindByUser(ctx context.Context, filter UserActionFilter) ([]entity.UserActionWithPlace, int, error) {
	where, args, next := filter.where(pgPlaceholder)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_actions a `+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count user actions", err)
	}

	query := fmt.Sprintf(`
        SELECT a.user_action_id, a.user_id, a.place_id, a.action_type, a.created_at, d.name, d.photo_reference
        FROM user_actions a
        LEFT JOIN place_details_cache d ON d.place_id = a.place_id
        %s
        ORDER BY a.created_at DESC, a.user_action_id DESC
        LIMIT $%d OFFSET $%d
    `, where, next, next+1)
	rows, err := r.pool.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, storageErr("list user actions", err)
	}
	defer rows.Close()

	var out []entity.UserActionWithPlace
	for rows.Next() {
		var rec actionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PlaceID, &rec.ActionType, &rec.CreatedAt, &rec.PlaceName, &rec.PlacePhotoRef); err != nil {
			return nil, 0, storageErr("scan user action", err)
		}
		action, err := rec.toEntity()
		if err != nil {
			return nil, 0, storageErr("decode user action", err)
		}
		out = append(out, action)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("iterate user actions", err)
	}
	return out, total, nil
}
