package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/octobees/placepack/api/internal/entity"
)

// SQLUserActionsRepository implements UserActionsRepository on SQLite.
type SQLUserActionsRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLUserActionsRepository wires a SQLite backed user-action store.
func NewSQLUserActionsRepository(db *sql.DB) *SQLUserActionsRepository {
	return &SQLUserActionsRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new action. Referencing an unknown place yields ErrPlaceNotFound.
func (r *SQLUserActionsRepository) Create(ctx context.Context, userID entity.UserID, placeID entity.PlaceID, actionType entity.ActionType) (entity.UserAction, error) {
	createdAt := r.now()
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_actions (user_id, place_id, action_type, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING user_action_id`,
		userID.String(), placeID.String(), actionType.String(), toUnixMilli(createdAt),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return entity.UserAction{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, placeID)
		}
		return entity.UserAction{}, storageErr("insert user action", err)
	}

	actionID, err := entity.NewUserActionID(id)
	if err != nil {
		return entity.UserAction{}, storageErr("decode user action", err)
	}
	return entity.UserAction{ID: actionID, UserID: userID, PlaceID: placeID, Type: actionType, CreatedAt: fromUnixMilli(toUnixMilli(createdAt))}, nil
}

// FindNopedPlaceIDs returns every place the user has marked NOPE.
func (r *SQLUserActionsRepository) FindNopedPlaceIDs(ctx context.Context, userID entity.UserID) (map[entity.PlaceID]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT place_id FROM user_actions WHERE user_id = ? AND action_type = ?`, userID.String(), entity.ActionNope.String())
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

// FindByUser lists actions newest first with the cached place summary.
func (r *SQLUserActionsRepository) FindByUser(ctx context.Context, filter UserActionFilter) ([]entity.UserActionWithPlace, int, error) {
	where, args, _ := filter.where(sqlitePlaceholder)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_actions a `+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count user actions", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT a.user_action_id, a.user_id, a.place_id, a.action_type, a.created_at, d.name, d.photo_reference
		FROM user_actions a
		LEFT JOIN place_details_cache d ON d.place_id = a.place_id
		`+where+`
		ORDER BY a.created_at DESC, a.user_action_id DESC
		LIMIT ? OFFSET ?`, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, storageErr("list user actions", err)
	}
	defer rows.Close()

	var out []entity.UserActionWithPlace
	for rows.Next() {
		var (
			rec       actionRecord
			createdAt int64
			name      sql.NullString
			photoRef  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PlaceID, &rec.ActionType, &createdAt, &name, &photoRef); err != nil {
			return nil, 0, storageErr("scan user action", err)
		}
		rec.CreatedAt = fromUnixMilli(createdAt)
		rec.PlaceName = nullString(name)
		rec.PlacePhotoRef = nullString(photoRef)

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

// isForeignKeyViolation accepts both the extended and the primary result code.
func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "FOREIGN KEY")
}
