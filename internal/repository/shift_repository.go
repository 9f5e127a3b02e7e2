package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

// ShiftRepo stores a hall's opening hours and the catalog of default
// shifts offered to halls without a schedule.  Times are kept as HH:mm
// text exactly as the editor validated them.
type ShiftRepo struct {
	db *sql.DB
}

// NewShiftRepo constructs a ShiftRepo with the given DB handle.
func NewShiftRepo(db *sql.DB) *ShiftRepo {
	return &ShiftRepo{db: db}
}

func scanShifts(rows *sql.Rows) ([]model.Shift, error) {
	defer rows.Close()
	out := []model.Shift{}
	for rows.Next() {
		var (
			s  model.Shift
			id uint64
		)
		if err := rows.Scan(&id, &s.Name, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		s.ID = &id
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByHall returns the hall's shifts ordered by start time.
func (r *ShiftRepo) GetByHall(ctx context.Context, hallID uint64) ([]model.Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, start_time, end_time FROM shifts WHERE hall_id = ? ORDER BY start_time, id`, hallID)
	if err != nil {
		return nil, err
	}
	return scanShifts(rows)
}

// ListDefaults returns the default shift catalog.
func (r *ShiftRepo) ListDefaults(ctx context.Context) ([]model.Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, start_time, end_time FROM default_shifts ORDER BY start_time, id`)
	if err != nil {
		return nil, err
	}
	return scanShifts(rows)
}

// ReplaceForHall makes the stored schedule equal to shifts in one
// transaction and returns it with ids assigned.
func (r *ShiftRepo) ReplaceForHall(ctx context.Context, hallID uint64, shifts []model.Shift) ([]model.Shift, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	keep := []any{hallID}
	for _, s := range shifts {
		if s.ID != nil {
			keep = append(keep, *s.ID)
		}
	}
	del := `DELETE FROM shifts WHERE hall_id = ?`
	if len(keep) > 1 {
		del += ` AND id NOT IN (?` + strings.Repeat(`, ?`, len(keep)-2) + `)`
	}
	if _, err := tx.ExecContext(ctx, del, keep...); err != nil {
		return nil, err
	}

	out := make([]model.Shift, len(shifts))
	for i, s := range shifts {
		if s.ID != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE shifts SET name = ?, start_time = ?, end_time = ? WHERE id = ? AND hall_id = ?`,
				s.Name, s.StartTime, s.EndTime, *s.ID, hallID)
			if err != nil {
				return nil, err
			}
		} else {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO shifts (hall_id, name, start_time, end_time) VALUES (?, ?, ?, ?)`,
				hallID, s.Name, s.StartTime, s.EndTime)
			if err != nil {
				return nil, err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return nil, err
			}
			uid := uint64(id)
			s.ID = &uid
		}
		out[i] = s
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// AmenityRepo lists the amenities attached to a hall.
type AmenityRepo struct {
	db *sql.DB
}

// NewAmenityRepo constructs an AmenityRepo.
func NewAmenityRepo(db *sql.DB) *AmenityRepo { return &AmenityRepo{db: db} }

// ListByHall returns amenity names for the hall, alphabetically.
func (r *AmenityRepo) ListByHall(ctx context.Context, hallID uint64) ([]string, error) {
	const q = `SELECT a.name FROM hall_amenities ha JOIN amenities a ON a.id = ha.amenity_id
	           WHERE ha.hall_id = ? ORDER BY a.name`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
