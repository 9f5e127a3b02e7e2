package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seat map rows.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, hall_id, seat_number, x_coord, y_coord, space_type, custom_price, ladies_only, status`

// GetByHall retrieves all seats of a hall in insertion order.
func (r *SeatRepo) GetByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	q := `SELECT ` + seatColumns + ` FROM seats WHERE hall_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Seat{}
	for rows.Next() {
		var (
			s     model.Seat
			id    uint64
			price sql.NullFloat64
		)
		if err := rows.Scan(&id, &s.HallID, &s.SeatNumber, &s.XCoord, &s.YCoord,
			&s.SpaceType, &price, &s.LadiesOnly, &s.Status); err != nil {
			return nil, err
		}
		s.ID = &id
		if price.Valid {
			p := price.Float64
			s.CustomPrice = &p
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceForHall makes the stored seat map equal to seats inside one
// transaction: rows missing from seats are deleted, seats with an id are
// updated and the rest, including seats whose row is gone, are inserted.  The stored map is returned with ids.
func (r *SeatRepo) ReplaceForHall(ctx context.Context, hallID uint64, seats []model.Seat) ([]model.Seat, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	keep := make([]any, 0, len(seats)+1)
	keep = append(keep, hallID)
	for _, s := range seats {
		if s.ID != nil {
			keep = append(keep, *s.ID)
		}
	}
	del := `DELETE FROM seats WHERE hall_id = ?`
	if len(keep) > 1 {
		del += ` AND id NOT IN (?` + strings.Repeat(`, ?`, len(keep)-2) + `)`
	}
	if _, err := tx.ExecContext(ctx, del, keep...); err != nil {
		return nil, err
	}

	// Ids the draft still carries may belong to rows deleted elsewhere;
	// those seats are inserted again.
	rows, err := tx.QueryContext(ctx, `SELECT id FROM seats WHERE hall_id = ? FOR UPDATE`, hallID)
	if err != nil {
		return nil, err
	}
	existing := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	const qUpdate = `UPDATE seats SET seat_number = ?, x_coord = ?, y_coord = ?, space_type = ?,
	                     custom_price = ?, ladies_only = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	                 WHERE id = ? AND hall_id = ?`
	const qInsert = `INSERT INTO seats (hall_id, seat_number, x_coord, y_coord, space_type, custom_price, ladies_only, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	out := make([]model.Seat, len(seats))
	for i, s := range seats {
		s.HallID = hallID
		if s.SpaceType == "" {
			s.SpaceType = model.SpaceStandard
		}
		if s.Status == "" {
			s.Status = model.SeatAvailable
		}
		if s.ID != nil && !existing[*s.ID] {
			s.ID = nil
		}
		if s.ID != nil {
			if _, err := tx.ExecContext(ctx, qUpdate, s.SeatNumber, s.XCoord, s.YCoord, s.SpaceType,
				s.CustomPrice, s.LadiesOnly, s.Status, *s.ID, hallID); err != nil {
				return nil, err
			}
		} else {
			res, err := tx.ExecContext(ctx, qInsert, hallID, s.SeatNumber, s.XCoord, s.YCoord, s.SpaceType,
				s.CustomPrice, s.LadiesOnly, s.Status)
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

// DeleteByIDAndHall removes one seat.  Returns ErrSeatNotFound when no row
// matched.
func (r *SeatRepo) DeleteByIDAndHall(ctx context.Context, id, hallID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seats WHERE id = ? AND hall_id = ?`, id, hallID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}
