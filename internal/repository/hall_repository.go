package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// HallRepo provides methods to create and retrieve halls together with
// their pricing and location records.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = `id, owner_id, name, description, capacity, is_active, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }, h *model.Hall) error {
	var desc sql.NullString
	var capacity sql.NullInt32
	if err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &desc, &capacity, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return err
	}
	h.Description, h.Capacity = nil, nil
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	if capacity.Valid {
		c := uint32(capacity.Int32)
		h.Capacity = &c
	}
	return nil
}

// Create inserts a new hall.  OwnerID and Name must be set.  After insert
// the record is read back so timestamps and defaults are filled in.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const qInsert = `INSERT INTO halls (owner_id, name, description, capacity) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.OwnerID, h.Name, h.Description, h.Capacity)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return scanHall(r.db.QueryRowContext(ctx, `SELECT `+hallColumns+` FROM halls WHERE id = ?`, id), h)
}

// GetByID retrieves a hall regardless of owner.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	var h model.Hall
	err := scanHall(r.db.QueryRowContext(ctx, `SELECT `+hallColumns+` FROM halls WHERE id = ?`, id), &h)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByIDAndOwner retrieves a hall only if it belongs to ownerID.  It is
// the ownership check in front of every editor operation.
func (r *HallRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Hall, error) {
	var h model.Hall
	err := scanHall(r.db.QueryRowContext(ctx, `SELECT `+hallColumns+` FROM halls WHERE id = ? AND owner_id = ?`, id, ownerID), &h)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// ListByOwner returns the owner's halls ordered by id.
func (r *HallRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Hall, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+hallColumns+` FROM halls WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hall
	for rows.Next() {
		var h model.Hall
		if err := scanHall(rows, &h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateByIDAndOwner updates name, description and capacity.  Returns
// ErrHallNotFound when the hall does not exist or belongs to someone else.
func (r *HallRepo) UpdateByIDAndOwner(ctx context.Context, h *model.Hall) error {
	const q = `UPDATE halls
               SET name = ?, description = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Description, h.Capacity, h.ID, h.OwnerID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 affected rows when nothing changed, so confirm existence.
		if _, err := r.GetByIDAndOwner(ctx, h.ID, h.OwnerID); err != nil {
			return err
		}
	}
	return nil
}

// SavePricing upserts the hall's pricing row.
func (r *HallRepo) SavePricing(ctx context.Context, hallID uint64, p model.Pricing) error {
	const q = `INSERT INTO hall_pricing (hall_id, base_price, currency, hourly_rate, weekend_rate)
	           VALUES (?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE base_price = VALUES(base_price), currency = VALUES(currency),
	               hourly_rate = VALUES(hourly_rate), weekend_rate = VALUES(weekend_rate)`
	_, err := r.db.ExecContext(ctx, q, hallID, p.BasePrice, p.Currency, p.HourlyRate, p.WeekendRate)
	return err
}

// SaveLocation upserts the hall's location row.
func (r *HallRepo) SaveLocation(ctx context.Context, hallID uint64, l model.Location) error {
	const q = `INSERT INTO hall_locations (hall_id, address, city, country, latitude, longitude)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE address = VALUES(address), city = VALUES(city), country = VALUES(country),
	               latitude = VALUES(latitude), longitude = VALUES(longitude)`
	_, err := r.db.ExecContext(ctx, q, hallID, l.Address, l.City, l.Country, l.Latitude, l.Longitude)
	return err
}
