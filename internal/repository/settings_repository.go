package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

// SettingsRepo persists owner preferences, one row per owner.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo constructs a SettingsRepo.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get returns the owner's settings, or the defaults when none are stored.
func (r *SettingsRepo) Get(ctx context.Context, ownerID uint64) (model.Settings, error) {
	s := model.Settings{OwnerID: ownerID, Currency: "USD", Timezone: "UTC"}
	const q = `SELECT notify_email, notify_sms, auto_confirm_bookings, currency, timezone
	           FROM owner_settings WHERE owner_id = ?`
	err := r.db.QueryRowContext(ctx, q, ownerID).
		Scan(&s.NotifyEmail, &s.NotifySMS, &s.AutoConfirmBookings, &s.Currency, &s.Timezone)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Settings{}, err
	}
	return s, nil
}

// Save upserts the owner's settings.
func (r *SettingsRepo) Save(ctx context.Context, s model.Settings) error {
	const q = `INSERT INTO owner_settings (owner_id, notify_email, notify_sms, auto_confirm_bookings, currency, timezone)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE notify_email = VALUES(notify_email), notify_sms = VALUES(notify_sms),
	               auto_confirm_bookings = VALUES(auto_confirm_bookings), currency = VALUES(currency),
	               timezone = VALUES(timezone), updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, s.OwnerID, s.NotifyEmail, s.NotifySMS, s.AutoConfirmBookings, s.Currency, s.Timezone)
	return err
}
