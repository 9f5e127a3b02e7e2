package model

// Settings are the owner's portal preferences, persisted by the settings
// auto-save loop.
type Settings struct {
	OwnerID             uint64 `json:"owner_id"`
	NotifyEmail         bool   `json:"notify_email"`
	NotifySMS           bool   `json:"notify_sms"`
	AutoConfirmBookings bool   `json:"auto_confirm_bookings"`
	Currency            string `json:"currency"`
	Timezone            string `json:"timezone"`
}
