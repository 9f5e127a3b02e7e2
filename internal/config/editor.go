package config

import "time"

// EditorConfig collects the seat map constants shared with the persistence
// contract together with the save pipeline and auto-save tuning.
type EditorConfig struct {
	CanvasWidth  int // canvas width in map units
	CanvasHeight int // canvas height in map units
	SeatSize     int // square seat footprint
	GridUnit     int // snapping step
	DefaultX     int // position of newly placed seats
	DefaultY     int
	PriceMin     float64 // lowest allowed custom price
	PriceMax     float64 // highest allowed custom price

	SaveMaxAttempts int           // attempts including the first one
	SaveBackoff     time.Duration // 0 keeps retries back to back
	SaveBackoffMax  time.Duration

	AutosaveWindow      time.Duration // settling window after the last change
	AutosaveSuccessHold time.Duration // how long the success indicator stays up
}

// LoadEditorConfig reads the editor variables, falling back to defaults.
func LoadEditorConfig() EditorConfig {
	cfg := EditorConfig{
		CanvasWidth:  envInt("CANVAS_WIDTH", 800),
		CanvasHeight: envInt("CANVAS_HEIGHT", 600),
		SeatSize:     envInt("SEAT_SIZE", 40),
		GridUnit:     envInt("GRID_UNIT", 20),
		DefaultX:     envInt("SEAT_DEFAULT_X", 20),
		DefaultY:     envInt("SEAT_DEFAULT_Y", 20),
		PriceMin:     envFloat("SEAT_PRICE_MIN", 0),
		PriceMax:     envFloat("SEAT_PRICE_MAX", 10000),

		SaveMaxAttempts: envInt("SAVE_MAX_ATTEMPTS", 3),
		SaveBackoff:     envDur("SAVE_BACKOFF", 0),
		SaveBackoffMax:  envDur("SAVE_BACKOFF_MAX", 5*time.Second),

		AutosaveWindow:      envDur("AUTOSAVE_WINDOW", 500*time.Millisecond),
		AutosaveSuccessHold: envDur("AUTOSAVE_SUCCESS_HOLD", 2*time.Second),
	}
	if cfg.GridUnit < 1 { cfg.GridUnit = 1 }
	if cfg.SeatSize < 1 { cfg.SeatSize = 1 }
	if cfg.CanvasWidth < cfg.SeatSize { cfg.CanvasWidth = cfg.SeatSize }
	if cfg.CanvasHeight < cfg.SeatSize { cfg.CanvasHeight = cfg.SeatSize }
	if cfg.SaveMaxAttempts < 1 { cfg.SaveMaxAttempts = 1 }
	if cfg.PriceMax < cfg.PriceMin { cfg.PriceMax = cfg.PriceMin }
	if cfg.AutosaveWindow <= 0 { cfg.AutosaveWindow = 500 * time.Millisecond }
	return cfg
}
