package validate

import (
	"fmt"
	"time"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

// EndOfDay is accepted as an end time so a shift can close at midnight.
const EndOfDay = "24:00"

// ClockMinutes converts an HH:mm wall-clock string to minutes since midnight.
func ClockMinutes(hhmm string) (int, error) {
	if hhmm == EndOfDay {
		return 24 * 60, nil
	}
	if len(hhmm) != 5 {
		return 0, fmt.Errorf("invalid time %q: want HH:mm", hhmm)
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:mm", hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any minute.
// Touching endpoints do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// ShiftInterval converts a shift into minutes.
func ShiftInterval(s model.Shift) (Interval, error) {
	start, err := ClockMinutes(s.StartTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ClockMinutes(s.EndTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// FindOverlap returns the indexes of the first overlapping pair in shifts.
// ok is false when the set is valid.  A shift with an unparseable time is
// reported against itself (i == j) since the set cannot be proven valid.
func FindOverlap(shifts []model.Shift) (i, j int, ok bool) {
	iv := make([]Interval, len(shifts))
	for k, s := range shifts {
		v, err := ShiftInterval(s)
		if err != nil {
			return k, k, true
		}
		iv[k] = v
	}
	for i = 0; i < len(iv); i++ {
		for j = i + 1; j < len(iv); j++ {
			if iv[i].Overlaps(iv[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// ShiftsNonOverlapping reports whether no two shifts in the full proposed
// set overlap.  Zero or one shift is trivially valid.
func ShiftsNonOverlapping(shifts []model.Shift) bool {
	if len(shifts) < 2 {
		return true
	}
	_, _, bad := FindOverlap(shifts)
	return !bad
}
