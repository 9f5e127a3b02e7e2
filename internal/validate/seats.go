// Package validate holds the pure checks the editor runs before it commits
// a change to the draft.  Nothing here performs I/O or mutates its input.
package validate

import (
	"unicode/utf8"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

// Column widths of the stored seat map, in characters.
const (
	MaxSeatNumberLen = 32
	MaxShiftNameLen  = 64
)

// FitsColumn reports whether s has at most max characters.
func FitsColumn(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// IsSeatNumberUnique reports whether no seat other than the one identified
// by excludeID already uses candidate.  Comparison is exact and
// case-sensitive; a nil excludeID excludes nothing.
func IsSeatNumberUnique(candidate string, existing []model.Seat, excludeID *uint64) bool {
	for _, s := range existing {
		if excludeID != nil && s.ID != nil && *s.ID == *excludeID {
			continue
		}
		if s.SeatNumber == candidate {
			return false
		}
	}
	return true
}

// PriceInRange reports whether an optional custom price lies in [min, max].
func PriceInRange(price *float64, min, max float64) bool {
	if price == nil {
		return true
	}
	return *price >= min && *price <= max
}
