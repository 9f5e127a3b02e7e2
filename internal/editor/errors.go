package editor

import "errors"

// Validation failures.  They are returned before the draft is touched and
// never reach the network.
var (
	ErrEmptyIdentifier     = errors.New("seat number is required")
	ErrDuplicateIdentifier = errors.New("seat number already exists in this hall")
	ErrIdentifierTooLong   = errors.New("seat number must be at most 32 characters")
	ErrNoParentSelected    = errors.New("select a hall first")
	ErrIncompleteFields    = errors.New("shift name, start time and end time are required")
	ErrNameTooLong         = errors.New("shift name must be at most 64 characters")
	ErrOverlapDetected     = errors.New("shift times overlap with an existing shift")
	ErrInvalidTime         = errors.New("shift times must use the HH:mm format")
	ErrInvalidTimeRange    = errors.New("shift end time must be after its start time")
	ErrPriceOutOfRange     = errors.New("custom price is outside the allowed range")
	ErrInvalidStatus       = errors.New("seat status must be available, booked, locked or maintenance")
	ErrInvalidSpaceType    = errors.New("space type must be STANDARD, VIP or ACCESSIBLE")
	ErrSeatNotFound        = errors.New("seat not found in draft")
	ErrShiftNotFound       = errors.New("shift not found in draft")
)

// State failures.
var (
	ErrNotEditable       = errors.New("hall is still loading")
	ErrInvalidTransition = errors.New("invalid editor state transition")
	ErrUnsavedChanges    = errors.New("current hall has unsaved changes")
)

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrEmptyIdentifier, ErrDuplicateIdentifier, ErrIdentifierTooLong, ErrIncompleteFields,
		ErrNameTooLong, ErrOverlapDetected, ErrInvalidTime, ErrInvalidTimeRange, ErrPriceOutOfRange, ErrInvalidStatus, ErrInvalidSpaceType,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
