package editor

import "fmt"

// Phase is the lifecycle state of the draft.  Dirtiness is tracked
// separately, so Ready covers both Ready(clean) and Ready(dirty).
type Phase int

const (
	Uninitialized Phase = iota
	Loading
	Ready
	Saving
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Event drives Transition.
type Event int

const (
	EventSelect Event = iota
	EventLoaded
	EventLoadFailed
	EventSaveStart
	EventSaveDone
)

// Transition is the pure transition function of the draft state machine:
//
//	any        --select-->     Loading
//	Loading    --loaded-->     Ready
//	Loading    --loadFailed--> Uninitialized
//	Ready      --saveStart-->  Saving
//	Saving     --saveStart-->  Saving   (overlapping saves)
//	Saving     --saveDone-->   Ready
func Transition(p Phase, ev Event) (Phase, error) {
	switch ev {
	case EventSelect:
		return Loading, nil
	case EventLoaded:
		if p == Loading {
			return Ready, nil
		}
	case EventLoadFailed:
		if p == Loading {
			return Uninitialized, nil
		}
	case EventSaveStart:
		if p == Ready || p == Saving {
			return Saving, nil
		}
	case EventSaveDone:
		if p == Saving {
			return Ready, nil
		}
	}
	return p, fmt.Errorf("%w: %s on event %d", ErrInvalidTransition, p, ev)
}

// Editable reports whether draft mutations are accepted in p.  Edits made
// while saving are kept and picked up by the next save.
func Editable(p Phase) bool {
	return p == Ready || p == Saving
}
