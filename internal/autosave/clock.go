package autosave

import "time"

// Timer is the part of *time.Timer the coordinator needs.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.  The default uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
