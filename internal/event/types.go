package event

// TickCompleted is published once per Service.Tick call, after every
// session has advanced and all retirements have been attempted, so the
// snapshot listener can decide whether this is a save point: unconditional
// when Manual is true, or gated on the configured save period otherwise
// (spec.md §4.8).
type TickCompleted struct {
	Manual bool
	Now    int64 // unix nanoseconds, supplied by the caller
}
