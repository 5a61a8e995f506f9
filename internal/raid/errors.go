package raid

import "errors"

// Outcomes that the engine and the catalog report to the caller.
// Anything else coming out of an operation is a persistence fault
// and carries the rolled-back transaction's cause wrapped inside.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidRole     = errors.New("invalid role")
	ErrSlotFull        = errors.New("slot full")
	ErrAlreadyAssigned = errors.New("already assigned")
	ErrNotAssigned     = errors.New("not assigned")
	ErrForbidden       = errors.New("forbidden")
	ErrPresetMissing   = errors.New("preset missing")
	ErrUnknownAction   = errors.New("unknown action")
)
