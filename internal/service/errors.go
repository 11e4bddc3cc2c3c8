package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUUID is returned when a reservation id cannot be parsed.
	ErrInvalidUUID = errors.New("Invalid UUID")

	// ErrNoSuchReservation is returned when no lines exist for a reservation id.
	ErrNoSuchReservation = errors.New("No such reservation")

	// ErrNoReservations is returned when a reservation listing comes back empty.
	ErrNoReservations = errors.New("No reservations found")

	// ErrCASConflict is returned when a conditional count write loses a race
	// with a concurrent reserver and the workflow is rolled back.
	ErrCASConflict = errors.New("Inventory changed concurrently, reservation aborted")
)

// UnknownMedicineError is returned when a requested medicine has no catalog row.
type UnknownMedicineError struct {
	Name string
}

func (e *UnknownMedicineError) Error() string {
	return fmt.Sprintf("Medicine %s does not exist", e.Name)
}

// ShortfallError is returned when a requested count exceeds the units available.
type ShortfallError struct {
	Name      string
	Requested int
	Available int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("Cannot reserve '%s': requested %d units while there are only %d",
		e.Name, e.Requested, e.Available)
}

// IsBusiness reports whether err is an expected business rejection, as
// opposed to a store or workflow fault. Handlers map business errors to the
// "error" envelope and everything else to "exception".
func IsBusiness(err error) bool {
	var unknown *UnknownMedicineError
	var shortfall *ShortfallError
	return errors.Is(err, ErrInvalidUUID) ||
		errors.Is(err, ErrNoSuchReservation) ||
		errors.Is(err, ErrNoReservations) ||
		errors.Is(err, ErrCASConflict) ||
		errors.As(err, &unknown) ||
		errors.As(err, &shortfall)
}
