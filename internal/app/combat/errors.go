package combat

import "errors"

var (
	ErrEmptyFleet     = errors.New("fleet has no ships")
	ErrFleetDestroyed = errors.New("every ship in the fleet is destroyed")
	ErrInvalidShip    = errors.New("invalid ship")
	ErrUnknownWeapon  = errors.New("unknown weapon")
	ErrNumeric        = errors.New("non-finite value in damage formula")
)

// IsInvalidInput reports whether err was caused by the fleets handed to the
// engine rather than by the engine itself.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptyFleet) ||
		errors.Is(err, ErrFleetDestroyed) ||
		errors.Is(err, ErrInvalidShip) ||
		errors.Is(err, ErrUnknownWeapon)
}
