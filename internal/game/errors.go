package game

import "errors"

// Rejection taxonomy. Every rejection is local and non-fatal: the room state
// is left exactly as it was before the rejected action.
var (
	ErrInvalidAction   = errors.New("action not applicable to current phase or actor")
	ErrIllegalCombo    = errors.New("combo does not satisfy pairing or run rules")
	ErrUnknownRoom     = errors.New("unknown room")
	ErrUnknownCard     = errors.New("card not held by actor")
	ErrChallengeDenied = errors.New("challenge denied")
)
