package order

import "errors"

// Sentinel errors surfaced by order validation and the trade/cancel
// transitions. Wrapped with fmt.Errorf("%w: ...") at the call site rather
// than carried through a heavier error-code framework.
var (
	ErrIllegalOrder    = errors.New("order: illegal order")
	ErrNotMaker        = errors.New("order: trade target is not a resting limit order")
	ErrInvariantBroken = errors.New("order: invariant violation")
)
