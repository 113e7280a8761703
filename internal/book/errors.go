package book

import "errors"

var (
	// ErrBookFull is returned when the order arena / bitmap free-list has
	// no slots left for a new resting order.
	ErrBookFull = errors.New("book: order book is at capacity")
	// ErrUnknownOrder is returned by Cancel when the (uid, order_id) pair
	// does not resolve to a currently resting order.
	ErrUnknownOrder = errors.New("book: order not found")
	// ErrSnapshotIO covers any failure writing or reading a snapshot file,
	// including a tripped circuit breaker.
	ErrSnapshotIO = errors.New("book: snapshot I/O failed")
)
