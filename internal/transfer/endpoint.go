package transfer

import "math"

// Unbounded is returned by MaxAcceptable when an endpoint would replace its
// occupant rather than merge with it.
const Unbounded = math.MaxInt

// Endpoint is a single slot-like position that can take part in a transfer.
// Implementations must be comparable; Resolve treats equal endpoints as the
// same position.
type Endpoint interface {
	// Payload returns the current occupant.
	Payload() Payload
	// Count returns the occupant's quantity, 0 when empty.
	Count() int
	// MaxAcceptable returns how many units of p this endpoint can receive.
	MaxAcceptable(p Payload) int
	// Add places count units of p into the endpoint.
	Add(p Payload, count int)
	// Remove takes count units from the occupant.
	Remove(count int)
}
