package transfer

import "log/slog"

// Outcome names what a Resolve call did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMerged
	OutcomeSwapped
	OutcomeMoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeMerged:
		return "merged"
	case OutcomeSwapped:
		return "swapped"
	case OutcomeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a transfer and how many source units left src.
type Result struct {
	Outcome Outcome
	Moved   int
}

// Resolve moves the occupant of src onto dst. A same-item merge is tried
// first, then a full two-way swap, then a plain move of whatever dst accepts.
// Nothing changes when none of those apply.
func Resolve(src, dst Endpoint) Result {
	if src == nil || dst == nil || src == dst {
		return Result{}
	}

	payload := src.Payload()
	count := src.Count()
	if payload.IsEmpty() || count <= 0 {
		return Result{}
	}

	destPayload := dst.Payload()

	if payload.SameItem(destPayload) && payload.Stackable() && destPayload.Stackable() {
		n := min(dst.MaxAcceptable(payload), count)
		if n > 0 {
			src.Remove(n)
			dst.Add(payload, n)
			slog.Debug("transfer merged", "item", payload.Stack().ItemID, "count", n)
			return Result{Outcome: OutcomeMerged, Moved: n}
		}
	}

	destCount := dst.Count()
	if dst.MaxAcceptable(payload) >= count && src.MaxAcceptable(destPayload) >= destCount {
		src.Remove(count)
		if destCount > 0 {
			dst.Remove(destCount)
		}
		dst.Add(payload, count)

		switch destPayload.Kind() {
		case KindEmpty:
			slog.Debug("transfer moved", "item", payload.Stack().ItemID, "count", count)
			return Result{Outcome: OutcomeMoved, Moved: count}
		case KindStack:
			src.Add(destPayload, destCount)
			slog.Debug("transfer swapped", "item", payload.Stack().ItemID, "with", destPayload.Stack().ItemID)
			return Result{Outcome: OutcomeSwapped, Moved: count}
		}
	}

	n := min(dst.MaxAcceptable(payload), count)
	if n <= 0 {
		return Result{}
	}
	src.Remove(n)
	dst.Add(payload, n)
	slog.Debug("transfer moved", "item", payload.Stack().ItemID, "count", n)
	return Result{Outcome: OutcomeMoved, Moved: n}
}
