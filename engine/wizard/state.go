// Package wizard is the lookup wizard's state container. Each view is a
// plain value updated by Update(msg) and rendered by the front ends; no
// state changes happen anywhere else.
//
// Fetch completions carry the generation of the load that produced them. A
// view ignores completions from any generation but its current one, and
// Lifetime stops work for views that are gone.
package wizard

// Status is where a view's single fetch stands.
type Status int

const (
	// StatusIdle: nothing requested. For the results view this is the
	// "waiting for parameters" state.
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Msg is anything Update accepts. Unknown messages are ignored.
type Msg any

// SkeletonCards is how many placeholder cards the results view shows while
// its fetch is outstanding.
const SkeletonCards = 8
