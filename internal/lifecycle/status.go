// Package lifecycle tracks the pending/fulfilled/rejected bookkeeping of one
// asynchronous operation, such as fetching a collection from the remote API.
//
// State machine:
//
//	Idle ──► Pending ──► Fulfilled
//	            ▲   └──► Rejected
//	            └──────────┘ (next fetch, from either terminal phase)
//
// Transitions are pure: each returns a new Status and leaves the receiver as
// it was. A Status never reports loading and failed at the same time, and a
// failed Status always carries a non-empty message.
package lifecycle

// Phase is the current step of the operation.
type Phase string

const (
	// PhaseIdle means the operation has never been started.
	PhaseIdle Phase = "idle"
	// PhasePending means the operation is in flight.
	PhasePending Phase = "pending"
	// PhaseFulfilled means the last run succeeded.
	PhaseFulfilled Phase = "fulfilled"
	// PhaseRejected means the last run failed.
	PhaseRejected Phase = "rejected"
)

// DefaultErrorMessage is recorded when a failure arrives without a message.
const DefaultErrorMessage = "request failed"

// Status is the lifecycle state stored next to a collection.
// The zero value is the idle state.
type Status struct {
	Phase     Phase  `json:"phase"`
	IsLoading bool   `json:"isLoading"`
	HasError  bool   `json:"hasError"`
	Error     string `json:"error,omitempty"`
}

// Idle returns the initial state.
func Idle() Status {
	return Status{Phase: PhaseIdle}
}

// Pending marks the operation as started. The previous error text is kept
// until the next terminal state; only the failure flag is cleared.
func (s Status) Pending() Status {
	s.Phase = PhasePending
	s.HasError = false
	s.IsLoading = true
	return s
}

// Fulfilled marks the operation as succeeded.
func (s Status) Fulfilled() Status {
	return Status{Phase: PhaseFulfilled}
}

// Rejected marks the operation as failed with msg.
func (s Status) Rejected(msg string) Status {
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return Status{Phase: PhaseRejected, HasError: true, Error: msg}
}
