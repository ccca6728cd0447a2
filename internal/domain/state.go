package domain

import "time"

// StateKind is the phase of the request lifecycle.
type StateKind string

const (
	StateIdle    StateKind = "idle"
	StateLoading StateKind = "loading"
	StateSuccess StateKind = "success"
	StateError   StateKind = "error"
)

// RequestState is a snapshot of the lifecycle. It is replaced wholesale on
// every transition and never mutated after publication.
type RequestState struct {
	Kind      StateKind    `json:"kind"`
	Seq       uint64       `json:"seq"`
	RunID     string       `json:"run_id,omitempty"`
	Result    *SeoResponse `json:"result,omitempty"`
	Sources   []string     `json:"sources,omitempty"`
	Message   string       `json:"message,omitempty"`
	ErrorKind ErrorKind    `json:"error_kind,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IdleState is the state before anything was submitted.
func IdleState() RequestState {
	return RequestState{Kind: StateIdle, UpdatedAt: time.Now()}
}

// LoadingState marks submission seq as in flight.
func LoadingState(seq uint64, runID string) RequestState {
	return RequestState{Kind: StateLoading, Seq: seq, RunID: runID, UpdatedAt: time.Now()}
}

// SuccessState carries the parsed response of submission seq.
func SuccessState(seq uint64, runID string, result *SeoResponse, sources []string) RequestState {
	return RequestState{
		Kind:      StateSuccess,
		Seq:       seq,
		RunID:     runID,
		Result:    result,
		Sources:   sources,
		UpdatedAt: time.Now(),
	}
}

// ErrorState carries the user-facing message for the failure of submission seq.
func ErrorState(seq uint64, runID string, err error) RequestState {
	return RequestState{
		Kind:      StateError,
		Seq:       seq,
		RunID:     runID,
		Message:   UserMessage(err),
		ErrorKind: Classify(err),
		UpdatedAt: time.Now(),
	}
}

// Terminal reports whether the state ends a request.
func (s RequestState) Terminal() bool {
	return s.Kind == StateSuccess || s.Kind == StateError
}
