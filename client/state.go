package client

// attemptState tracks one request lineage through the refresh protocol.
type attemptState int

const (
	stateInitial attemptState = iota
	stateAttempted
	stateRefreshing
	stateReplayed
	stateSucceeded
	stateFailed
)

func (s attemptState) String() string {
	switch s {
	case stateInitial:
		return "INITIAL"
	case stateAttempted:
		return "ATTEMPTED"
	case stateRefreshing:
		return "REFRESHING"
	case stateReplayed:
		return "REPLAYED"
	case stateSucceeded:
		return "SUCCEEDED"
	case stateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// outcome maps a received response to its terminal state.
func outcome(resp *Response) attemptState {
	if resp != nil && resp.OK() {
		return stateSucceeded
	}
	return stateFailed
}
