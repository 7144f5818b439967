package pipeline

import "fmt"

// State identifies a step in the sequential run. There are no retry
// transitions: every *Failed state is terminal and ends the run.
type State int

const (
	StateInit State = iota
	StateFetching
	StateFetched
	StateFetchFailed
	StateTransforming
	StateTransformed
	StateConnecting
	StateConnected
	StateConnectFailed
	StateLoading
	StateDone
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateFetching:
		return "Fetching"
	case StateFetched:
		return "Fetched"
	case StateFetchFailed:
		return "FetchFailed"
	case StateTransforming:
		return "Transforming"
	case StateTransformed:
		return "Transformed"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateConnectFailed:
		return "ConnectFailed"
	case StateLoading:
		return "Loading"
	case StateDone:
		return "Done"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}
