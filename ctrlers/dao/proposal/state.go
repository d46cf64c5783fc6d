package proposal

// State is never stored; it is derived from the flags and the clock on
// every read so that stored state can not drift from wall-clock truth.
type State int32

const (
	STATE_PENDING State = iota
	STATE_ACTIVE
	STATE_FINISHED
	STATE_PASSED
	STATE_REJECTED
	STATE_CANCELLED
	STATE_ENACTED
)

func (s State) String() string {
	switch s {
	case STATE_PENDING:
		return "pending"
	case STATE_ACTIVE:
		return "active"
	case STATE_FINISHED:
		return "finished"
	case STATE_PASSED:
		return "passed"
	case STATE_REJECTED:
		return "rejected"
	case STATE_CANCELLED:
		return "cancelled"
	case STATE_ENACTED:
		return "enacted"
	default:
		return "unknown"
	}
}
