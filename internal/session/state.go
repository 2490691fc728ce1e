package session

// State is the session's logical state. Transitions happen only inside
// the Manager, so combinations like "initializing and authenticated"
// are unrepresentable.
type State int

const (
	// StateInitializing is the one-time boot state, entered exactly
	// once per process and never re-entered.
	StateInitializing State = iota

	// StateUnauthenticated means no usable session exists.
	StateUnauthenticated

	// StateAuthenticating means a login call is in flight.
	StateAuthenticating

	// StateAuthenticated means the session holds a live token pair.
	StateAuthenticated

	// StateError is Unauthenticated decorated with a failure message;
	// it is a transient annotation, not a distinct steady state.
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
