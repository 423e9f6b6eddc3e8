package session

// State is the derived authentication state of a store.
type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

func (s State) Name() string {
	return string(s)
}

// Event names what caused a change of the current user.
type Event string

const (
	// EventLogin is a successful interactive login.
	EventLogin Event = "login"
	// EventRestore is a successful cold-start session restore.
	EventRestore Event = "restore"
	// EventUpdate is a direct SetUser call.
	EventUpdate Event = "update"
	// EventLogout is an explicit logout or Clear call.
	EventLogout Event = "logout"
	// EventUnauthorized is a 401 observed by the transport.
	EventUnauthorized Event = "unauthorized"
)

func (e Event) Name() string {
	return string(e)
}

// Transition describes one change of the current user.
// User is nil when the store was cleared.
type Transition struct {
	From  State
	To    State
	Event Event
	User  *User
}

// Listener receives transitions after they were applied.
type Listener func(Transition)

func stateOf(u *User) State {
	if u == nil {
		return Anonymous
	}
	return Authenticated
}
