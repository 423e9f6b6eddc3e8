package session

import (
	"sync"
)

// Store holds the current user of one execution context.
// The logged-in flag and the state are derived from the user on every read,
// so they can never disagree with it.
type Store struct {
	mu        sync.RWMutex
	user      *User
	listeners map[uint64]Listener
	nextID    uint64
}

// New creates an anonymous store. Create one per execution context.
func New() *Store {
	return &Store{listeners: make(map[uint64]Listener)}
}

// CurrentUser returns a copy of the current user.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return s.user.clone(), true
}

// IsLoggedIn reports whether a user is present.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// State returns Authenticated when a user is present, Anonymous otherwise.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stateOf(s.user)
}

// SetUser replaces the current user.
func (s *Store) SetUser(u User) {
	s.Apply(EventUpdate, &u)
}

// Clear removes the current user.
func (s *Store) Clear() {
	s.Apply(EventLogout, nil)
}

// Apply replaces the current user (nil clears it) and records the cause.
// Concurrent calls are last-write-wins.
func (s *Store) Apply(event Event, u *User) {
	var next *User
	if u != nil {
		c := u.clone()
		next = &c
	}

	s.mu.Lock()
	prev := s.user
	s.user = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if prev == nil && next == nil {
		return
	}

	t := Transition{From: stateOf(prev), To: stateOf(next), Event: event}
	if next != nil {
		c := next.clone()
		t.User = &c
	}
	// Listeners run outside the lock so they may read the store.
	for _, l := range listeners {
		l(t)
	}
}

// Subscribe registers a listener and returns a function removing it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
