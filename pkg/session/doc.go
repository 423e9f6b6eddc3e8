// Package session holds the client-side view of "who is the current user"
// for a single execution context.
//
// A Store keeps at most one User. Setting a user replaces the previous value
// wholesale; clearing it returns the store to the Anonymous state. Both the
// logged-in flag and the State are derived from the stored user on every
// read, so no separate flag can drift out of sync with it.
//
// # Execution contexts
//
// One Store belongs to one execution context: a CLI process, a browser-like
// long-lived client, or a single inbound request being served on behalf of a
// user. Server code must build a new Store for every inbound request; the
// package has no global state on purpose.
//
//	store := session.New()
//	ctx = session.WithStore(ctx, store)
//
//	if u, ok := session.UserFromContext(ctx); ok {
//	    log.Info("current user", logger.UserID(u.ID))
//	}
//
// # Transitions
//
// Every change is tagged with the Event that caused it (login, restore,
// update, logout, unauthorized). Listeners registered with Subscribe receive
// a Transition after the change is applied, which lets a UI layer react to
// pushes instead of polling:
//
//	unsubscribe := store.Subscribe(func(t session.Transition) {
//	    if t.To == session.Anonymous && t.Event == session.EventUnauthorized {
//	        showLoginPrompt()
//	    }
//	})
//	defer unsubscribe()
//
// # Concurrency
//
// Store is safe for concurrent use. Concurrent SetUser and Clear calls are
// last-write-wins. Listeners run outside the internal lock.
package session
