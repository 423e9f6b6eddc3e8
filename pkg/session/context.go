package session

import "context"

type storeContextKey struct{}

// WithStore adds a store to the context
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// FromContext retrieves the store from the context
func FromContext(ctx context.Context) (*Store, bool) {
	if ctx == nil {
		return nil, false
	}
	store, ok := ctx.Value(storeContextKey{}).(*Store)
	return store, ok && store != nil
}

// MustFromContext retrieves the store from the context or panics
func MustFromContext(ctx context.Context) *Store {
	store, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoStore)
	}
	return store
}

// UserFromContext returns the current user of the store in context
func UserFromContext(ctx context.Context) (User, bool) {
	store, ok := FromContext(ctx)
	if !ok {
		return User{}, false
	}
	return store.CurrentUser()
}
