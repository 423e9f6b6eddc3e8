package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authclient/pkg/session"
)

func testUser() session.User {
	return session.User{
		ID:    "1",
		Name:  "Test User",
		Email: "test@example.com",
	}
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("starts anonymous", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		_, ok := store.CurrentUser()
		assert.False(t, ok)
		assert.False(t, store.IsLoggedIn())
		assert.Equal(t, session.Anonymous, store.State())
	})

	t.Run("set user marks store as logged in", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		store.SetUser(testUser())

		u, ok := store.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, testUser(), u)
		assert.True(t, store.IsLoggedIn())
		assert.Equal(t, session.Authenticated, store.State())
	})

	t.Run("set user replaces instead of merging", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		store.SetUser(session.User{ID: "1", Name: "A", Attributes: map[string]any{"role": "admin"}})
		store.SetUser(session.User{ID: "2", Email: "b@example.com"})

		u, ok := store.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "2", u.ID)
		assert.Empty(t, u.Name)
		_, hasRole := u.Attr("role")
		assert.False(t, hasRole)
	})

	t.Run("clear resets to anonymous", func(t *testing.T) {
		t.Parallel()
		store := session.New()
		store.SetUser(testUser())

		store.Clear()

		_, ok := store.CurrentUser()
		assert.False(t, ok)
		assert.False(t, store.IsLoggedIn())
		assert.Equal(t, session.Anonymous, store.State())
	})

	t.Run("returned user cannot mutate stored value", func(t *testing.T) {
		t.Parallel()
		store := session.New()
		store.SetUser(session.User{ID: "1", Attributes: map[string]any{"role": "admin"}})

		u, _ := store.CurrentUser()
		u.Attributes["role"] = "guest"

		stored, _ := store.CurrentUser()
		assert.Equal(t, "admin", stored.Attributes["role"])
	})

	t.Run("stores are isolated", func(t *testing.T) {
		t.Parallel()
		a := session.New()
		b := session.New()

		a.SetUser(testUser())

		assert.True(t, a.IsLoggedIn())
		assert.False(t, b.IsLoggedIn())
	})
}

func TestStoreSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("receives transitions with their cause", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		var got []session.Transition
		unsubscribe := store.Subscribe(func(tr session.Transition) {
			got = append(got, tr)
		})
		defer unsubscribe()

		u := testUser()
		store.Apply(session.EventLogin, &u)
		store.Apply(session.EventUnauthorized, nil)

		require.Len(t, got, 2)
		assert.Equal(t, session.Anonymous, got[0].From)
		assert.Equal(t, session.Authenticated, got[0].To)
		assert.Equal(t, session.EventLogin, got[0].Event)
		require.NotNil(t, got[0].User)
		assert.Equal(t, "1", got[0].User.ID)

		assert.Equal(t, session.Authenticated, got[1].From)
		assert.Equal(t, session.Anonymous, got[1].To)
		assert.Equal(t, session.EventUnauthorized, got[1].Event)
		assert.Nil(t, got[1].User)
	})

	t.Run("clearing an anonymous store is silent", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		calls := 0
		store.Subscribe(func(session.Transition) { calls++ })
		store.Clear()

		assert.Zero(t, calls)
	})

	t.Run("listener may read the store", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		var loggedIn bool
		store.Subscribe(func(session.Transition) {
			loggedIn = store.IsLoggedIn()
		})
		store.SetUser(testUser())

		assert.True(t, loggedIn)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		calls := 0
		unsubscribe := store.Subscribe(func(session.Transition) { calls++ })
		store.SetUser(testUser())
		unsubscribe()
		unsubscribe()
		store.Clear()

		assert.Equal(t, 1, calls)
	})
}

func TestStoreConcurrentAccess(t *testing.T) {
	t.Parallel()
	store := session.New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				store.SetUser(testUser())
			} else {
				store.Clear()
			}
		}()
		go func() {
			defer wg.Done()
			_ = store.IsLoggedIn()
			_, _ = store.CurrentUser()
		}()
	}
	wg.Wait()

	_, ok := store.CurrentUser()
	assert.Equal(t, ok, store.IsLoggedIn())
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		store := session.New()
		store.SetUser(testUser())
		ctx := session.WithStore(context.Background(), store)

		got, ok := session.FromContext(ctx)
		require.True(t, ok)
		assert.Same(t, store, got)

		u, ok := session.UserFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "1", u.ID)
	})

	t.Run("missing store", func(t *testing.T) {
		_, ok := session.FromContext(context.Background())
		assert.False(t, ok)

		_, ok = session.UserFromContext(context.Background())
		assert.False(t, ok)

		assert.Panics(t, func() {
			session.MustFromContext(context.Background())
		})
	})
}
