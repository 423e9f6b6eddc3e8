package session_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authclient/pkg/session"
)

func TestUserUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("string id", func(t *testing.T) {
		var u session.User
		err := json.Unmarshal([]byte(`{"id":"1","name":"A","email":"a@b.com"}`), &u)
		require.NoError(t, err)

		assert.Equal(t, "1", u.ID)
		assert.Equal(t, "A", u.Name)
		assert.Equal(t, "a@b.com", u.Email)
	})

	t.Run("numeric id and extra fields", func(t *testing.T) {
		var u session.User
		err := json.Unmarshal([]byte(`{"id":42,"name":"B","email_verified_at":null,"teams":["x"]}`), &u)
		require.NoError(t, err)

		assert.Equal(t, "42", u.ID)
		v, ok := u.Attr("teams")
		require.True(t, ok)
		assert.Equal(t, []any{"x"}, v)
		_, ok = u.Attr("email_verified_at")
		assert.True(t, ok)
	})

	t.Run("missing id", func(t *testing.T) {
		var u session.User
		err := json.Unmarshal([]byte(`{"name":"A"}`), &u)
		assert.ErrorIs(t, err, session.ErrInvalidUser)
	})

	t.Run("null payload", func(t *testing.T) {
		var u session.User
		err := json.Unmarshal([]byte(`null`), &u)
		assert.ErrorIs(t, err, session.ErrInvalidUser)
	})

	t.Run("not an object", func(t *testing.T) {
		var u session.User
		err := json.Unmarshal([]byte(`[1,2]`), &u)
		assert.Error(t, err)
	})
}

func TestUserMarshal(t *testing.T) {
	t.Parallel()

	u := session.User{ID: "1", Name: "A", Attributes: map[string]any{"role": "admin"}}
	data, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "1", out["id"])
	assert.Equal(t, "A", out["name"])
	assert.Equal(t, "admin", out["role"])
	assert.NotContains(t, out, "email")
}
