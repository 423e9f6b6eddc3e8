package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
)

// User is the identity returned by the current-user endpoint.
// It is treated as an immutable value: the store replaces it wholesale and
// never merges fields from two responses.
type User struct {
	ID    string
	Name  string
	Email string

	// Attributes holds every field of the server payload, including the ones
	// mirrored above. Server-defined extras (roles, timestamps, ...) live here.
	Attributes map[string]any
}

// Attr returns a server-defined attribute by key.
func (u User) Attr(key string) (any, bool) {
	if u.Attributes == nil {
		return nil, false
	}
	v, ok := u.Attributes[key]
	return v, ok
}

// LogValue keeps log records to the identifier only.
func (u User) LogValue() slog.Value {
	return slog.StringValue(u.ID)
}

// clone detaches the attribute map so callers cannot mutate the stored value.
func (u User) clone() User {
	if u.Attributes != nil {
		u.Attributes = maps.Clone(u.Attributes)
	}
	return u
}

// UnmarshalJSON accepts numeric and string identifiers.
func (u *User) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return ErrInvalidUser
	}

	id, err := identifier(raw["id"])
	if err != nil {
		return err
	}

	*u = User{
		ID:         id,
		Name:       stringField(raw, "name"),
		Email:      stringField(raw, "email"),
		Attributes: raw,
	}
	return nil
}

// MarshalJSON writes the attribute map back, with the typed fields on top.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Attributes)+3)
	maps.Copy(out, u.Attributes)
	out["id"] = u.ID
	if u.Name != "" {
		out["name"] = u.Name
	}
	if u.Email != "" {
		out["email"] = u.Email
	}
	return json.Marshal(out)
}

func identifier(v any) (string, error) {
	switch id := v.(type) {
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case nil:
		return "", fmt.Errorf("%w: missing id", ErrInvalidUser)
	default:
		return "", fmt.Errorf("%w: unsupported id type %T", ErrInvalidUser, v)
	}
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
