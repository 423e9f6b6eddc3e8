package auth

import (
	"fmt"
	"log/slog"
)

const redacted = "[REDACTED]"

// Credentials are sent to the login endpoint as {"email", "password"}.
// Neither field ever reaches a log line or a formatted string.
type Credentials struct {
	Identifier string `json:"email"`
	Secret     string `json:"password"`
	Remember   bool   `json:"remember,omitempty"`
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", redacted),
		slog.String("password", redacted),
		slog.Bool("remember", c.Remember),
	)
}

func (c Credentials) String() string {
	return fmt.Sprintf("{email:%s password:%s}", redacted, redacted)
}

// GoString covers %#v.
func (c Credentials) GoString() string {
	return fmt.Sprintf("auth.Credentials{Identifier:%q, Secret:%q, Remember:%t}", redacted, redacted, c.Remember)
}
