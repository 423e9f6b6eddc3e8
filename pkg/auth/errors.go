package auth

import "errors"

// ErrNoUser means the current-user endpoint answered 2xx without a user.
var ErrNoUser = errors.New("auth.no_user")
