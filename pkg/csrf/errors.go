package csrf

import "errors"

var (
	// ErrUnavailable indicates the token cookie did not materialize after a bootstrap.
	// It is fatal for the request that needed the token.
	ErrUnavailable = errors.New("csrf.unavailable")

	// ErrNoFetcher indicates the manager was built without a bootstrap function
	ErrNoFetcher = errors.New("csrf.no_fetcher")
)
