package auth

import "context"

// Navigator moves the current execution context to another page.
// It never fails from the caller's point of view.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string) {}
