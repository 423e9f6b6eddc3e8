package auth_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/authclient/pkg/session"
	"github.com/dmitrymomot/authclient/pkg/transport"
)

// MockAPI is a mock implementation of auth.API.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Get(ctx context.Context, path string, out any) (*transport.Response, error) {
	args := m.Called(ctx, path, out)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transport.Response), args.Error(1)
}

func (m *MockAPI) Post(ctx context.Context, path string, body, out any) (*transport.Response, error) {
	args := m.Called(ctx, path, body, out)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transport.Response), args.Error(1)
}

// fillUser makes a mocked Get decode u into its out argument.
func fillUser(u session.User) func(mock.Arguments) {
	return func(args mock.Arguments) {
		*(args.Get(2).(*session.User)) = u
	}
}

// navRecorder records navigations.
type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}
