package gitrepo

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockClient is a testify mock for Client, used by walker and aggregator
// tests.
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) IsRepository(ctx context.Context, path string) bool {
	args := m.Called(ctx, path)
	return args.Bool(0)
}

func (m *MockClient) Clone(ctx context.Context, url, dest string) error {
	args := m.Called(ctx, url, dest)
	return args.Error(0)
}

func (m *MockClient) Checkout(ctx context.Context, path, branch string) error {
	args := m.Called(ctx, path, branch)
	return args.Error(0)
}

func (m *MockClient) CurrentBranch(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Log(ctx context.Context, path string, since, until time.Time) ([]Commit, error) {
	args := m.Called(ctx, path, since, until)
	if commits := args.Get(0); commits != nil {
		return commits.([]Commit), args.Error(1)
	}
	return nil, args.Error(1)
}
