package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ratecast/ratecast/pkg/storage"
	"github.com/ratecast/ratecast/pkg/types"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) CreateProject(ctx context.Context, project types.Project) (types.Project, error) {
	args := m.Called(ctx, project)
	if p, ok := args.Get(0).(types.Project); ok {
		return p, args.Error(1)
	}
	return types.Project{}, args.Error(1)
}

func (m *MockDatabase) GetProject(ctx context.Context, id string) (types.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(types.Project); ok {
		return p, args.Error(1)
	}
	return types.Project{}, args.Error(1)
}

func (m *MockDatabase) ListProjects(ctx context.Context, userID string, limit int) ([]types.Project, error) {
	args := m.Called(ctx, userID, limit)
	if ps, ok := args.Get(0).([]types.Project); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
