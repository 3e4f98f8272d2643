package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ratecast/ratecast/pkg/types"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) RatePlans(ctx context.Context, address string) ([]types.RawRatePlanRecord, error) {
	args := m.Called(ctx, address)
	if records, ok := args.Get(0).([]types.RawRatePlanRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event types.ProjectEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
