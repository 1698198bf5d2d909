package services

import (
	"context"

	"github.com/AgusMolinaCode/stockly/internal/llm"
	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockHoldingsStore struct {
	mock.Mock
}

func (m *MockHoldingsStore) GetAll(ctx context.Context) map[string]models.Holding {
	args := m.Called(ctx)
	return args.Get(0).(map[string]models.Holding)
}
