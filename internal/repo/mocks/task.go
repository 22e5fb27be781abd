// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// TaskRepository - мок репозитория
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *TaskRepository) Create(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, id string, in model.TaskUpdate) (model.Task, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(model.Task), args.Error(1)
}
