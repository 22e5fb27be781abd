package repo

import (
	"context"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Create(ctx context.Context, in model.TaskCreate) (model.Task, error)
	Update(ctx context.Context, id string, in model.TaskUpdate) (model.Task, error)
}
