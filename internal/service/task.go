package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: status: unknown value %q", ErrValidation, *filter.Status)
	}
	return s.repo.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	if in.Status == "" {
		in.Status = model.StatusTodo
	}
	if err := validateCreate(in); err != nil { // Валидация до обращения к БД
		return model.Task{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *TaskService) Update(ctx context.Context, id string, in model.TaskUpdate) (model.Task, error) {
	if err := validateUpdate(in); err != nil {
		return model.Task{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func validateCreate(in model.TaskCreate) error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return err
		}
	}
	return validateStatus(in.Status)
}

func validateUpdate(in model.TaskUpdate) error {
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return err
		}
	}
	if in.Status != nil {
		return validateStatus(*in.Status)
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < 1 || n > model.TitleMaxLen {
		return fmt.Errorf("%w: title: length must be between 1 and %d", ErrValidation, model.TitleMaxLen)
	}
	return nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > model.DescriptionMaxLen {
		return fmt.Errorf("%w: description: length must be at most %d", ErrValidation, model.DescriptionMaxLen)
	}
	return nil
}

func validateStatus(st model.Status) error {
	if !st.Valid() {
		return fmt.Errorf("%w: status: unknown value %q", ErrValidation, st)
	}
	return nil
}
