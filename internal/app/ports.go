package app

import (
	"context"

	"github.com/evanschultz/tagboard/internal/domain"
)

// Repository stores tasks in creation order.
type Repository interface {
	CreateTask(context.Context, domain.Task) error
	UpdateTask(context.Context, domain.Task) error
	GetTask(context.Context, string) (domain.Task, error)
	ListTasks(context.Context) ([]domain.Task, error)
	DeleteTask(context.Context, string) error
}
