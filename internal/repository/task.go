package repository

import (
	"context"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

type TaskRepository interface {
	Create(ctx context.Context, data *entity.Task) error
	GetByID(ctx context.Context, id int) (*entity.Task, error)
	GetByType(ctx context.Context, taskType entity.TaskType) (*entity.Task, error)
	GetActive(ctx context.Context) ([]entity.Task, error)
	GetAll(ctx context.Context) ([]entity.Task, error)
}

type taskRepository struct{}

func NewTaskRepository() *taskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(ctx context.Context, data *entity.Task) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id int) (*entity.Task, error) {
	var result entity.Task
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskRepository) GetByType(ctx context.Context, taskType entity.TaskType) (*entity.Task, error) {
	var result entity.Task
	err := xcontext.DB(ctx).
		Where("type=? AND is_active=?", taskType, true).
		Order("id ASC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskRepository) GetActive(ctx context.Context) ([]entity.Task, error) {
	var result []entity.Task
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("points_awarded ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskRepository) GetAll(ctx context.Context) ([]entity.Task, error) {
	var result []entity.Task
	if err := xcontext.DB(ctx).Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
