package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

type taskMemoryRepository struct {
	tasks *xsync.MapOf[string, entity.Task]
}

func NewTaskMemoryRepository() *taskMemoryRepository {
	return &taskMemoryRepository{tasks: xsync.NewMapOf[entity.Task]()}
}

func (r *taskMemoryRepository) Create(ctx context.Context, data *entity.Task) error {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	if _, loaded := r.tasks.LoadOrStore(strconv.Itoa(data.ID), *data); loaded {
		return gorm.ErrDuplicatedKey
	}

	return nil
}

func (r *taskMemoryRepository) GetByID(ctx context.Context, id int) (*entity.Task, error) {
	task, ok := r.tasks.Load(strconv.Itoa(id))
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return &task, nil
}

func (r *taskMemoryRepository) GetByType(ctx context.Context, taskType entity.TaskType) (*entity.Task, error) {
	tasks, _ := r.GetAll(ctx)
	for _, task := range tasks {
		if task.Type == taskType && task.IsActive {
			return &task, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (r *taskMemoryRepository) GetActive(ctx context.Context) ([]entity.Task, error) {
	tasks, _ := r.GetAll(ctx)

	result := []entity.Task{}
	for _, task := range tasks {
		if task.IsActive {
			result = append(result, task)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PointsAwarded < result[j].PointsAwarded
	})

	return result, nil
}

func (r *taskMemoryRepository) GetAll(ctx context.Context) ([]entity.Task, error) {
	result := []entity.Task{}
	r.tasks.Range(func(_ string, task entity.Task) bool {
		result = append(result, task)
		return true
	})

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
