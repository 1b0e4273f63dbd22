package repository

import (
	"context"

	"github.com/yukikurage/task-habit-api/internal/database"
	"github.com/yukikurage/task-habit-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(task).Error
	})
	if err != nil {
		return translate(err)
	}

	return translate(r.db.WithContext(ctx).First(task, task.ID).Error)
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination. Default order is
// creation time ascending with the id as tie breaker.
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).Model(&models.Task{})

	if filter.ViewerID != nil {
		memberships := r.db.WithContext(ctx).Model(&models.WorkspaceMember{}).
			Select("workspace_id").
			Where("user_id = ?", *filter.ViewerID)
		query = query.Where("tasks.user_id = ? OR tasks.workspace_id IN (?)", *filter.ViewerID, memberships)
	}

	// Apply filters
	if filter.OwnerID != nil {
		query = query.Where("tasks.user_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.WorkspaceID != nil {
		query = query.Where("tasks.workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.DueFrom != nil {
		query = query.Where("tasks.due_at >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("tasks.due_at < ?", *filter.DueTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	listQuery := query
	if filter.SortByDueDate {
		listQuery = listQuery.Order("CASE WHEN tasks.due_at IS NULL THEN 1 ELSE 0 END, tasks.due_at ASC, tasks.id ASC")
	} else {
		listQuery = listQuery.Order("tasks.created_at ASC, tasks.id ASC")
	}

	if err := listQuery.Scopes(database.Paginate(filter.Page, filter.PageSize)).Find(&tasks).Error; err != nil {
		return nil, 0, translate(err)
	}

	return tasks, total, nil
}

// Update applies a partial update inside a transaction. updated_at is
// refreshed on every call, even when no other column changes.
func (r *GormTaskRepository) Update(ctx context.Context, id uint64, updates map[string]interface{}) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		return tx.Model(&task).Updates(withUpdatedAt(updates)).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return r.FindByID(ctx, id)
}

// Delete removes a task. Subtasks survive with parent_id set to NULL.
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
