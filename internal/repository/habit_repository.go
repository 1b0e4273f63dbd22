package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-habit-api/internal/database"
	"github.com/yukikurage/task-habit-api/internal/models"
	"gorm.io/gorm"
)

// GormHabitRepository is a GORM implementation of HabitRepository
type GormHabitRepository struct {
	db *gorm.DB
}

// NewHabitRepository creates a new HabitRepository
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &GormHabitRepository{db: db}
}

// Create creates a new habit
func (r *GormHabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(habit).Error
	})
	if err != nil {
		return translate(err)
	}

	return translate(r.db.WithContext(ctx).First(habit, habit.ID).Error)
}

// FindByID finds a habit by ID
func (r *GormHabitRepository) FindByID(ctx context.Context, id uint64) (*models.Habit, error) {
	var habit models.Habit
	if err := r.db.WithContext(ctx).First(&habit, id).Error; err != nil {
		return nil, translate(err)
	}
	return &habit, nil
}

// ListByUser lists habits owned by a user
func (r *GormHabitRepository) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]models.Habit, int64, error) {
	var habits []models.Habit

	query := r.db.WithContext(ctx).Model(&models.Habit{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	if err := query.Order("created_at ASC, id ASC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&habits).Error; err != nil {
		return nil, 0, translate(err)
	}

	return habits, total, nil
}

// Update applies a partial update inside a transaction
func (r *GormHabitRepository) Update(ctx context.Context, id uint64, updates map[string]interface{}) (*models.Habit, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.First(&habit, id).Error; err != nil {
			return err
		}
		return tx.Model(&habit).Updates(withUpdatedAt(updates)).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return r.FindByID(ctx, id)
}

// Delete removes a habit; completions go with it through ON DELETE CASCADE
func (r *GormHabitRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Habit{}, id)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateCompletion inserts a completion. The unique index on
// (habit_id, completed_on) rejects a second row for the same day with
// ErrDuplicate.
func (r *GormHabitRepository) CreateCompletion(ctx context.Context, completion *models.HabitCompletion) error {
	completion.CompletedOn = models.CalendarDay(completion.CompletedOn)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(completion).Error
	})
	if err != nil {
		return translate(err)
	}

	return translate(r.db.WithContext(ctx).First(completion, completion.ID).Error)
}

// ListCompletions lists completions of a habit ordered by day
func (r *GormHabitRepository) ListCompletions(ctx context.Context, habitID uint64, from, to *time.Time) ([]models.HabitCompletion, error) {
	var completions []models.HabitCompletion

	query := r.db.WithContext(ctx).Where("habit_id = ?", habitID)
	if from != nil {
		query = query.Where("completed_on >= ?", models.CalendarDay(*from))
	}
	if to != nil {
		query = query.Where("completed_on <= ?", models.CalendarDay(*to))
	}

	if err := query.Order("completed_on ASC").Find(&completions).Error; err != nil {
		return nil, translate(err)
	}

	return completions, nil
}

// DeleteCompletion removes the completion recorded for a day
func (r *GormHabitRepository) DeleteCompletion(ctx context.Context, habitID uint64, day time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("habit_id = ? AND completed_on = ?", habitID, models.CalendarDay(day)).
			Delete(&models.HabitCompletion{})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
