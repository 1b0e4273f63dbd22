package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/task-habit-api/internal/models"
	"gorm.io/gorm"
)

// compositeIndex is an index the struct tags cannot express on their own.
type compositeIndex struct {
	model   interface{}
	table   string
	name    string
	columns string
}

var compositeIndexes = []compositeIndex{
	// Owner listings filtered by status and ordered by creation time
	{&models.Task{}, "tasks", "idx_tasks_user_status_created", "user_id, status, created_at"},
	// Workspace boards
	{&models.Task{}, "tasks", "idx_tasks_workspace_status", "workspace_id, status"},
	// Habit listings per owner
	{&models.Habit{}, "habits", "idx_habits_user_created", "user_id, created_at"},
}

// AddIndexes adds composite lookup indexes. It is idempotent.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
