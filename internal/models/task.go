package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is owned by UserID. ParentID is a plain back-reference: deleting the
// parent nulls it out instead of removing the subtask.
type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index" json:"user_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueAt       *time.Time   `gorm:"index" json:"due_at"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';check:chk_tasks_status,status IN ('todo','in_progress','done')" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium';check:chk_tasks_priority,priority IN ('low','medium','high')" json:"priority"`
	AssigneeID  *uint64      `gorm:"index" json:"assignee_id"`
	ParentID    *uint64      `gorm:"index" json:"parent_id"`
	WorkspaceID *uint64      `gorm:"index" json:"workspace_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Assignee  *User      `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"-"`
	Parent    *Task      `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:SET NULL" json:"-"`
}

// IsCompleted is the personal-tracker view of the status.
func (t Task) IsCompleted() bool {
	return t.Status == TaskStatusDone
}
