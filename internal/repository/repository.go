package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-habit-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user and reloads it so server defaults are populated
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByIdentifier finds a user whose email or username equals identifier
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// SetActive toggles the is_active flag
	SetActive(ctx context.Context, id uint64, active bool) error

	// Delete removes a user; owned rows cascade in storage
	Delete(ctx context.Context, id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update applies a partial update and returns the stored row
	Update(ctx context.Context, id uint64, updates map[string]interface{}) (*models.Task, error)

	// Delete removes a task; subtasks keep existing with parent_id cleared
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// ViewerID limits results to tasks the viewer owns or that live in one
	// of the viewer's workspaces.
	ViewerID      *uint64
	OwnerID       *uint64
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uint64
	WorkspaceID   *uint64
	DueFrom       *time.Time
	DueTo         *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}

// HabitRepository defines the interface for habit and completion data access
type HabitRepository interface {
	// Create creates a new habit
	Create(ctx context.Context, habit *models.Habit) error

	// FindByID finds a habit by ID
	FindByID(ctx context.Context, id uint64) (*models.Habit, error)

	// ListByUser lists the habits owned by a user, oldest first
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]models.Habit, int64, error)

	// Update applies a partial update and returns the stored row
	Update(ctx context.Context, id uint64, updates map[string]interface{}) (*models.Habit, error)

	// Delete removes a habit and, through storage cascades, its completions
	Delete(ctx context.Context, id uint64) error

	// CreateCompletion inserts a completion; a second row for the same day
	// fails with ErrDuplicate
	CreateCompletion(ctx context.Context, completion *models.HabitCompletion) error

	// ListCompletions lists completions ordered by day, optionally bounded
	// by an inclusive range
	ListCompletions(ctx context.Context, habitID uint64, from, to *time.Time) ([]models.HabitCompletion, error)

	// DeleteCompletion removes the completion recorded for a day
	DeleteCompletion(ctx context.Context, habitID uint64, day time.Time) error
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// CreateWithOwner creates a workspace and its owner membership atomically
	CreateWithOwner(ctx context.Context, workspace *models.Workspace, owner *models.WorkspaceMember) error

	// FindByID finds a workspace by ID
	FindByID(ctx context.Context, id uint64) (*models.Workspace, error)

	// ListMembershipsByUserID lists the memberships of a user with workspaces preloaded
	ListMembershipsByUserID(ctx context.Context, userID uint64) ([]models.WorkspaceMember, error)

	// AddMember adds a member to a workspace
	AddMember(ctx context.Context, member *models.WorkspaceMember) error

	// RemoveMember removes a member from a workspace
	RemoveMember(ctx context.Context, workspaceID, userID uint64) error

	// FindMember finds a specific workspace member
	FindMember(ctx context.Context, workspaceID, userID uint64) (*models.WorkspaceMember, error)

	// ListMembers lists all members of a workspace with users preloaded
	ListMembers(ctx context.Context, workspaceID uint64) ([]models.WorkspaceMember, error)

	// CreateInvite stores a pending invite, replacing an accepted invite for
	// the same workspace and email
	CreateInvite(ctx context.Context, invite *models.Invite) error

	// FindInviteByCode finds an invite by its code
	FindInviteByCode(ctx context.Context, code string) (*models.Invite, error)

	// ListInvites lists the invites of a workspace
	ListInvites(ctx context.Context, workspaceID uint64) ([]models.Invite, error)

	// AcceptInvite marks the invite accepted and creates the membership in
	// one transaction
	AcceptInvite(ctx context.Context, invite *models.Invite, member *models.WorkspaceMember) error
}

// withUpdatedAt copies updates and stamps updated_at.
func withUpdatedAt(updates map[string]interface{}) map[string]interface{} {
	stamped := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		stamped[k] = v
	}
	stamped["updated_at"] = time.Now()
	return stamped
}
