package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-habit-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and the owner membership atomically
func (r *GormWorkspaceRepository) CreateWithOwner(ctx context.Context, workspace *models.Workspace, owner *models.WorkspaceMember) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}

		owner.WorkspaceID = workspace.ID
		owner.UserID = workspace.OwnerID
		owner.Role = models.RoleOwner

		return tx.Create(owner).Error
	})
	if err != nil {
		return translate(err)
	}

	return translate(r.db.WithContext(ctx).First(workspace, workspace.ID).Error)
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(ctx context.Context, id uint64) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := r.db.WithContext(ctx).First(&workspace, id).Error; err != nil {
		return nil, translate(err)
	}
	return &workspace, nil
}

// ListMembershipsByUserID lists all workspaces a user is a member of
func (r *GormWorkspaceRepository) ListMembershipsByUserID(ctx context.Context, userID uint64) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	if err := r.db.WithContext(ctx).
		Preload("Workspace").
		Where("user_id = ?", userID).
		Order("joined_at ASC, workspace_id ASC").
		Find(&members).Error; err != nil {
		return nil, translate(err)
	}
	return members, nil
}

// AddMember adds a member to a workspace
func (r *GormWorkspaceRepository) AddMember(ctx context.Context, member *models.WorkspaceMember) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(member).Error
	}))
}

// RemoveMember removes a member from a workspace
func (r *GormWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
			Delete(&models.WorkspaceMember{})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// FindMember finds a specific workspace member
func (r *GormWorkspaceRepository) FindMember(ctx context.Context, workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// ListMembers lists all members of a workspace
func (r *GormWorkspaceRepository) ListMembers(ctx context.Context, workspaceID uint64) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("workspace_id = ?", workspaceID).
		Order("joined_at ASC, user_id ASC").
		Find(&members).Error; err != nil {
		return nil, translate(err)
	}
	return members, nil
}

// CreateInvite stores a pending invite
func (r *GormWorkspaceRepository) CreateInvite(ctx context.Context, invite *models.Invite) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// An accepted invite for the same email gives way to the new one;
		// a pending one still conflicts.
		if err := tx.Where("workspace_id = ? AND email = ? AND accepted_at IS NOT NULL", invite.WorkspaceID, invite.Email).
			Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		return tx.Create(invite).Error
	})
	if err != nil {
		return translate(err)
	}

	return translate(r.db.WithContext(ctx).First(invite, invite.ID).Error)
}

// FindInviteByCode finds an invite by its code
func (r *GormWorkspaceRepository) FindInviteByCode(ctx context.Context, code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, translate(err)
	}
	return &invite, nil
}

// ListInvites lists the invites of a workspace, newest first
func (r *GormWorkspaceRepository) ListInvites(ctx context.Context, workspaceID uint64) ([]models.Invite, error) {
	var invites []models.Invite
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC, id DESC").
		Find(&invites).Error; err != nil {
		return nil, translate(err)
	}
	return invites, nil
}

// AcceptInvite flips accepted_at with a conditional update so an invite is
// consumed at most once, then creates the membership.
func (r *GormWorkspaceRepository) AcceptInvite(ctx context.Context, invite *models.Invite, member *models.WorkspaceMember) error {
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Invite{}).
			Where("id = ? AND accepted_at IS NULL", invite.ID).
			Update("accepted_at", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDuplicate
		}

		return tx.Create(member).Error
	})
	if err != nil {
		return translate(err)
	}

	invite.AcceptedAt = &now
	return nil
}
