package dto

import (
	"time"

	"github.com/yukikurage/task-habit-api/internal/models"
)

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkspaceWithRoleDTO represents a workspace with the user's role
type WorkspaceWithRoleDTO struct {
	WorkspaceDTO
	Role models.WorkspaceRole `json:"role"`
}

// WorkspaceMemberDTO represents a member in a workspace
type WorkspaceMemberDTO struct {
	UserID   uint64               `json:"user_id"`
	Username string               `json:"username,omitempty"`
	Role     models.WorkspaceRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

// InviteDTO represents an invite. The code is only shown to managers.
type InviteDTO struct {
	ID          uint64               `json:"id"`
	WorkspaceID uint64               `json:"workspace_id"`
	Email       string               `json:"email"`
	Role        models.WorkspaceRole `json:"role"`
	Code        string               `json:"code"`
	AcceptedAt  *time.Time           `json:"accepted_at"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(workspace models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Key:         workspace.Key,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
		CreatedAt:   workspace.CreatedAt,
	}
}

// ToWorkspaceWithRoleDTO converts a membership with its workspace preloaded
func ToWorkspaceWithRoleDTO(member models.WorkspaceMember) WorkspaceWithRoleDTO {
	return WorkspaceWithRoleDTO{
		WorkspaceDTO: ToWorkspaceDTO(member.Workspace),
		Role:         member.Role,
	}
}

// ToWorkspaceMemberDTO converts a member to DTO
func ToWorkspaceMemberDTO(member models.WorkspaceMember) WorkspaceMemberDTO {
	return WorkspaceMemberDTO{
		UserID:   member.UserID,
		Username: member.User.Username,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToInviteDTO converts an invite to DTO
func ToInviteDTO(invite models.Invite) InviteDTO {
	return InviteDTO{
		ID:          invite.ID,
		WorkspaceID: invite.WorkspaceID,
		Email:       invite.Email,
		Role:        invite.Role,
		Code:        invite.Code,
		AcceptedAt:  invite.AcceptedAt,
		CreatedAt:   invite.CreatedAt,
	}
}
