package services

import (
	"context"
	"fmt"
	"strings"

	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/repository"
	"github.com/yukikurage/task-habit-api/internal/utils"
)

var (
	ErrWorkspaceNotFound       = apierrors.New(apierrors.KindNotFound, "workspace not found")
	ErrWorkspaceKeyTaken       = apierrors.New(apierrors.KindConflict, "workspace key already exists")
	ErrWorkspacePermission     = apierrors.New(apierrors.KindForbidden, "only workspace owners and admins can perform this action")
	ErrOwnerRoleNotGrantable   = apierrors.Validation("Invalid input", map[string]string{"role": "owner role cannot be granted"})
	ErrAlreadyWorkspaceMember  = apierrors.New(apierrors.KindConflict, "user is already a member of this workspace")
	ErrWorkspaceMemberNotFound = apierrors.New(apierrors.KindNotFound, "workspace member not found")
	ErrCannotRemoveOwner       = apierrors.New(apierrors.KindForbidden, "the workspace owner cannot be removed")
	ErrInviteExists            = apierrors.New(apierrors.KindConflict, "an invite for this email already exists")
	ErrInviteNotFound          = apierrors.New(apierrors.KindNotFound, "invite not found")
	ErrInviteEmailMismatch     = apierrors.New(apierrors.KindForbidden, "invite was issued to a different email")
	ErrInviteAlreadyAccepted   = apierrors.New(apierrors.KindConflict, "invite has already been accepted")
)

// WorkspaceService provides business logic for workspace operations.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	OwnerID     uint64 `json:"owner_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Key         string `json:"key" validate:"required,min=2,max=10,alphanum"`
	Description string `json:"description"`
}

// CreateWorkspace creates a workspace and makes the creator its owner.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, input CreateWorkspaceInput) (*models.Workspace, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Key = strings.ToUpper(strings.TrimSpace(input.Key))
	if err := validateInput(input); err != nil {
		return nil, err
	}

	workspace := &models.Workspace{
		Name:        input.Name,
		Key:         input.Key,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	if err := s.workspaceRepo.CreateWithOwner(ctx, workspace, &models.WorkspaceMember{}); err != nil {
		return nil, storageError(err, nil, ErrWorkspaceKeyTaken)
	}

	return workspace, nil
}

// GetWorkspace returns a workspace the viewer belongs to.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, viewerID, workspaceID uint64) (*models.Workspace, error) {
	if _, err := s.GetMembership(ctx, workspaceID, viewerID); err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, storageError(err, ErrWorkspaceNotFound, nil)
	}
	return workspace, nil
}

// ListWorkspacesForUser returns the user's memberships with workspaces loaded.
func (s *WorkspaceService) ListWorkspacesForUser(ctx context.Context, userID uint64) ([]models.WorkspaceMember, error) {
	memberships, err := s.workspaceRepo.ListMembershipsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return memberships, nil
}

// ListMembers lists the members of a workspace the viewer belongs to.
func (s *WorkspaceService) ListMembers(ctx context.Context, viewerID, workspaceID uint64) ([]models.WorkspaceMember, error) {
	if _, err := s.GetMembership(ctx, workspaceID, viewerID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMemberInput represents parameters to add a user to a workspace.
type AddMemberInput struct {
	WorkspaceID uint64               `json:"workspace_id" validate:"required"`
	ActorID     uint64               `json:"actor_id" validate:"required"`
	UserID      uint64               `json:"user_id" validate:"required"`
	Role        models.WorkspaceRole `json:"role" validate:"omitempty,oneof=owner admin member"`
}

// AddMember adds an existing user with the given role. Role defaults to
// member.
func (s *WorkspaceService) AddMember(ctx context.Context, input AddMemberInput) (*models.WorkspaceMember, error) {
	if input.Role == "" {
		input.Role = models.RoleMember
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Role == models.RoleOwner {
		return nil, ErrOwnerRoleNotGrantable
	}

	if _, err := s.manager(ctx, input.WorkspaceID, input.ActorID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: input.WorkspaceID,
		UserID:      input.UserID,
		Role:        input.Role,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, storageError(err, nil, ErrAlreadyWorkspaceMember)
	}

	return member, nil
}

// RemoveMember removes a member. Members may leave on their own; removing
// someone else needs a managing role, and only the owner removes admins.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID, actorID, userID uint64) error {
	actor, err := s.GetMembership(ctx, workspaceID, actorID)
	if err != nil {
		return err
	}

	target, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
	if err != nil {
		return storageError(err, ErrWorkspaceMemberNotFound, nil)
	}
	if target.Role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}

	if actorID != userID {
		if !actor.Role.CanManage() {
			return ErrWorkspacePermission
		}
		if target.Role == models.RoleAdmin && actor.Role != models.RoleOwner {
			return ErrWorkspacePermission
		}
	}

	return storageError(s.workspaceRepo.RemoveMember(ctx, workspaceID, userID), ErrWorkspaceMemberNotFound, nil)
}

// CreateInviteInput represents parameters to invite someone by email.
type CreateInviteInput struct {
	WorkspaceID uint64               `json:"workspace_id" validate:"required"`
	ActorID     uint64               `json:"actor_id" validate:"required"`
	Email       string               `json:"email" validate:"required,email,max=320"`
	Role        models.WorkspaceRole `json:"role" validate:"omitempty,oneof=owner admin member"`
}

// CreateInvite stores an invite with a fresh random code.
func (s *WorkspaceService) CreateInvite(ctx context.Context, input CreateInviteInput) (*models.Invite, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = models.RoleMember
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Role == models.RoleOwner {
		return nil, ErrOwnerRoleNotGrantable
	}

	if _, err := s.manager(ctx, input.WorkspaceID, input.ActorID); err != nil {
		return nil, err
	}

	code, err := utils.NewInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	invite := &models.Invite{
		WorkspaceID: input.WorkspaceID,
		Email:       input.Email,
		Role:        input.Role,
		Code:        code,
		InvitedByID: input.ActorID,
	}
	if err := s.workspaceRepo.CreateInvite(ctx, invite); err != nil {
		return nil, storageError(err, nil, ErrInviteExists)
	}

	return invite, nil
}

// ListInvites lists invites; only managing roles see them.
func (s *WorkspaceService) ListInvites(ctx context.Context, actorID, workspaceID uint64) ([]models.Invite, error) {
	if _, err := s.manager(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}

	invites, err := s.workspaceRepo.ListInvites(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

// AcceptInvite joins the invited workspace. The caller's email must equal
// the invite email exactly.
func (s *WorkspaceService) AcceptInvite(ctx context.Context, userID uint64, code string) (*models.WorkspaceMember, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}

	invite, err := s.workspaceRepo.FindInviteByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, storageError(err, ErrInviteNotFound, nil)
	}
	if invite.Email != user.Email {
		return nil, ErrInviteEmailMismatch
	}
	if invite.AcceptedAt != nil {
		return nil, ErrInviteAlreadyAccepted
	}
	if _, err := s.workspaceRepo.FindMember(ctx, invite.WorkspaceID, user.ID); err == nil {
		return nil, ErrAlreadyWorkspaceMember
	}

	member := &models.WorkspaceMember{
		WorkspaceID: invite.WorkspaceID,
		UserID:      user.ID,
		Role:        invite.Role,
	}
	if err := s.workspaceRepo.AcceptInvite(ctx, invite, member); err != nil {
		return nil, storageError(err, nil, ErrInviteAlreadyAccepted)
	}

	return member, nil
}

// GetMembership returns the caller's membership; non-members see NotFound.
func (s *WorkspaceService) GetMembership(ctx context.Context, workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, storageError(err, ErrWorkspaceNotFound, nil)
	}
	return member, nil
}

func (s *WorkspaceService) manager(ctx context.Context, workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	member, err := s.GetMembership(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !member.Role.CanManage() {
		return nil, ErrWorkspacePermission
	}
	return member, nil
}
