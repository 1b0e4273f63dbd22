package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/dto"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/middleware"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
)

// WorkspaceHandler handles workspace membership and invites.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// CreateWorkspace creates a workspace owned by the current user.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateWorkspaceRequest struct {
		Name        string `json:"name"`
		Key         string `json:"key"`
		Description string `json:"description"`
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(c.Request.Context(), services.CreateWorkspaceInput{
		OwnerID:     userID,
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WorkspaceWithRoleDTO{
		WorkspaceDTO: dto.ToWorkspaceDTO(*workspace),
		Role:         models.RoleOwner,
	})
}

// ListWorkspaces returns the workspaces the current user belongs to.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.workspaceService.ListWorkspacesForUser(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	workspaces := make([]dto.WorkspaceWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		workspaces[i] = dto.ToWorkspaceWithRoleDTO(membership)
	}

	c.JSON(http.StatusOK, gin.H{
		"workspaces": workspaces,
	})
}

// GetWorkspace returns a workspace with the caller's role.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	member, ok := middleware.GetWorkspaceMember(c)
	if !ok {
		apierrors.Forbidden(c, "Workspace access required")
		return
	}

	workspace, err := h.workspaceService.GetWorkspace(c.Request.Context(), member.UserID, member.WorkspaceID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WorkspaceWithRoleDTO{
		WorkspaceDTO: dto.ToWorkspaceDTO(*workspace),
		Role:         member.Role,
	})
}

// ListMembers returns the members of the workspace.
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	member, ok := middleware.GetWorkspaceMember(c)
	if !ok {
		apierrors.Forbidden(c, "Workspace access required")
		return
	}

	members, err := h.workspaceService.ListMembers(c.Request.Context(), member.UserID, member.WorkspaceID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	items := make([]dto.WorkspaceMemberDTO, len(members))
	for i, m := range members {
		items[i] = dto.ToWorkspaceMemberDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": items,
	})
}

// AddMember adds an existing user to the workspace.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	member, ok := middleware.GetWorkspaceMember(c)
	if !ok {
		apierrors.Forbidden(c, "Workspace access required")
		return
	}

	type AddMemberRequest struct {
		UserID uint64               `json:"user_id" binding:"required"`
		Role   models.WorkspaceRole `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	added, err := h.workspaceService.AddMember(c.Request.Context(), services.AddMemberInput{
		WorkspaceID: member.WorkspaceID,
		ActorID:     member.UserID,
		UserID:      req.UserID,
		Role:        req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceMemberDTO(*added))
}

// RemoveMember removes :user_id from the workspace.
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	member, ok := middleware.GetWorkspaceMember(c)
	if !ok {
		apierrors.Forbidden(c, "Workspace access required")
		return
	}

	targetID, ok := middleware.ParseIDParam(c, "user_id", "user")
	if !ok {
		return
	}

	if err := h.workspaceService.RemoveMember(c.Request.Context(), member.WorkspaceID, member.UserID, targetID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListInvites returns the workspace's invites.
func (h *WorkspaceHandler) ListInvites(c *gin.Context) {
	member, ok := middleware.GetWorkspaceMember(c)
	if !ok {
		apierrors.Forbidden(c, "Workspace access required")
		return
	}

	invites, err := h.workspaceService.ListInvites(c.Request.Context(), member.UserID, member.WorkspaceID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	items := make([]dto.InviteDTO, len(invites))
	for i, invite := range invites {
		items[i] = dto.ToInviteDTO(invite)
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": items,
	})
}

// CreateInvite invites an email address to the workspace.
func (h *WorkspaceHandler) CreateInvite(c *gin.Context) {
	member, ok := middleware.GetWorkspaceMember(c)
	if !ok {
		apierrors.Forbidden(c, "Workspace access required")
		return
	}

	type CreateInviteRequest struct {
		Email string               `json:"email"`
		Role  models.WorkspaceRole `json:"role"`
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invite, err := h.workspaceService.CreateInvite(c.Request.Context(), services.CreateInviteInput{
		WorkspaceID: member.WorkspaceID,
		ActorID:     member.UserID,
		Email:       req.Email,
		Role:        req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInviteDTO(*invite))
}

// AcceptInvite joins the workspace the invite code belongs to.
func (h *WorkspaceHandler) AcceptInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AcceptInviteRequest struct {
		Code string `json:"code" binding:"required"`
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invite code is required")
		return
	}

	member, err := h.workspaceService.AcceptInvite(c.Request.Context(), userID, req.Code)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceMemberDTO(*member))
}
