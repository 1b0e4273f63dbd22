package models

import "time"

type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "owner"
	RoleAdmin  WorkspaceRole = "admin"
	RoleMember WorkspaceRole = "member"
)

func (r WorkspaceRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManage reports whether the role may add members and issue invites.
func (r WorkspaceRole) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

type WorkspaceMember struct {
	WorkspaceID uint64        `gorm:"primarykey" json:"workspace_id"`
	UserID      uint64        `gorm:"primarykey;index" json:"user_id"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null;check:chk_workspace_members_role,role IN ('owner','admin','member')" json:"role"`
	JoinedAt    time.Time     `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
