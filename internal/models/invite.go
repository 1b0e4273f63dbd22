package models

import (
	"time"
)

// Invite offers a workspace role to whoever owns Email. Owner is never
// offered through an invite. At most one invite per workspace and email is
// kept; an accepted one is replaced when the email is invited again.
type Invite struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	WorkspaceID uint64        `gorm:"not null;uniqueIndex:ux_invites_workspace_email,priority:1" json:"workspace_id"`
	Email       string        `gorm:"type:varchar(320);not null;uniqueIndex:ux_invites_workspace_email,priority:2" json:"email"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null;check:chk_invites_role,role IN ('admin','member')" json:"role"`
	Code        string        `gorm:"type:varchar(50);uniqueIndex:ux_invites_code;not null" json:"code"`
	InvitedByID uint64        `gorm:"not null" json:"invited_by_id"`
	AcceptedAt  *time.Time    `json:"accepted_at"`
	CreatedAt   time.Time     `json:"created_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"-"`
	InvitedBy User      `gorm:"foreignKey:InvitedByID;constraint:OnDelete:CASCADE" json:"-"`
}
