package models

import (
	"time"
)

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Email          string    `gorm:"type:varchar(320);uniqueIndex:ix_users_email;not null" json:"email"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex:ix_users_username;not null" json:"username"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
