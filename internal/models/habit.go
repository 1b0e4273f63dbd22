package models

import (
	"time"
)

type HabitFrequency string

const (
	HabitFrequencyDaily   HabitFrequency = "daily"
	HabitFrequencyWeekly  HabitFrequency = "weekly"
	HabitFrequencyMonthly HabitFrequency = "monthly"
)

func (f HabitFrequency) Valid() bool {
	switch f {
	case HabitFrequencyDaily, HabitFrequencyWeekly, HabitFrequencyMonthly:
		return true
	}
	return false
}

type Habit struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Frequency   HabitFrequency `gorm:"type:varchar(20);not null;default:'daily';check:ck_habits_frequency,frequency IN ('daily','weekly','monthly')" json:"frequency"`
	TargetCount int            `gorm:"not null;default:1;check:ck_habits_target_count,target_count > 0" json:"target_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HabitCompletion marks a habit as done for one calendar day. The pair
// (habit_id, completed_on) is unique in storage.
type HabitCompletion struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	HabitID     uint64    `gorm:"not null;index;uniqueIndex:uq_habit_completions_habit_id_completed_on,priority:1" json:"habit_id"`
	CompletedOn time.Time `gorm:"type:date;not null;uniqueIndex:uq_habit_completions_habit_id_completed_on,priority:2" json:"completed_on"`
	Note        string    `gorm:"type:text" json:"note"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Habit Habit `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

// CalendarDay truncates t to midnight UTC of its own calendar date, which is
// the only representation stored in completed_on.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
