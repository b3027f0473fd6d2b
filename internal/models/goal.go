package models

import "time"

// Progress returns the percentage of TargetAmount reached by CurrentAmount.
// A non-positive target yields 0 rather than a division by zero. The result
// may exceed 100 when the goal is overfunded.
func (g *Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
}

// DaysRemaining returns the whole days until TargetDate, truncated.
// Negative values mean the goal is overdue, which is a valid state.
func (g *Goal) DaysRemaining(now time.Time) int {
	return int(g.TargetDate.Sub(now).Hours() / 24)
}

// Goal represents a savings goal. CurrentAmount is a running total mutated
// by linked transactions or direct edits.
type Goal struct {
	Base
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	TargetAmount  int64     `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64     `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	TargetDate    time.Time `gorm:"not null" json:"target_date"`

	// Set once the due-date reminder mail has gone out.
	RemindedAt *time.Time `json:"-"`
}
