package models

import "time"

// BudgetPeriod represents the period label for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
)

// Budget represents a spending ceiling for a category over an inclusive
// date window. Spend against it is never stored; it is recomputed from
// the ledger on every read.
type Budget struct {
	Base
	UserID    uint         `gorm:"not null;index" json:"user_id"`
	Name      string       `gorm:"size:100;not null" json:"name"`
	Amount    int64        `gorm:"type:bigint;not null" json:"amount"`
	Category  string       `gorm:"size:50;not null" json:"category"`
	Period    BudgetPeriod `gorm:"size:20;not null" json:"period"`
	StartDate time.Time    `gorm:"not null" json:"start_date"`
	EndDate   time.Time    `gorm:"not null" json:"end_date"`

	// Set once the end-of-window alert mail has gone out.
	AlertedAt *time.Time `json:"-"`
}
