package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single ledger entry. Amounts are stored as
// positive minor units; the sign is carried by Type.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `gorm:"size:200" json:"description"`
	Type        TransactionType `gorm:"size:10;not null" json:"type"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// Optional savings goal this entry contributes to.
	GoalID *uint `json:"goal_id,omitempty"`
	Goal   *Goal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}
