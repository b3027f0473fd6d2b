package services

import (
	"time"

	"github.com/xylcg/finance4/internal/models"
	"github.com/xylcg/finance4/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(userID uint, username, email string) (*models.User, error)
	SetAvatar(userID uint, path string) (*models.User, error)
}

// TransactionInput carries the fields of a transaction create or full update.
type TransactionInput struct {
	Amount      int64
	Description string
	Type        models.TransactionType
	Category    string
	Date        time.Time
	GoalID      *uint
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Filters compose conjunctively; the date range is inclusive on both ends.
type TransactionFilter struct {
	Type     *models.TransactionType
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionServicer defines the contract for ledger business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BudgetSummary contains the derived spend of a budget's window.
type BudgetSummary struct {
	BudgetID   uint    `json:"budget_id"`
	Amount     int64   `json:"amount"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, name string, amount int64, category string, period models.BudgetPeriod, startDate, endDate time.Time) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, name string, amount *int64, category *string, period *models.BudgetPeriod, startDate, endDate *time.Time) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetSummary(userID, budgetID uint) (*BudgetSummary, error)
}

// GoalProgress contains the derived progress of a savings goal.
type GoalProgress struct {
	GoalID        uint    `json:"goal_id"`
	TargetAmount  int64   `json:"target_amount"`
	CurrentAmount int64   `json:"current_amount"`
	Progress      float64 `json:"progress"`
	DaysRemaining int     `json:"days_remaining"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID uint, name string, targetAmount, currentAmount int64, targetDate time.Time) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, name string, targetAmount, currentAmount *int64, targetDate *time.Time) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
	GetGoalProgress(userID, goalID uint) (*GoalProgress, error)
}

// KnowledgeServicer defines the contract for the shared article library.
type KnowledgeServicer interface {
	GetArticles(page pagination.PageRequest, category *string) (*pagination.PageResponse[models.Knowledge], error)
	GetArticleByID(id uint) (*models.Knowledge, error)
	AddFavorite(userID, knowledgeID uint) error
	RemoveFavorite(userID, knowledgeID uint) error
	GetFavorites(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Knowledge], error)
}

// BudgetOverview pairs a budget with its derived summary.
type BudgetOverview struct {
	Budget  models.Budget `json:"budget"`
	Summary BudgetSummary `json:"summary"`
}

// GoalOverview pairs a goal with its derived progress.
type GoalOverview struct {
	Goal     models.Goal  `json:"goal"`
	Progress GoalProgress `json:"progress"`
}

// Dashboard aggregates the landing-page data for a user.
type Dashboard struct {
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	ActiveBudgets      []BudgetOverview     `json:"active_budgets"`
	ActiveGoals        []GoalOverview       `json:"active_goals"`
	RecommendedReading []models.Knowledge   `json:"recommended_reading"`
}

// DashboardServicer defines the contract for the dashboard aggregate.
type DashboardServicer interface {
	GetDashboard(userID uint) (*Dashboard, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
