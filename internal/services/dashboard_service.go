package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "github.com/xylcg/finance4/internal/errors"
	"github.com/xylcg/finance4/internal/models"
)

const (
	recentTransactionCount = 5
	recommendedArticles    = 3
)

// dashboardService aggregates the landing-page data for a user.
type dashboardService struct {
	db            *gorm.DB
	budgetService BudgetServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, budgetService BudgetServicer) DashboardServicer {
	return &dashboardService{db: db, budgetService: budgetService}
}

// GetDashboard collects recent transactions, currently active budgets with
// their live summaries, open goals with progress, and a few random articles.
func (s *dashboardService) GetDashboard(userID uint) (*Dashboard, error) {
	now := time.Now()
	dashboard := &Dashboard{}

	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(recentTransactionCount).
		Find(&dashboard.RecentTransactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, now, now).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	dashboard.ActiveBudgets = make([]BudgetOverview, 0, len(budgets))
	for _, budget := range budgets {
		summary, err := s.budgetService.GetBudgetSummary(userID, budget.ID)
		if err != nil {
			return nil, err
		}
		dashboard.ActiveBudgets = append(dashboard.ActiveBudgets, BudgetOverview{Budget: budget, Summary: *summary})
	}

	var goals []models.Goal
	if err := s.db.Where("user_id = ? AND target_date >= ?", userID, now).
		Order("target_date ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	dashboard.ActiveGoals = make([]GoalOverview, 0, len(goals))
	for _, goal := range goals {
		dashboard.ActiveGoals = append(dashboard.ActiveGoals, GoalOverview{
			Goal: goal,
			Progress: GoalProgress{
				GoalID:        goal.ID,
				TargetAmount:  goal.TargetAmount,
				CurrentAmount: goal.CurrentAmount,
				Progress:      goal.Progress(),
				DaysRemaining: goal.DaysRemaining(now),
			},
		})
	}

	// RANDOM() is understood by both postgres and sqlite.
	if err := s.db.Model(&models.Knowledge{}).
		Order("RANDOM()").
		Limit(recommendedArticles).
		Find(&dashboard.RecommendedReading).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return dashboard, nil
}
