// Package reminder runs the scheduled budget-alert and goal-reminder jobs.
package reminder

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/xylcg/finance4/internal/config"
	"github.com/xylcg/finance4/internal/logger"
	"github.com/xylcg/finance4/internal/mailer"
	"github.com/xylcg/finance4/internal/services"
)

// BudgetAlert is a budget whose window closes within the alert lead time,
// joined with its owner's contact details.
type BudgetAlert struct {
	BudgetID uint
	UserID   uint
	Username string
	Email    string
	Name     string
	Category string
	EndDate  time.Time
}

// GoalReminder is a goal falling due within the reminder lead time.
type GoalReminder struct {
	GoalID        uint
	UserID        uint
	Username      string
	Email         string
	Name          string
	TargetAmount  int64
	CurrentAmount int64
	TargetDate    time.Time
}

// Engine scans for due budgets/goals and emails their owners.
type Engine struct {
	db            *gorm.DB
	mailer        mailer.Mailer
	budgetService services.BudgetServicer
	budgetLead    int
	goalLead      int
}

// NewEngine creates a reminder engine. The mailer may be nil, in which
// case Run only logs what it would have sent.
func NewEngine(db *gorm.DB, m mailer.Mailer, budgetService services.BudgetServicer, cfg *config.Config) *Engine {
	return &Engine{
		db:            db,
		mailer:        m,
		budgetService: budgetService,
		budgetLead:    cfg.BudgetAlertDays,
		goalLead:      cfg.GoalReminderDays,
	}
}

// Start schedules the daily run at midnight and returns the cron handle.
func (e *Engine) Start() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 0 * * *", func() {
		if err := e.Run(time.Now()); err != nil {
			logger.Get().Errorw("reminder run failed", "error", err)
		}
	})
	if err != nil {
		logger.Get().Errorw("failed to schedule reminder job", "error", err)
	}

	c.Start()
	logger.Get().Infow("reminder job started",
		"budget_alert_days", e.budgetLead,
		"goal_reminder_days", e.goalLead,
	)
	return c
}

// Run sends all due budget alerts and goal reminders. Individual send
// failures are logged and do not stop the remaining sends.
func (e *Engine) Run(now time.Time) error {
	alerts, err := e.DueBudgetAlerts(now)
	if err != nil {
		return err
	}
	for _, alert := range alerts {
		e.sendBudgetAlert(alert, now)
	}

	reminders, err := e.DueGoalReminders(now)
	if err != nil {
		return err
	}
	for _, reminder := range reminders {
		e.sendGoalReminder(reminder, now)
	}

	logger.Get().Infow("reminder run finished",
		"budget_alerts", len(alerts),
		"goal_reminders", len(reminders),
	)
	return nil
}

// DueBudgetAlerts lists budgets whose window ends within the configured
// lead time, starting from now. Budgets already alerted are excluded so a
// window inside the lead time is mailed once, not on every daily run.
func (e *Engine) DueBudgetAlerts(now time.Time) ([]BudgetAlert, error) {
	deadline := now.AddDate(0, 0, e.budgetLead)

	var alerts []BudgetAlert
	err := e.db.Table("budgets").
		Select("budgets.id AS budget_id, budgets.user_id, users.username, users.email, budgets.name, budgets.category, budgets.end_date").
		Joins("JOIN users ON users.id = budgets.user_id").
		Where("budgets.deleted_at IS NULL AND budgets.alerted_at IS NULL AND budgets.end_date BETWEEN ? AND ?", now, deadline).
		Scan(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// DueGoalReminders lists goals falling due within the configured lead time
// that have not been reminded yet.
func (e *Engine) DueGoalReminders(now time.Time) ([]GoalReminder, error) {
	deadline := now.AddDate(0, 0, e.goalLead)

	var reminders []GoalReminder
	err := e.db.Table("goals").
		Select("goals.id AS goal_id, goals.user_id, users.username, users.email, goals.name, goals.target_amount, goals.current_amount, goals.target_date").
		Joins("JOIN users ON users.id = goals.user_id").
		Where("goals.deleted_at IS NULL AND goals.reminded_at IS NULL AND goals.target_date BETWEEN ? AND ?", now, deadline).
		Scan(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (e *Engine) sendBudgetAlert(alert BudgetAlert, now time.Time) {
	summary, err := e.budgetService.GetBudgetSummary(alert.UserID, alert.BudgetID)
	if err != nil {
		logger.Get().Errorw("failed to summarize budget for alert", "budget_id", alert.BudgetID, "error", err)
		return
	}

	subject := fmt.Sprintf("预算提醒：%s 即将到期", alert.Name)
	body := fmt.Sprintf(
		`<p>%s，你好：</p>
<p>你的预算「%s」（分类：%s）将于 %s 结束。</p>
<p>已支出 %d，剩余 %d。</p>`,
		alert.Username, alert.Name, alert.Category,
		alert.EndDate.Format("2006-01-02"), summary.Spent, summary.Remaining,
	)
	if e.deliver(alert.Email, subject, body) {
		e.mark("budgets", "alerted_at", alert.BudgetID, now)
	}
}

func (e *Engine) sendGoalReminder(reminder GoalReminder, now time.Time) {
	goalProgress := float64(0)
	if reminder.TargetAmount > 0 {
		goalProgress = float64(reminder.CurrentAmount) / float64(reminder.TargetAmount) * 100
	}

	subject := fmt.Sprintf("目标提醒：%s 即将到期", reminder.Name)
	body := fmt.Sprintf(
		`<p>%s，你好：</p>
<p>你的目标「%s」将于 %s 到期。</p>
<p>当前进度 %.1f%%（%d / %d）。</p>`,
		reminder.Username, reminder.Name,
		reminder.TargetDate.Format("2006-01-02"),
		goalProgress, reminder.CurrentAmount, reminder.TargetAmount,
	)
	if e.deliver(reminder.Email, subject, body) {
		e.mark("goals", "reminded_at", reminder.GoalID, now)
	}
}

// deliver reports whether the mail actually went out. With no mailer
// configured nothing is marked, so the item stays due until mail works.
func (e *Engine) deliver(to, subject, body string) bool {
	if e.mailer == nil {
		logger.Get().Infow("email disabled, skipping reminder", "to", to, "subject", subject)
		return false
	}
	if err := e.mailer.Send(to, subject, body); err != nil {
		logger.Get().Errorw("failed to send reminder", "to", to, "error", err)
		return false
	}
	return true
}

func (e *Engine) mark(table, column string, id uint, now time.Time) {
	if err := e.db.Table(table).Where("id = ?", id).Update(column, now).Error; err != nil {
		logger.Get().Errorw("failed to record reminder send", "table", table, "id", id, "error", err)
	}
}
