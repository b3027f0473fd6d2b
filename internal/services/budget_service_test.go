package services

import (
	"testing"
	"time"

	"github.com/xylcg/finance4/internal/models"
	"github.com/xylcg/finance4/internal/pagination"
	"github.com/xylcg/finance4/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, "一月餐饮", 50000, "餐饮", models.BudgetPeriodMonthly, start, end)
		testutil.AssertNoError(t, err)

		if budget.ID == 0 {
			t.Fatal("expected non-zero budget ID")
		}
		if budget.Category != "餐饮" {
			t.Errorf("expected category 餐饮, got %q", budget.Category)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "bad", 0, "餐饮", models.BudgetPeriodMonthly, start, end)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("window_crossed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "bad", 50000, "餐饮", models.BudgetPeriodMonthly, end, start)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("single_day_window_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "one day", 50000, "餐饮", models.BudgetPeriodMonthly, start, start)
		testutil.AssertNoError(t, err)
	})
}

func TestGetBudgetSummary(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("sums_window_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "餐饮", 50000, start, end)

		// In the window and category.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "餐饮", 12000, start.AddDate(0, 0, 5))
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "餐饮", 8000, start.AddDate(0, 0, 10))
		// Outside the window.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "餐饮", 5000, end.AddDate(0, 0, 2))
		// Different category.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "交通", 3000, start.AddDate(0, 0, 5))
		// Income in the same category never counts as spend.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "餐饮", 9000, start.AddDate(0, 0, 5))

		summary, err := svc.GetBudgetSummary(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if summary.Spent != 20000 {
			t.Errorf("expected spent 20000, got %d", summary.Spent)
		}
		if summary.Remaining != 30000 {
			t.Errorf("expected remaining 30000, got %d", summary.Remaining)
		}
		if summary.Percentage != 40.0 {
			t.Errorf("expected percentage 40.0, got %f", summary.Percentage)
		}
	})

	t.Run("boundary_dates_included", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "餐饮", 50000, start, end)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "餐饮", 1000, start)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "餐饮", 2000, end)

		summary, err := svc.GetBudgetSummary(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if summary.Spent != 3000 {
			t.Errorf("expected both boundary transactions counted, got spent %d", summary.Spent)
		}
	})

	t.Run("empty_window_sums_to_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "餐饮", 50000, start, end)

		summary, err := svc.GetBudgetSummary(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if summary.Spent != 0 {
			t.Errorf("expected spent 0, got %d", summary.Spent)
		}
		if summary.Remaining != 50000 {
			t.Errorf("expected remaining 50000, got %d", summary.Remaining)
		}
	})

	t.Run("overspent_goes_negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "餐饮", 10000, start, end)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "餐饮", 15000, start.AddDate(0, 0, 5))

		summary, err := svc.GetBudgetSummary(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if summary.Remaining != -5000 {
			t.Errorf("expected remaining -5000, got %d", summary.Remaining)
		}
		if summary.Percentage != 150.0 {
			t.Errorf("expected percentage 150.0, got %f", summary.Percentage)
		}
	})

	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		stranger := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID, "餐饮", 50000, start, end)

		// Another user's spend in the same category and window.
		testutil.CreateTestTransaction(t, db, stranger.ID, models.TransactionTypeExpense, "餐饮", 9000, start.AddDate(0, 0, 5))

		summary, err := svc.GetBudgetSummary(owner.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if summary.Spent != 0 {
			t.Errorf("expected foreign spend excluded, got %d", summary.Spent)
		}

		_, err = svc.GetBudgetSummary(stranger.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestUpdateBudget(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "餐饮", 50000, start, end)

		newAmount := int64(60000)
		updated, err := svc.UpdateBudget(user.ID, budget.ID, "", &newAmount, nil, nil, nil, nil)
		testutil.AssertNoError(t, err)

		if updated.Amount != 60000 {
			t.Errorf("expected amount 60000, got %d", updated.Amount)
		}
		if updated.Category != "餐饮" {
			t.Errorf("expected category preserved, got %q", updated.Category)
		}
	})

	t.Run("rejects_crossed_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "餐饮", 50000, start, end)

		bad := start.AddDate(0, -1, 0)
		_, err := svc.UpdateBudget(user.ID, budget.ID, "", nil, nil, nil, nil, &bad)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateBudget(user.ID, 9999, "x", nil, nil, nil, nil, nil)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("transactions_survive_deletion", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		txSvc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "餐饮", 50000, start, end)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "餐饮", 1000, start)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		_, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

		// The ledger entry is untouched.
		_, err = txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("ordered_by_start_date_desc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestBudget(t, db, user.ID, "餐饮", 50000, jan, jan.AddDate(0, 1, -1))
		testutil.CreateTestBudget(t, db, user.ID, "交通", 20000, feb, feb.AddDate(0, 1, -1))

		result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Fatalf("expected 2 budgets, got %d", result.TotalItems)
		}
		if result.Data[0].Category != "交通" {
			t.Errorf("expected most recent window first, got %q", result.Data[0].Category)
		}
	})
}
