package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xylcg/finance4/internal/errors"
	"github.com/xylcg/finance4/internal/models"
	"github.com/xylcg/finance4/internal/pagination"
	"github.com/xylcg/finance4/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn      func(userID uint, name string, targetAmount, currentAmount int64, targetDate time.Time) (*models.Goal, error)
	getUserGoalsFn    func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	getGoalByIDFn     func(userID, goalID uint) (*models.Goal, error)
	updateGoalFn      func(userID, goalID uint, name string, targetAmount, currentAmount *int64, targetDate *time.Time) (*models.Goal, error)
	deleteGoalFn      func(userID, goalID uint) error
	getGoalProgressFn func(userID, goalID uint) (*services.GoalProgress, error)
}

func (m *mockGoalService) CreateGoal(userID uint, name string, targetAmount, currentAmount int64, targetDate time.Time) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, targetAmount, currentAmount, targetDate)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Goal{}, 1, 10, 0)
	return &resp, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID uint, name string, targetAmount, currentAmount *int64, targetDate *time.Time) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, name, targetAmount, currentAmount, targetDate)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID uint) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) GetGoalProgress(userID, goalID uint) (*services.GoalProgress, error) {
	if m.getGoalProgressFn != nil {
		return m.getGoalProgressFn(userID, goalID)
	}
	return &services.GoalProgress{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetUserGoals)
	auth.GET("/goals/:id", handler.GetGoalByID)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	auth.GET("/goals/:id/progress", handler.GetGoalProgress)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(_ uint, name string, targetAmount, currentAmount int64, _ time.Time) (*models.Goal, error) {
				return &models.Goal{
					Base:          models.Base{ID: 1},
					Name:          name,
					TargetAmount:  targetAmount,
					CurrentAmount: currentAmount,
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"买车","target_amount":1000000,"target_date":"2027-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		goal := parseJSON(t, rec)["goal"].(map[string]interface{})
		if goal["target_amount"].(float64) != 1000000 {
			t.Errorf("expected target 1000000, got %v", goal["target_amount"])
		}
	})

	t.Run("returns 400 on missing target date", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"买车","target_amount":1000000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero target amount", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"买车","target_amount":0,"target_date":"2027-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_GetGoalProgress(t *testing.T) {
	t.Run("returns 200 with progress", func(t *testing.T) {
		svc := &mockGoalService{
			getGoalProgressFn: func(_, goalID uint) (*services.GoalProgress, error) {
				return &services.GoalProgress{
					GoalID:        goalID,
					TargetAmount:  100000,
					CurrentAmount: 35000,
					Progress:      35.0,
					DaysRemaining: 180,
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/1/progress", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		progress := parseJSON(t, rec)["progress"].(map[string]interface{})
		if progress["progress"].(float64) != 35.0 {
			t.Errorf("expected progress 35.0, got %v", progress["progress"])
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockGoalService{
			getGoalProgressFn: func(_, _ uint) (*services.GoalProgress, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/99/progress", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}

func TestGoalHandler_UpdateGoal(t *testing.T) {
	t.Run("passes current amount through", func(t *testing.T) {
		var captured *int64
		svc := &mockGoalService{
			updateGoalFn: func(_, _ uint, _ string, _, currentAmount *int64, _ *time.Time) (*models.Goal, error) {
				captured = currentAmount
				return &models.Goal{}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "PUT", "/goals/1", `{"current_amount":42000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured == nil || *captured != 42000 {
			t.Error("expected current amount 42000 passed through")
		}
	})
}

func TestGoalHandler_DeleteGoal(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "DELETE", "/goals/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
