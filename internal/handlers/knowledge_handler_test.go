package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xylcg/finance4/internal/errors"
	"github.com/xylcg/finance4/internal/models"
	"github.com/xylcg/finance4/internal/pagination"
	"github.com/xylcg/finance4/internal/services"
)

// --- mock knowledge service ---

type mockKnowledgeService struct {
	getArticlesFn    func(page pagination.PageRequest, category *string) (*pagination.PageResponse[models.Knowledge], error)
	getArticleByIDFn func(id uint) (*models.Knowledge, error)
	addFavoriteFn    func(userID, knowledgeID uint) error
	removeFavoriteFn func(userID, knowledgeID uint) error
	getFavoritesFn   func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Knowledge], error)
}

func (m *mockKnowledgeService) GetArticles(page pagination.PageRequest, category *string) (*pagination.PageResponse[models.Knowledge], error) {
	if m.getArticlesFn != nil {
		return m.getArticlesFn(page, category)
	}
	resp := pagination.NewPageResponse([]models.Knowledge{}, 1, 10, 0)
	return &resp, nil
}

func (m *mockKnowledgeService) GetArticleByID(id uint) (*models.Knowledge, error) {
	if m.getArticleByIDFn != nil {
		return m.getArticleByIDFn(id)
	}
	return &models.Knowledge{}, nil
}

func (m *mockKnowledgeService) AddFavorite(userID, knowledgeID uint) error {
	if m.addFavoriteFn != nil {
		return m.addFavoriteFn(userID, knowledgeID)
	}
	return nil
}

func (m *mockKnowledgeService) RemoveFavorite(userID, knowledgeID uint) error {
	if m.removeFavoriteFn != nil {
		return m.removeFavoriteFn(userID, knowledgeID)
	}
	return nil
}

func (m *mockKnowledgeService) GetFavorites(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Knowledge], error) {
	if m.getFavoritesFn != nil {
		return m.getFavoritesFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Knowledge{}, 1, 10, 0)
	return &resp, nil
}

var _ services.KnowledgeServicer = (*mockKnowledgeService)(nil)

func setupKnowledgeRouter(handler *KnowledgeHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/knowledge", handler.GetArticles)
	auth.GET("/knowledge/favorites", handler.GetFavorites)
	auth.GET("/knowledge/:id", handler.GetArticleByID)
	auth.POST("/knowledge/:id/favorite", handler.AddFavorite)
	auth.DELETE("/knowledge/:id/favorite", handler.RemoveFavorite)
	return r
}

func TestKnowledgeHandler_GetArticles(t *testing.T) {
	t.Run("passes category filter", func(t *testing.T) {
		var captured *string
		svc := &mockKnowledgeService{
			getArticlesFn: func(page pagination.PageRequest, category *string) (*pagination.PageResponse[models.Knowledge], error) {
				captured = category
				resp := pagination.NewPageResponse([]models.Knowledge{}, 1, 10, 0)
				return &resp, nil
			},
		}
		handler := NewKnowledgeHandler(svc, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "GET", "/knowledge?category=理财入门", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured == nil || *captured != "理财入门" {
			t.Errorf("expected category filter passed, got %v", captured)
		}
	})

	t.Run("omitted category stays nil", func(t *testing.T) {
		var captured *string
		called := false
		svc := &mockKnowledgeService{
			getArticlesFn: func(_ pagination.PageRequest, category *string) (*pagination.PageResponse[models.Knowledge], error) {
				called = true
				captured = category
				resp := pagination.NewPageResponse([]models.Knowledge{}, 1, 10, 0)
				return &resp, nil
			},
		}
		handler := NewKnowledgeHandler(svc, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "GET", "/knowledge", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called || captured != nil {
			t.Error("expected nil category filter")
		}
	})
}

func TestKnowledgeHandler_GetArticleByID(t *testing.T) {
	t.Run("returns 200 with article", func(t *testing.T) {
		svc := &mockKnowledgeService{
			getArticleByIDFn: func(id uint) (*models.Knowledge, error) {
				return &models.Knowledge{Base: models.Base{ID: id}, Title: "如何开始记账"}, nil
			},
		}
		handler := NewKnowledgeHandler(svc, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "GET", "/knowledge/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		article := parseJSON(t, rec)["article"].(map[string]interface{})
		if article["title"] != "如何开始记账" {
			t.Errorf("unexpected title %v", article["title"])
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockKnowledgeService{
			getArticleByIDFn: func(_ uint) (*models.Knowledge, error) {
				return nil, apperrors.ErrKnowledgeNotFound
			},
		}
		handler := NewKnowledgeHandler(svc, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "GET", "/knowledge/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "KNOWLEDGE_NOT_FOUND")
	})
}

func TestKnowledgeHandler_Favorites(t *testing.T) {
	t.Run("favorite returns 200", func(t *testing.T) {
		handler := NewKnowledgeHandler(&mockKnowledgeService{}, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "POST", "/knowledge/1/favorite", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("favorite unknown article returns 404", func(t *testing.T) {
		svc := &mockKnowledgeService{
			addFavoriteFn: func(_, _ uint) error {
				return apperrors.ErrKnowledgeNotFound
			},
		}
		handler := NewKnowledgeHandler(svc, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "POST", "/knowledge/99/favorite", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("unfavorite returns 200", func(t *testing.T) {
		handler := NewKnowledgeHandler(&mockKnowledgeService{}, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "DELETE", "/knowledge/1/favorite", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("list favorites scoped to user", func(t *testing.T) {
		var capturedUser uint
		svc := &mockKnowledgeService{
			getFavoritesFn: func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Knowledge], error) {
				capturedUser = userID
				resp := pagination.NewPageResponse([]models.Knowledge{{Title: "a"}}, 1, 10, 1)
				return &resp, nil
			},
		}
		handler := NewKnowledgeHandler(svc, &mockAuditService{})
		r := setupKnowledgeRouter(handler)

		rec := doRequest(r, "GET", "/knowledge/favorites", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedUser != 1 {
			t.Errorf("expected user 1, got %d", capturedUser)
		}
	})
}
