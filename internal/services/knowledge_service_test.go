package services

import (
	"testing"

	"github.com/xylcg/finance4/internal/models"
	"github.com/xylcg/finance4/internal/pagination"
	"github.com/xylcg/finance4/internal/testutil"
)

func TestGetArticles(t *testing.T) {
	t.Run("filters_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewKnowledgeService(db)

		testutil.CreateTestKnowledge(t, db, "理财入门")
		testutil.CreateTestKnowledge(t, db, "理财入门")
		testutil.CreateTestKnowledge(t, db, "投资进阶")

		category := "理财入门"
		result, err := svc.GetArticles(pagination.PageRequest{}, &category)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 articles in category, got %d", result.TotalItems)
		}
		for _, article := range result.Data {
			if article.Category != category {
				t.Errorf("expected category %q, got %q", category, article.Category)
			}
		}
	})

	t.Run("no_filter_returns_all", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewKnowledgeService(db)

		testutil.CreateTestKnowledge(t, db, "理财入门")
		testutil.CreateTestKnowledge(t, db, "投资进阶")

		result, err := svc.GetArticles(pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 articles, got %d", result.TotalItems)
		}
	})
}

func TestGetArticleByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewKnowledgeService(db)

	article := testutil.CreateTestKnowledge(t, db, "理财入门")

	got, err := svc.GetArticleByID(article.ID)
	testutil.AssertNoError(t, err)
	if got.Title != article.Title {
		t.Errorf("expected title %q, got %q", article.Title, got.Title)
	}

	_, err = svc.GetArticleByID(9999)
	testutil.AssertAppError(t, err, "KNOWLEDGE_NOT_FOUND")
}

func TestFavorites(t *testing.T) {
	t.Run("add_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewKnowledgeService(db)
		user := testutil.CreateTestUser(t, db)
		article := testutil.CreateTestKnowledge(t, db, "理财入门")

		testutil.AssertNoError(t, svc.AddFavorite(user.ID, article.ID))
		testutil.AssertNoError(t, svc.AddFavorite(user.ID, article.ID))

		var count int64
		db.Model(&models.Favorite{}).
			Where("user_id = ? AND knowledge_id = ?", user.ID, article.ID).
			Count(&count)
		if count != 1 {
			t.Errorf("expected a single favorite row, got %d", count)
		}
	})

	t.Run("unknown_article_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewKnowledgeService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.AddFavorite(user.ID, 9999)
		testutil.AssertAppError(t, err, "KNOWLEDGE_NOT_FOUND")
	})

	t.Run("remove_and_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewKnowledgeService(db)
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestKnowledge(t, db, "理财入门")
		second := testutil.CreateTestKnowledge(t, db, "投资进阶")

		testutil.AssertNoError(t, svc.AddFavorite(user.ID, first.ID))
		testutil.AssertNoError(t, svc.AddFavorite(user.ID, second.ID))

		result, err := svc.GetFavorites(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Fatalf("expected 2 favorites, got %d", result.TotalItems)
		}

		testutil.AssertNoError(t, svc.RemoveFavorite(user.ID, first.ID))

		result, err = svc.GetFavorites(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("expected 1 favorite after removal, got %d", result.TotalItems)
		}
		if result.Data[0].ID != second.ID {
			t.Errorf("expected remaining favorite %d, got %d", second.ID, result.Data[0].ID)
		}
	})

	t.Run("remove_non_favorite_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewKnowledgeService(db)
		user := testutil.CreateTestUser(t, db)
		article := testutil.CreateTestKnowledge(t, db, "理财入门")

		testutil.AssertNoError(t, svc.RemoveFavorite(user.ID, article.ID))
	})

	t.Run("favorites_scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewKnowledgeService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		article := testutil.CreateTestKnowledge(t, db, "理财入门")

		testutil.AssertNoError(t, svc.AddFavorite(other.ID, article.ID))

		result, err := svc.GetFavorites(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no favorites for user, got %d", result.TotalItems)
		}
	})
}
