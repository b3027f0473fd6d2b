package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/xylcg/finance4/internal/errors"
	"github.com/xylcg/finance4/internal/models"
	"github.com/xylcg/finance4/internal/pagination"
)

// knowledgeService handles the shared article library. Articles are
// read-only here; only the favorite relation is mutable.
type knowledgeService struct {
	db *gorm.DB
}

// NewKnowledgeService creates a new KnowledgeServicer.
func NewKnowledgeService(db *gorm.DB) KnowledgeServicer {
	return &knowledgeService{db: db}
}

// GetArticles returns a paginated list of articles, optionally filtered
// by category, newest first.
func (s *knowledgeService) GetArticles(page pagination.PageRequest, category *string) (*pagination.PageResponse[models.Knowledge], error) {
	page.Defaults()

	base := s.db.Model(&models.Knowledge{})
	if category != nil {
		base = base.Where("category = ?", *category)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var articles []models.Knowledge
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&articles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(articles, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetArticleByID returns a single article.
func (s *knowledgeService) GetArticleByID(id uint) (*models.Knowledge, error) {
	var article models.Knowledge
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrKnowledgeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &article, nil
}

// AddFavorite marks an article as a favorite of the user. The operation is
// idempotent: favoriting twice leaves a single row.
func (s *knowledgeService) AddFavorite(userID, knowledgeID uint) error {
	if _, err := s.GetArticleByID(knowledgeID); err != nil {
		return err
	}

	favorite := &models.Favorite{UserID: userID, KnowledgeID: knowledgeID}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RemoveFavorite unmarks an article. Removing a non-favorite is a no-op.
func (s *knowledgeService) RemoveFavorite(userID, knowledgeID uint) error {
	if _, err := s.GetArticleByID(knowledgeID); err != nil {
		return err
	}

	if err := s.db.Where("user_id = ? AND knowledge_id = ?", userID, knowledgeID).
		Delete(&models.Favorite{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetFavorites returns the user's favorited articles, most recently
// favorited first.
func (s *knowledgeService) GetFavorites(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Knowledge], error) {
	page.Defaults()

	base := s.db.Model(&models.Knowledge{}).
		Joins("JOIN user_favorites uf ON uf.knowledge_id = knowledge.id").
		Where("uf.user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var articles []models.Knowledge
	if err := base.Scopes(pagination.Paginate(page)).
		Order("uf.created_at DESC").
		Find(&articles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(articles, page.Page, page.PageSize, totalItems)
	return &result, nil
}
