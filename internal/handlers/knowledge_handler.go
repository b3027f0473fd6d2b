package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xylcg/finance4/internal/errors"
	"github.com/xylcg/finance4/internal/pagination"
	"github.com/xylcg/finance4/internal/services"
)

// KnowledgeHandler handles the shared article library.
type KnowledgeHandler struct {
	knowledgeService services.KnowledgeServicer
	auditService     services.AuditServicer
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(knowledgeService services.KnowledgeServicer, auditService services.AuditServicer) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService, auditService: auditService}
}

// knowledgeListQuery holds the list endpoint's query parameters
type knowledgeListQuery struct {
	pagination.PageRequest
	Category string `form:"category"`
}

// GetArticles lists knowledge articles
// @Summary     List articles
// @Description List knowledge articles, newest first, optionally filtered by category
// @Tags        knowledge
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 10, max 100)"
// @Param       category  query string false "Filter by article category"
// @Success     200 {object} pagination.PageResponse[models.Knowledge] "Paginated articles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /knowledge [get]
func (h *KnowledgeHandler) GetArticles(c *gin.Context) {
	var query knowledgeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var category *string
	if query.Category != "" {
		category = &query.Category
	}

	result, err := h.knowledgeService.GetArticles(query.PageRequest, category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetArticleByID returns a single article
// @Summary     Get article by ID
// @Description Get a knowledge article by ID
// @Tags        knowledge
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Article ID"
// @Success     200 {object} map[string]interface{} "Article details"
// @Failure     400 {object} ErrorResponse "Invalid article ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Article not found"
// @Router      /knowledge/{id} [get]
func (h *KnowledgeHandler) GetArticleByID(c *gin.Context) {
	articleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	article, err := h.knowledgeService.GetArticleByID(articleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// AddFavorite marks an article as a favorite
// @Summary     Favorite article
// @Description Add an article to the authenticated user's favorites; repeating is a no-op
// @Tags        knowledge
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Article ID"
// @Success     200 {object} MessageResponse "Article favorited"
// @Failure     400 {object} ErrorResponse "Invalid article ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Article not found"
// @Router      /knowledge/{id}/favorite [post]
func (h *KnowledgeHandler) AddFavorite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	articleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.knowledgeService.AddFavorite(userID, articleID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_FAVORITE", "knowledge", articleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Article added to favorites"})
}

// RemoveFavorite removes an article from favorites
// @Summary     Unfavorite article
// @Description Remove an article from the authenticated user's favorites
// @Tags        knowledge
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Article ID"
// @Success     200 {object} MessageResponse "Article unfavorited"
// @Failure     400 {object} ErrorResponse "Invalid article ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Favorite not found"
// @Router      /knowledge/{id}/favorite [delete]
func (h *KnowledgeHandler) RemoveFavorite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	articleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.knowledgeService.RemoveFavorite(userID, articleID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REMOVE_FAVORITE", "knowledge", articleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Article removed from favorites"})
}

// GetFavorites lists the authenticated user's favorite articles
// @Summary     List favorites
// @Description List the authenticated user's favorite articles, most recently favorited first
// @Tags        knowledge
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 10, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Knowledge] "Paginated favorite articles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /knowledge/favorites [get]
func (h *KnowledgeHandler) GetFavorites(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.knowledgeService.GetFavorites(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
