package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postdeck/pkg/logger"
	"postdeck/pkg/roles"
	"postdeck/services/community/internal/usecase"
)

type CommunityHandler struct {
	communityUseCase usecase.CommunityUseCase
	logger           *logger.Logger
}

func NewCommunityHandler(communityUseCase usecase.CommunityUseCase, logger *logger.Logger) *CommunityHandler {
	return &CommunityHandler{
		communityUseCase: communityUseCase,
		logger:           logger,
	}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type CreateForumPostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

type UpdateForumPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func isStaff(c *gin.Context) bool {
	return c.GetString("role") == roles.AccountRoleStaff
}

func respondForumError(c *gin.Context, err error) {
	switch err.Error() {
	case "category not found", "post not found", "comment not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case "not the author":
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case "post is locked", "category slug already exists":
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListCategories godoc
// @Summary      List forum categories
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /forum/categories [get]
func (h *CommunityHandler) ListCategories(c *gin.Context) {
	categories, err := h.communityUseCase.ListCategories()
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory godoc
// @Summary      Create forum category
// @Description  Staff only. Slug is derived from the name when omitted.
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCategoryRequest true "Category"
// @Success      201 {object} entity.ForumCategory
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /forum/categories [post]
func (h *CommunityHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.communityUseCase.CreateCategory(req.Name, req.Slug, req.Description)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListPosts godoc
// @Summary      List posts in a category
// @Description  Pinned posts first, then newest
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        category_id path string true "Category ID"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Offset"
// @Success      200 {object} map[string]interface{}
// @Router       /forum/categories/{category_id}/posts [get]
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.communityUseCase.ListPosts(c.Param("category_id"), limit, offset)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// CreatePost godoc
// @Summary      Create forum post
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        category_id path string true "Category ID"
// @Param        request body CreateForumPostRequest true "Post"
// @Success      201 {object} entity.ForumPost
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /forum/categories/{category_id}/posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req CreateForumPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.communityUseCase.CreatePost(c.Param("category_id"), c.GetString("user_id"), req.Title, req.Body)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Get forum post
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200 {object} entity.ForumPost
// @Failure      404 {object} map[string]string
// @Router       /forum/posts/{post_id} [get]
func (h *CommunityHandler) GetPost(c *gin.Context) {
	post, err := h.communityUseCase.GetPost(c.Param("post_id"))
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary      Update forum post
// @Description  Author or staff
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Param        request body UpdateForumPostRequest true "Fields to change"
// @Success      200 {object} entity.ForumPost
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /forum/posts/{post_id} [put]
func (h *CommunityHandler) UpdatePost(c *gin.Context) {
	var req UpdateForumPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.communityUseCase.UpdatePost(c.Param("post_id"), c.GetString("user_id"), isStaff(c), req.Title, req.Body)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete forum post
// @Description  Author or staff. Comments go with the post.
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /forum/posts/{post_id} [delete]
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	if err := h.communityUseCase.DeletePost(c.Param("post_id"), c.GetString("user_id"), isStaff(c)); err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// TogglePin godoc
// @Summary      Pin or unpin a post
// @Description  Staff only, toggles the current state
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200 {object} entity.ForumPost
// @Failure      404 {object} map[string]string
// @Router       /forum/posts/{post_id}/pin [post]
func (h *CommunityHandler) TogglePin(c *gin.Context) {
	post, err := h.communityUseCase.TogglePin(c.Param("post_id"))
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// ToggleLock godoc
// @Summary      Lock or unlock a post
// @Description  Staff only, toggles the current state. Locked posts refuse new comments.
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200 {object} entity.ForumPost
// @Failure      404 {object} map[string]string
// @Router       /forum/posts/{post_id}/lock [post]
func (h *CommunityHandler) ToggleLock(c *gin.Context) {
	post, err := h.communityUseCase.ToggleLock(c.Param("post_id"))
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// RecordView godoc
// @Summary      Count a post view
// @Description  Counts once per user per post
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /forum/posts/{post_id}/view [post]
func (h *CommunityHandler) RecordView(c *gin.Context) {
	viewed, err := h.communityUseCase.RecordView(c.Param("post_id"), c.GetString("user_id"))
	if err != nil {
		respondForumError(c, err)
		return
	}

	if viewed {
		c.JSON(http.StatusOK, gin.H{"message": "View counted", "viewed": true})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "View already counted", "viewed": false})
	}
}

// ListComments godoc
// @Summary      List comments on a post
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /forum/posts/{post_id}/comments [get]
func (h *CommunityHandler) ListComments(c *gin.Context) {
	comments, err := h.communityUseCase.ListComments(c.Param("post_id"))
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// CreateComment godoc
// @Summary      Comment on a post
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Param        request body CreateCommentRequest true "Comment"
// @Success      201 {object} entity.ForumComment
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /forum/posts/{post_id}/comments [post]
func (h *CommunityHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.communityUseCase.CreateComment(c.Param("post_id"), c.GetString("user_id"), req.Body)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary      Delete comment
// @Description  Author or staff
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        comment_id path string true "Comment ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /forum/comments/{comment_id} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	if err := h.communityUseCase.DeleteComment(c.Param("comment_id"), c.GetString("user_id"), isStaff(c)); err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
