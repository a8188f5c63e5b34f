package http

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"postdeck/pkg/logger"
	"postdeck/services/content/internal/usecase"
)

type ContentHandler struct {
	contentUseCase usecase.ContentUseCase
	logger         *logger.Logger
}

func NewContentHandler(contentUseCase usecase.ContentUseCase, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		contentUseCase: contentUseCase,
		logger:         logger,
	}
}

type CreatePostRequest struct {
	Body          string   `json:"body" binding:"required"`
	Platform      string   `json:"platform" binding:"required"`
	Hashtags      []string `json:"hashtags"`
	MediaAssetIDs []string `json:"media_asset_ids"`
}

type UpdatePostRequest struct {
	Body          *string  `json:"body"`
	Platform      *string  `json:"platform"`
	Hashtags      []string `json:"hashtags"`
	MediaAssetIDs []string `json:"media_asset_ids"`
}

type SchedulePostRequest struct {
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
}

// CreatePost godoc
// @Summary      Create draft post
// @Description  Create a new draft post for the organization
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body CreatePostRequest true "Post data"
// @Success      201 {object} entity.Post
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/posts [post]
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	post, err := h.contentUseCase.CreatePost(c.Param("org_id"), userID, req.Body, req.Platform, req.Hashtags, req.MediaAssetIDs)
	if err != nil {
		if err.Error() == "unsupported platform" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts godoc
// @Summary      List posts
// @Description  List the organization's posts with optional status and platform filters
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        status query string false "Filter by status"
// @Param        platform query string false "Filter by platform"
// @Param        limit query int false "Page size" default(20)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} map[string]interface{}
// @Router       /orgs/{org_id}/posts [get]
func (h *ContentHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.contentUseCase.ListPosts(c.Param("org_id"), c.Query("status"), c.Query("platform"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// GetPost godoc
// @Summary      Get post
// @Description  Get a single post by ID
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        post_id path string true "Post ID"
// @Success      200 {object} entity.Post
// @Failure      404 {object} map[string]string
// @Router       /orgs/{org_id}/posts/{post_id} [get]
func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.contentUseCase.GetPost(c.Param("org_id"), c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary      Update post
// @Description  Update a draft or scheduled post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        post_id path string true "Post ID"
// @Param        request body UpdatePostRequest true "Fields to update"
// @Success      200 {object} entity.Post
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /orgs/{org_id}/posts/{post_id} [put]
func (h *ContentHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.contentUseCase.UpdatePost(c.Param("org_id"), c.Param("post_id"), req.Body, req.Platform, req.Hashtags, req.MediaAssetIDs)
	if err != nil {
		switch err.Error() {
		case "post not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case "published posts cannot be edited":
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case "unsupported platform":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete post
// @Description  Delete a post and its schedule
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        post_id path string true "Post ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /orgs/{org_id}/posts/{post_id} [delete]
func (h *ContentHandler) DeletePost(c *gin.Context) {
	if err := h.contentUseCase.DeletePost(c.Param("org_id"), c.Param("post_id")); err != nil {
		if err.Error() == "post not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// SchedulePost godoc
// @Summary      Schedule post
// @Description  Schedule a draft post for future publication, or move an existing schedule
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        post_id path string true "Post ID"
// @Param        request body SchedulePostRequest true "Publication time"
// @Success      200 {object} entity.Post
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /orgs/{org_id}/posts/{post_id}/schedule [post]
func (h *ContentHandler) SchedulePost(c *gin.Context) {
	var req SchedulePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.contentUseCase.SchedulePost(c.Param("org_id"), c.Param("post_id"), req.ScheduledFor)
	if err != nil {
		switch err.Error() {
		case "post not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case "only draft or scheduled posts can be scheduled":
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case "scheduled time must be in the future", "scheduled post limit reached":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// UnschedulePost godoc
// @Summary      Unschedule post
// @Description  Return a scheduled post to draft
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        post_id path string true "Post ID"
// @Success      200 {object} entity.Post
// @Failure      409 {object} map[string]string
// @Router       /orgs/{org_id}/posts/{post_id}/unschedule [post]
func (h *ContentHandler) UnschedulePost(c *gin.Context) {
	post, err := h.contentUseCase.UnschedulePost(c.Param("org_id"), c.Param("post_id"))
	if err != nil {
		switch err.Error() {
		case "post not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case "only scheduled posts can be unscheduled":
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// UploadMedia godoc
// @Summary      Upload media
// @Description  Upload an image or video for use in posts
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        file formData file true "Media file"
// @Success      201 {object} entity.MediaAsset
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/media [post]
func (h *ContentHandler) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".mp4": true}
	if !allowedExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Allowed: jpg, jpeg, png, gif, mp4"})
		return
	}

	orgID := c.Param("org_id")
	userID := c.GetString("user_id")
	fileKey := fmt.Sprintf("media/%s/%s%s", orgID, uuid.New().String(), ext)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	asset, err := h.contentUseCase.UploadMedia(orgID, userID, file, header.Filename, fileKey, contentType, header.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// ListMedia godoc
// @Summary      List media
// @Description  List the organization's uploaded media assets
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} map[string]interface{}
// @Router       /orgs/{org_id}/media [get]
func (h *ContentHandler) ListMedia(c *gin.Context) {
	assets, err := h.contentUseCase.ListMedia(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list media"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"media": assets,
		"count": len(assets),
	})
}

// DeleteMedia godoc
// @Summary      Delete media
// @Description  Delete a media asset and its stored file
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        asset_id path string true "Media asset ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /orgs/{org_id}/media/{asset_id} [delete]
func (h *ContentHandler) DeleteMedia(c *gin.Context) {
	if err := h.contentUseCase.DeleteMedia(c.Param("org_id"), c.Param("asset_id")); err != nil {
		if err.Error() == "media asset not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media asset deleted successfully"})
}

// PlatformLimits godoc
// @Summary      Platform rate limits
// @Description  Current per-platform publish limit usage
// @Tags         platforms
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /platforms/limits [get]
func (h *ContentHandler) PlatformLimits(c *gin.Context) {
	limits := h.contentUseCase.PlatformLimits()
	c.JSON(http.StatusOK, gin.H{
		"limits": limits,
		"count":  len(limits),
	})
}

// PublishDue godoc
// @Summary      Publish due posts
// @Description  Publish every scheduled post whose time has passed. Invoked by an external cron caller.
// @Tags         cron
// @Produce      json
// @Param        Authorization header string true "Bearer cron secret"
// @Success      200 {object} usecase.PublishReport
// @Failure      401 {object} map[string]string
// @Router       /cron/publish-due [post]
func (h *ContentHandler) PublishDue(c *gin.Context) {
	report, err := h.contentUseCase.PublishDuePosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "publish sweep failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}
