package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"postdeck/pkg/logger"
	"postdeck/services/community/internal/entity"
	"postdeck/services/community/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// viewDedupTTL is how long one user's view of one post counts only once.
const viewDedupTTL = 365 * 24 * time.Hour

type CommunityUseCase interface {
	CreateCategory(name, slug, description string) (*entity.ForumCategory, error)
	ListCategories() ([]*entity.ForumCategory, error)

	CreatePost(categoryID, authorID, title, body string) (*entity.ForumPost, error)
	GetPost(id string) (*entity.ForumPost, error)
	ListPosts(categoryID string, limit, offset int) ([]*entity.ForumPost, error)
	UpdatePost(id, userID string, isStaff bool, title, body string) (*entity.ForumPost, error)
	DeletePost(id, userID string, isStaff bool) error
	TogglePin(id string) (*entity.ForumPost, error)
	ToggleLock(id string) (*entity.ForumPost, error)
	RecordView(postID, userID string) (bool, error)

	CreateComment(postID, authorID, body string) (*entity.ForumComment, error)
	ListComments(postID string) ([]*entity.ForumComment, error)
	DeleteComment(id, userID string, isStaff bool) error
}

type communityUseCase struct {
	forumRepo   persistent.ForumRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewCommunityUseCase(forumRepo persistent.ForumRepository, redisClient *redis.Client, logger *logger.Logger) CommunityUseCase {
	return &communityUseCase{
		forumRepo:   forumRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (uc *communityUseCase) CreateCategory(name, slug, description string) (*entity.ForumCategory, error) {
	if slug == "" {
		slug = slugify(name)
	}

	if _, err := uc.forumRepo.GetCategoryBySlug(slug); err == nil {
		return nil, fmt.Errorf("category slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		uc.logger.Error("Failed to check category slug: %v", err)
		return nil, fmt.Errorf("failed to create category")
	}

	category := &entity.ForumCategory{
		Name:        name,
		Slug:        slug,
		Description: description,
	}
	if err := uc.forumRepo.CreateCategory(category); err != nil {
		uc.logger.Error("Failed to create category: %v", err)
		return nil, fmt.Errorf("failed to create category")
	}
	return category, nil
}

func (uc *communityUseCase) ListCategories() ([]*entity.ForumCategory, error) {
	categories, err := uc.forumRepo.ListCategories()
	if err != nil {
		uc.logger.Error("Failed to list categories: %v", err)
		return nil, fmt.Errorf("failed to list categories")
	}
	return categories, nil
}

func (uc *communityUseCase) CreatePost(categoryID, authorID, title, body string) (*entity.ForumPost, error) {
	if _, err := uc.forumRepo.GetCategoryByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found")
		}
		uc.logger.Error("Failed to load category: %v", err)
		return nil, fmt.Errorf("failed to create post")
	}

	post := &entity.ForumPost{
		CategoryID: categoryID,
		AuthorID:   authorID,
		Title:      title,
		Body:       body,
	}
	if err := uc.forumRepo.CreatePost(post); err != nil {
		uc.logger.Error("Failed to create forum post: %v", err)
		return nil, fmt.Errorf("failed to create post")
	}
	return post, nil
}

func (uc *communityUseCase) GetPost(id string) (*entity.ForumPost, error) {
	post, err := uc.forumRepo.GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post not found")
		}
		uc.logger.Error("Failed to get forum post: %v", err)
		return nil, fmt.Errorf("failed to get post")
	}
	return post, nil
}

func (uc *communityUseCase) ListPosts(categoryID string, limit, offset int) ([]*entity.ForumPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := uc.forumRepo.ListPostsByCategory(categoryID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list forum posts: %v", err)
		return nil, fmt.Errorf("failed to list posts")
	}
	return posts, nil
}

func (uc *communityUseCase) UpdatePost(id, userID string, isStaff bool, title, body string) (*entity.ForumPost, error) {
	post, err := uc.GetPost(id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID && !isStaff {
		return nil, fmt.Errorf("not the author")
	}

	updates := map[string]interface{}{}
	if title != "" {
		updates["title"] = title
	}
	if body != "" {
		updates["body"] = body
	}
	if len(updates) > 0 {
		if err := uc.forumRepo.UpdatePost(id, updates); err != nil {
			uc.logger.Error("Failed to update forum post: %v", err)
			return nil, fmt.Errorf("failed to update post")
		}
	}

	return uc.GetPost(id)
}

func (uc *communityUseCase) DeletePost(id, userID string, isStaff bool) error {
	post, err := uc.GetPost(id)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !isStaff {
		return fmt.Errorf("not the author")
	}

	if err := uc.forumRepo.DeletePost(id); err != nil {
		uc.logger.Error("Failed to delete forum post: %v", err)
		return fmt.Errorf("failed to delete post")
	}
	return nil
}

func (uc *communityUseCase) TogglePin(id string) (*entity.ForumPost, error) {
	return uc.toggleFlag(id, "pinned", func(p *entity.ForumPost) bool { return p.Pinned })
}

func (uc *communityUseCase) ToggleLock(id string) (*entity.ForumPost, error) {
	return uc.toggleFlag(id, "locked", func(p *entity.ForumPost) bool { return p.Locked })
}

func (uc *communityUseCase) toggleFlag(id, column string, current func(*entity.ForumPost) bool) (*entity.ForumPost, error) {
	post, err := uc.GetPost(id)
	if err != nil {
		return nil, err
	}

	if err := uc.forumRepo.UpdatePost(id, map[string]interface{}{column: !current(post)}); err != nil {
		uc.logger.Error("Failed to toggle %s: %v", column, err)
		return nil, fmt.Errorf("failed to update post")
	}
	return uc.GetPost(id)
}

// RecordView counts one view per user per post. The redis key dedups
// repeat views; only the first one touches the views column.
func (uc *communityUseCase) RecordView(postID, userID string) (bool, error) {
	if _, err := uc.GetPost(postID); err != nil {
		return false, err
	}

	ctx := context.Background()
	viewKey := fmt.Sprintf("forum_viewed:%s:%s", postID, userID)

	set, err := uc.redisClient.SetNX(ctx, viewKey, "1", viewDedupTTL).Result()
	if err != nil {
		uc.logger.Error("Failed to set view key in Redis: %v", err)
		return false, fmt.Errorf("failed to track view")
	}
	if !set {
		return false, nil
	}

	if err := uc.forumRepo.IncrementViews(postID); err != nil {
		uc.logger.Error("Failed to increment views: %v", err)
		return false, fmt.Errorf("failed to track view")
	}
	return true, nil
}

func (uc *communityUseCase) CreateComment(postID, authorID, body string) (*entity.ForumComment, error) {
	post, err := uc.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.Locked {
		return nil, fmt.Errorf("post is locked")
	}

	comment := &entity.ForumComment{
		PostID:   postID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := uc.forumRepo.CreateComment(comment); err != nil {
		uc.logger.Error("Failed to create comment: %v", err)
		return nil, fmt.Errorf("failed to create comment")
	}
	return comment, nil
}

func (uc *communityUseCase) ListComments(postID string) ([]*entity.ForumComment, error) {
	if _, err := uc.GetPost(postID); err != nil {
		return nil, err
	}

	comments, err := uc.forumRepo.ListComments(postID)
	if err != nil {
		uc.logger.Error("Failed to list comments: %v", err)
		return nil, fmt.Errorf("failed to list comments")
	}
	return comments, nil
}

func (uc *communityUseCase) DeleteComment(id, userID string, isStaff bool) error {
	comment, err := uc.forumRepo.GetCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment not found")
		}
		uc.logger.Error("Failed to get comment: %v", err)
		return fmt.Errorf("failed to delete comment")
	}
	if comment.AuthorID != userID && !isStaff {
		return fmt.Errorf("not the author")
	}

	if err := uc.forumRepo.DeleteComment(id); err != nil {
		uc.logger.Error("Failed to delete comment: %v", err)
		return fmt.Errorf("failed to delete comment")
	}
	return nil
}

// slugify lowercases the name and keeps letters, digits and dashes.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
