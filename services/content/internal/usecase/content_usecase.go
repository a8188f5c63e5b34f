package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"postdeck/pkg/logger"
	"postdeck/pkg/platform"
	"postdeck/pkg/queue"
	"postdeck/pkg/ratelimit"
	"postdeck/pkg/s3"
	"postdeck/services/content/internal/entity"
	"postdeck/services/content/internal/repo/persistent"
)

type ContentUseCase interface {
	CreatePost(orgID, authorID, body, platform string, hashtags, mediaAssetIDs []string) (*entity.Post, error)
	GetPost(orgID, postID string) (*entity.Post, error)
	ListPosts(orgID, status, platform string, limit, offset int) ([]*entity.Post, error)
	UpdatePost(orgID, postID string, body, platform *string, hashtags, mediaAssetIDs []string) (*entity.Post, error)
	DeletePost(orgID, postID string) error

	SchedulePost(orgID, postID string, scheduledFor time.Time) (*entity.Post, error)
	UnschedulePost(orgID, postID string) (*entity.Post, error)

	UploadMedia(orgID, uploaderID string, fileReader io.Reader, fileName, fileKey, contentType string, sizeBytes int64) (*entity.MediaAsset, error)
	ListMedia(orgID string) ([]*entity.MediaAsset, error)
	DeleteMedia(orgID, assetID string) error

	PlatformLimits() []ratelimit.Status
	PublishDuePosts(ctx context.Context) (*PublishReport, error)
}

type contentUseCase struct {
	postRepo    persistent.PostRepository
	registry    *platform.Registry
	limiter     *ratelimit.Tracker
	s3Client    *s3.Client
	queueClient *queue.Client
	logger      *logger.Logger
	now         func() time.Time
}

func NewContentUseCase(
	postRepo persistent.PostRepository,
	registry *platform.Registry,
	limiter *ratelimit.Tracker,
	s3Client *s3.Client,
	queueClient *queue.Client,
	logger *logger.Logger,
) ContentUseCase {
	return &contentUseCase{
		postRepo:    postRepo,
		registry:    registry,
		limiter:     limiter,
		s3Client:    s3Client,
		queueClient: queueClient,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *contentUseCase) validPlatform(name string) bool {
	for _, kind := range uc.registry.Kinds() {
		if kind == name {
			return true
		}
	}
	return false
}

func (uc *contentUseCase) CreatePost(orgID, authorID, body, platformName string, hashtags, mediaAssetIDs []string) (*entity.Post, error) {
	if !uc.validPlatform(platformName) {
		return nil, fmt.Errorf("unsupported platform")
	}

	post := &entity.Post{
		OrgID:         orgID,
		AuthorID:      authorID,
		Body:          body,
		Platform:      platformName,
		Hashtags:      hashtags,
		MediaAssetIDs: mediaAssetIDs,
		Status:        entity.StatusDraft,
	}

	if err := uc.postRepo.Create(post); err != nil {
		uc.logger.Error("Failed to create post: %v", err)
		return nil, fmt.Errorf("failed to create post")
	}

	return post, nil
}

func (uc *contentUseCase) GetPost(orgID, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil || post.OrgID != orgID {
		return nil, fmt.Errorf("post not found")
	}
	return post, nil
}

func (uc *contentUseCase) ListPosts(orgID, status, platformName string, limit, offset int) ([]*entity.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.postRepo.List(orgID, status, platformName, limit, offset)
}

func (uc *contentUseCase) UpdatePost(orgID, postID string, body, platformName *string, hashtags, mediaAssetIDs []string) (*entity.Post, error) {
	post, err := uc.GetPost(orgID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status == entity.StatusPublished {
		return nil, fmt.Errorf("published posts cannot be edited")
	}

	if body != nil {
		post.Body = *body
	}
	if platformName != nil {
		if !uc.validPlatform(*platformName) {
			return nil, fmt.Errorf("unsupported platform")
		}
		post.Platform = *platformName
	}
	if hashtags != nil {
		post.Hashtags = hashtags
	}
	if mediaAssetIDs != nil {
		post.MediaAssetIDs = mediaAssetIDs
	}

	if err := uc.postRepo.Update(post); err != nil {
		uc.logger.Error("Failed to update post: %v", err)
		return nil, fmt.Errorf("failed to update post")
	}

	return post, nil
}

func (uc *contentUseCase) DeletePost(orgID, postID string) error {
	if _, err := uc.GetPost(orgID, postID); err != nil {
		return err
	}

	if err := uc.postRepo.Delete(postID); err != nil {
		uc.logger.Error("Failed to delete post: %v", err)
		return fmt.Errorf("failed to delete post")
	}
	return nil
}

func (uc *contentUseCase) SchedulePost(orgID, postID string, scheduledFor time.Time) (*entity.Post, error) {
	post, err := uc.GetPost(orgID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status != entity.StatusDraft && post.Status != entity.StatusScheduled {
		return nil, fmt.Errorf("only draft or scheduled posts can be scheduled")
	}
	if !scheduledFor.After(uc.now()) {
		return nil, fmt.Errorf("scheduled time must be in the future")
	}

	// Rescheduling an already scheduled post does not eat into the cap.
	if post.Status == entity.StatusDraft {
		limit, err := uc.postRepo.GetOrgPlanLimit(orgID)
		if err == nil && limit > 0 {
			count, err := uc.postRepo.CountScheduled(orgID)
			if err == nil && count >= int64(limit) {
				return nil, fmt.Errorf("scheduled post limit reached")
			}
		}
	}

	post.Status = entity.StatusScheduled
	post.ScheduledFor = &scheduledFor

	if err := uc.postRepo.Update(post); err != nil {
		uc.logger.Error("Failed to schedule post: %v", err)
		return nil, fmt.Errorf("failed to schedule post")
	}

	return post, nil
}

func (uc *contentUseCase) UnschedulePost(orgID, postID string) (*entity.Post, error) {
	post, err := uc.GetPost(orgID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status != entity.StatusScheduled {
		return nil, fmt.Errorf("only scheduled posts can be unscheduled")
	}

	post.Status = entity.StatusDraft
	post.ScheduledFor = nil

	if err := uc.postRepo.Update(post); err != nil {
		uc.logger.Error("Failed to unschedule post: %v", err)
		return nil, fmt.Errorf("failed to unschedule post")
	}

	return post, nil
}

func (uc *contentUseCase) UploadMedia(orgID, uploaderID string, fileReader io.Reader, fileName, fileKey, contentType string, sizeBytes int64) (*entity.MediaAsset, error) {
	url, err := uc.s3Client.UploadFile(fileKey, fileReader, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload media file: %v", err)
		return nil, fmt.Errorf("failed to upload file")
	}

	asset := &entity.MediaAsset{
		OrgID:       orgID,
		UploaderID:  uploaderID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		S3Key:       fileKey,
		URL:         url,
	}

	if err := uc.postRepo.CreateMediaAsset(asset); err != nil {
		uc.logger.Error("Failed to create media asset: %v", err)
		return nil, fmt.Errorf("failed to save media asset")
	}

	return asset, nil
}

func (uc *contentUseCase) ListMedia(orgID string) ([]*entity.MediaAsset, error) {
	return uc.postRepo.ListMediaAssets(orgID)
}

func (uc *contentUseCase) DeleteMedia(orgID, assetID string) error {
	asset, err := uc.postRepo.GetMediaAssetByID(assetID)
	if err != nil || asset.OrgID != orgID {
		return fmt.Errorf("media asset not found")
	}

	if err := uc.s3Client.DeleteFile(asset.S3Key); err != nil {
		uc.logger.Warn("Failed to delete media file from S3: %v", err)
	}

	if err := uc.postRepo.DeleteMediaAsset(assetID); err != nil {
		uc.logger.Error("Failed to delete media asset: %v", err)
		return fmt.Errorf("failed to delete media asset")
	}
	return nil
}

func (uc *contentUseCase) PlatformLimits() []ratelimit.Status {
	return uc.limiter.Snapshot()
}
