package usecase

import (
	"context"

	"postdeck/pkg/platform"
	"postdeck/pkg/queue"
	"postdeck/services/content/internal/branding"
	"postdeck/services/content/internal/entity"
)

const publishBatchSize = 50

// PublishReport summarizes one run of the due-post sweep.
type PublishReport struct {
	Scanned   int `json:"scanned"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

// PublishDuePosts publishes every scheduled post whose time has come, up to
// one batch per call. Each post is handled independently so one platform
// failure never blocks the rest of the sweep.
func (uc *contentUseCase) PublishDuePosts(ctx context.Context) (*PublishReport, error) {
	report := &PublishReport{}

	due, err := uc.postRepo.ListDue(uc.now(), publishBatchSize)
	if err != nil {
		uc.logger.Error("Failed to list due posts: %v", err)
		return nil, err
	}
	report.Scanned = len(due)

	for _, post := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := uc.publishOne(ctx, post); err != nil {
			uc.logger.Warn("Failed to publish post %s to %s: %v", post.ID, post.Platform, err)
			if markErr := uc.postRepo.MarkFailed(post.ID, err.Error()); markErr != nil {
				uc.logger.Error("Failed to mark post %s as failed: %v", post.ID, markErr)
			}
			report.Failed++
			continue
		}
		report.Published++
	}

	if report.Scanned > 0 {
		uc.logger.Info("Publish sweep: %d scanned, %d published, %d failed",
			report.Scanned, report.Published, report.Failed)
	}

	return report, nil
}

func (uc *contentUseCase) publishOne(ctx context.Context, post *entity.Post) error {
	publisher, err := uc.registry.Resolve(post.Platform)
	if err != nil {
		return err
	}

	mediaURLs := make([]string, 0, len(post.MediaAssetIDs))
	for _, assetID := range post.MediaAssetIDs {
		asset, err := uc.postRepo.GetMediaAssetByID(assetID)
		if err != nil {
			uc.logger.Warn("Skipping missing media asset %s on post %s", assetID, post.ID)
			continue
		}
		mediaURLs = append(mediaURLs, asset.URL)
	}

	result, err := publisher.Publish(ctx, platform.PublishRequest{
		OrgID:     post.OrgID,
		Body:      branding.Apply(post.Body, post.Hashtags),
		MediaURLs: mediaURLs,
	})
	if err != nil {
		return err
	}

	publishedAt := uc.now()
	if err := uc.postRepo.MarkPublished(post.ID, result.PlatformPostID, publishedAt); err != nil {
		return err
	}

	uc.notifyPublished(post, result.PlatformPostID)
	return nil
}

func (uc *contentUseCase) notifyPublished(post *entity.Post, platformPostID string) {
	if uc.queueClient == nil {
		return
	}

	go func() {
		task := queue.PostPublishedTask{
			PostID:         post.ID,
			OrgID:          post.OrgID,
			Platform:       post.Platform,
			PlatformPostID: platformPostID,
			Priority:       5,
		}
		if err := uc.queueClient.PublishPostPublished(task); err != nil {
			uc.logger.Error("Failed to enqueue published event for post %s: %v", post.ID, err)
		}
	}()
}
