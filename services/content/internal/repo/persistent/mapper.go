package persistent

import (
	"postdeck/services/content/internal/entity"
	"postdeck/services/content/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:             m.ID,
		OrgID:          m.OrgID,
		AuthorID:       m.AuthorID,
		Body:           m.Body,
		Platform:       m.Platform,
		Hashtags:       m.Hashtags,
		MediaAssetIDs:  m.MediaAssetIDs,
		Status:         entity.PostStatus(m.Status),
		ScheduledFor:   m.ScheduledFor,
		PublishedAt:    m.PublishedAt,
		PlatformPostID: m.PlatformPostID,
		ErrorMessage:   m.ErrorMessage,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:             e.ID,
		OrgID:          e.OrgID,
		AuthorID:       e.AuthorID,
		Body:           e.Body,
		Platform:       e.Platform,
		Hashtags:       e.Hashtags,
		MediaAssetIDs:  e.MediaAssetIDs,
		Status:         string(e.Status),
		ScheduledFor:   e.ScheduledFor,
		PublishedAt:    e.PublishedAt,
		PlatformPostID: e.PlatformPostID,
		ErrorMessage:   e.ErrorMessage,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToMediaAssetEntity(m *model.MediaAssetModel) *entity.MediaAsset {
	if m == nil {
		return nil
	}

	return &entity.MediaAsset{
		ID:          m.ID,
		OrgID:       m.OrgID,
		UploaderID:  m.UploaderID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		S3Key:       m.S3Key,
		URL:         m.URL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToMediaAssetModel(e *entity.MediaAsset) *model.MediaAssetModel {
	if e == nil {
		return nil
	}

	return &model.MediaAssetModel{
		ID:          e.ID,
		OrgID:       e.OrgID,
		UploaderID:  e.UploaderID,
		FileName:    e.FileName,
		ContentType: e.ContentType,
		SizeBytes:   e.SizeBytes,
		S3Key:       e.S3Key,
		URL:         e.URL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
