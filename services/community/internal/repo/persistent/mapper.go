package persistent

import (
	"postdeck/services/community/internal/entity"
	"postdeck/services/community/internal/model"
)

func ToCategoryEntity(m *model.ForumCategoryModel) *entity.ForumCategory {
	return &entity.ForumCategory{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToCategoryModel(e *entity.ForumCategory) *model.ForumCategoryModel {
	return &model.ForumCategoryModel{
		ID:          e.ID,
		Name:        e.Name,
		Slug:        e.Slug,
		Description: e.Description,
	}
}

func ToForumPostEntity(m *model.ForumPostModel) *entity.ForumPost {
	return &entity.ForumPost{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		AuthorID:   m.AuthorID,
		Title:      m.Title,
		Body:       m.Body,
		Pinned:     m.Pinned,
		Locked:     m.Locked,
		Views:      m.Views,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToForumPostModel(e *entity.ForumPost) *model.ForumPostModel {
	return &model.ForumPostModel{
		ID:         e.ID,
		CategoryID: e.CategoryID,
		AuthorID:   e.AuthorID,
		Title:      e.Title,
		Body:       e.Body,
		Pinned:     e.Pinned,
		Locked:     e.Locked,
		Views:      e.Views,
	}
}

func ToCommentEntity(m *model.ForumCommentModel) *entity.ForumComment {
	return &entity.ForumComment{
		ID:        m.ID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToCommentModel(e *entity.ForumComment) *model.ForumCommentModel {
	return &model.ForumCommentModel{
		ID:       e.ID,
		PostID:   e.PostID,
		AuthorID: e.AuthorID,
		Body:     e.Body,
	}
}
