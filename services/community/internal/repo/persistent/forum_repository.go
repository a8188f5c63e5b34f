package persistent

import (
	"postdeck/services/community/internal/entity"
	"postdeck/services/community/internal/model"

	"gorm.io/gorm"
)

type ForumRepository interface {
	CreateCategory(category *entity.ForumCategory) error
	GetCategoryByID(id string) (*entity.ForumCategory, error)
	GetCategoryBySlug(slug string) (*entity.ForumCategory, error)
	ListCategories() ([]*entity.ForumCategory, error)

	CreatePost(post *entity.ForumPost) error
	GetPostByID(id string) (*entity.ForumPost, error)
	ListPostsByCategory(categoryID string, limit, offset int) ([]*entity.ForumPost, error)
	UpdatePost(id string, updates map[string]interface{}) error
	DeletePost(id string) error
	IncrementViews(id string) error

	CreateComment(comment *entity.ForumComment) error
	GetCommentByID(id string) (*entity.ForumComment, error)
	ListComments(postID string) ([]*entity.ForumComment, error)
	DeleteComment(id string) error
}

type forumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) CreateCategory(category *entity.ForumCategory) error {
	categoryModel := ToCategoryModel(category)
	if err := r.db.Create(categoryModel).Error; err != nil {
		return err
	}
	*category = *ToCategoryEntity(categoryModel)
	return nil
}

func (r *forumRepository) GetCategoryByID(id string) (*entity.ForumCategory, error) {
	var categoryModel model.ForumCategoryModel
	if err := r.db.Where("id = ?", id).First(&categoryModel).Error; err != nil {
		return nil, err
	}
	return ToCategoryEntity(&categoryModel), nil
}

func (r *forumRepository) GetCategoryBySlug(slug string) (*entity.ForumCategory, error) {
	var categoryModel model.ForumCategoryModel
	if err := r.db.Where("slug = ?", slug).First(&categoryModel).Error; err != nil {
		return nil, err
	}
	return ToCategoryEntity(&categoryModel), nil
}

func (r *forumRepository) ListCategories() ([]*entity.ForumCategory, error) {
	var categoryModels []model.ForumCategoryModel
	if err := r.db.Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entity.ForumCategory, len(categoryModels))
	for i := range categoryModels {
		categories[i] = ToCategoryEntity(&categoryModels[i])
	}
	return categories, nil
}

func (r *forumRepository) CreatePost(post *entity.ForumPost) error {
	postModel := ToForumPostModel(post)
	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}
	*post = *ToForumPostEntity(postModel)
	return nil
}

func (r *forumRepository) GetPostByID(id string) (*entity.ForumPost, error) {
	var postModel model.ForumPostModel
	if err := r.db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToForumPostEntity(&postModel), nil
}

// ListPostsByCategory keeps pinned posts on top, newest first within each
// group.
func (r *forumRepository) ListPostsByCategory(categoryID string, limit, offset int) ([]*entity.ForumPost, error) {
	var postModels []model.ForumPostModel
	err := r.db.
		Where("category_id = ?", categoryID).
		Order("pinned DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&postModels).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.ForumPost, len(postModels))
	for i := range postModels {
		posts[i] = ToForumPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *forumRepository) UpdatePost(id string, updates map[string]interface{}) error {
	result := r.db.Model(&model.ForumPostModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *forumRepository) DeletePost(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&model.ForumPostModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&model.ForumCommentModel{}).Error
	})
}

func (r *forumRepository) IncrementViews(id string) error {
	return r.db.Model(&model.ForumPostModel{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *forumRepository) CreateComment(comment *entity.ForumComment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.Create(commentModel).Error; err != nil {
		return err
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *forumRepository) GetCommentByID(id string) (*entity.ForumComment, error) {
	var commentModel model.ForumCommentModel
	if err := r.db.Where("id = ?", id).First(&commentModel).Error; err != nil {
		return nil, err
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *forumRepository) ListComments(postID string) ([]*entity.ForumComment, error) {
	var commentModels []model.ForumCommentModel
	if err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]*entity.ForumComment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *forumRepository) DeleteComment(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.ForumCommentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
