package repository

import (
	"context"

	"newwek/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment store operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	List(ctx context.Context) ([]models.Comment, error)
	ListByPost(ctx context.Context, blogPostID uint) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	DeleteAllByPost(ctx context.Context, blogPostID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListByPost(ctx context.Context, blogPostID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("blog_post_id = ?", blogPostID).
		Order("created_time asc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

// DeleteAllByPost removes every comment for a post in one statement and
// returns how many rows went away.
func (r *commentRepository) DeleteAllByPost(ctx context.Context, blogPostID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("blog_post_id = ?", blogPostID).
		Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}
