package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

type PostPostgreSQL struct {
	db *gorm.DB
}

func NewPostPostgreSQL(db *gorm.DB) repositories.PostRepository {
	return &PostPostgreSQL{db: db}
}

func (p *PostPostgreSQL) Create(ctx context.Context, post *models.Post) error {
	if err := p.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (p *PostPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := p.db.WithContext(ctx).
		Preload("Author").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (p *PostPostgreSQL) Update(ctx context.Context, post *models.Post) error {
	if err := p.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

func (p *PostPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := p.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (p *PostPostgreSQL) List(ctx context.Context, filters repositories.PostFilters) ([]*models.Post, int64, error) {
	query := p.db.WithContext(ctx).Model(&models.Post{})

	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.AuthorID != nil {
		query = query.Where("author_id = ?", *filters.AuthorID)
	}
	if filters.Query != "" {
		query = query.Where("content ILIKE ?", "%"+filters.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []*models.Post
	if err := applyPagination(query.Order("created_at desc"), filters.Limit, filters.Offset).
		Preload("Author").
		Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}
