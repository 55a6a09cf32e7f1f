package repo

import (
	"context"

	"github.com/Skotchmaster/vigor_shop/internal/models"
)

func (r *GormRepo) ListBlogPosts(ctx context.Context, published *bool) ([]models.BlogPost, error) {
	q := r.DB.WithContext(ctx).Model(&models.BlogPost{})
	if published != nil {
		q = q.Where("published = ?", *published)
	}

	var posts []models.BlogPost
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GormRepo) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreateBlogPost(ctx context.Context, p *models.BlogPost) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveBlogPost(ctx context.Context, p *models.BlogPost) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteBlogPostBySlug(ctx context.Context, slug string) error {
	res := r.DB.WithContext(ctx).Where("slug = ?", slug).Delete(&models.BlogPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
