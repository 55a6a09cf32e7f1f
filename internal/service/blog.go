package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/pkg/apperr"
)

type BlogInput struct {
	Slug       *string
	Title      *string
	Excerpt    *string
	Body       *string
	Tags       []string
	Published  *bool
	CoverImage *string
	Author     *string
}

type BlogService struct {
	Store BlogStore
}

func NewBlogService(store BlogStore) *BlogService {
	return &BlogService{Store: store}
}

// ListPublished is the public listing; drafts never leave it.
func (s *BlogService) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	published := true
	return s.Store.ListBlogPosts(ctx, &published)
}

// List filters on the published flag when it is set.
func (s *BlogService) List(ctx context.Context, published *bool) ([]models.BlogPost, error) {
	return s.Store.ListBlogPosts(ctx, published)
}

// Get hides drafts unless includeDrafts is set.
func (s *BlogService) Get(ctx context.Context, slug string, includeDrafts bool) (*models.BlogPost, error) {
	p, err := s.Store.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "Blog post not found")
	}
	if !p.Published && !includeDrafts {
		return nil, apperr.New(apperr.ErrNotFound, "Blog post not found")
	}
	return p, nil
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.BlogPost, error) {
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" || in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.New(apperr.ErrBadRequest, "slug and title are required")
	}
	p := &models.BlogPost{Tags: []string{}}
	applyBlog(p, in)
	if err := s.Store.CreateBlogPost(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrConflict, "Blog slug already exists")
		}
		return nil, err
	}
	return p, nil
}

func (s *BlogService) Update(ctx context.Context, slug string, in BlogInput) (*models.BlogPost, error) {
	p, err := s.Store.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "Blog post not found")
	}
	applyBlog(p, in)
	if err := s.Store.SaveBlogPost(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrConflict, "Blog slug already exists")
		}
		return nil, err
	}
	return p, nil
}

func (s *BlogService) Delete(ctx context.Context, slug string) error {
	if err := s.Store.DeleteBlogPostBySlug(ctx, slug); err != nil {
		return notFound(err, "Blog post not found")
	}
	return nil
}

func applyBlog(p *models.BlogPost, in BlogInput) {
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Body != nil {
		p.Body = *in.Body
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.Author != nil {
		p.Author = *in.Author
	}
}
