package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/transport"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type BlogHTTP struct {
	Svc *service.BlogService
}

func blogInput(r transport.BlogRequest) service.BlogInput {
	return service.BlogInput{
		Slug:       r.Slug,
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Body:       r.Body,
		Tags:       r.Tags,
		Published:  r.Published,
		CoverImage: r.CoverImage,
		Author:     r.Author,
	}
}

// List is the public listing. Drafts are only reachable through ListAdmin.
func (h *BlogHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.list")

	posts, err := h.Svc.ListPublished(ctx)
	if err != nil {
		return fail(l, "list_blog_error", err)
	}
	return c.JSON(http.StatusOK, posts)
}

// ListAdmin honours ?published=true|false; anything else lists every post.
func (h *BlogHTTP) ListAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.list_admin")

	var published *bool
	if b, err := strconv.ParseBool(c.QueryParam("published")); err == nil {
		published = &b
	}
	posts, err := h.Svc.List(ctx, published)
	if err != nil {
		return fail(l, "list_blog_error", err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *BlogHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.get")

	post, err := h.Svc.Get(ctx, c.Param("slug"), false)
	if err != nil {
		return fail(l, "get_blog_error", err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *BlogHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.create")

	var req transport.BlogRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_blog_error", err)
	}
	post, err := h.Svc.Create(ctx, blogInput(req))
	if err != nil {
		return fail(l, "create_blog_error", err)
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *BlogHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.update")

	var req transport.BlogRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_blog_error", err)
	}
	post, err := h.Svc.Update(ctx, c.Param("slug"), blogInput(req))
	if err != nil {
		return fail(l, "update_blog_error", err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *BlogHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.delete")

	if err := h.Svc.Delete(ctx, c.Param("slug")); err != nil {
		return fail(l, "delete_blog_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Blog post deleted"})
}
