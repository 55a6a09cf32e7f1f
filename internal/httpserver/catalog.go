package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/transport"
	"github.com/Skotchmaster/vigor_shop/internal/util"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, err := h.Svc.ListProducts(ctx, service.ProductQuery{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:     util.ParseIntDefault(c.QueryParam("size"), service.DefaultPageSize),
	})
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": page.Items,
		"meta": util.Meta(page.Page, page.Size, page.Total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	p, err := h.Svc.GetProduct(ctx, c.Param("slug"))
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func productInput(r transport.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Slug:         r.Slug,
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Benefits:     r.Benefits,
		Price:        r.Price,
		MRP:          r.MRP,
		Images:       r.Images,
		Stock:        r.Stock,
		IsActive:     r.IsActive,
		CategorySlug: r.CategorySlug,
	}
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_product_error", err)
	}
	p, err := h.Svc.CreateProduct(ctx, productInput(req))
	if err != nil {
		return fail(l, "create_product_error", err)
	}
	l.Info("create_product_success", "slug", p.Slug)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req transport.ProductRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_product_error", err)
	}
	p, err := h.Svc.UpdateProduct(ctx, c.Param("slug"), productInput(req))
	if err != nil {
		return fail(l, "update_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	if err := h.Svc.DeleteProduct(ctx, c.Param("slug")); err != nil {
		return fail(l, "delete_product_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted"})
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_error", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	cat, err := h.Svc.GetCategory(ctx, c.Param("slug"))
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_category_error", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, service.CategoryInput{Slug: req.Slug, Name: req.Name, Description: req.Description})
	if err != nil {
		return fail(l, "create_category_error", err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	var req transport.CategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_category_error", err)
	}
	cat, err := h.Svc.UpdateCategory(ctx, c.Param("slug"), service.CategoryInput{Slug: req.Slug, Name: req.Name, Description: req.Description})
	if err != nil {
		return fail(l, "update_category_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	if err := h.Svc.DeleteCategory(ctx, c.Param("slug")); err != nil {
		return fail(l, "delete_category_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Category deleted"})
}
