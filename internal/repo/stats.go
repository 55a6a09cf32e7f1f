package repo

import (
	"context"

	"github.com/Skotchmaster/vigor_shop/internal/models"
)

type Stats struct {
	TotalProducts   int64   `json:"totalProducts"`
	TotalCategories int64   `json:"totalCategories"`
	TotalOrders     int64   `json:"totalOrders"`
	TotalUsers      int64   `json:"totalUsers"`
	TotalBlogPosts  int64   `json:"totalBlogPosts"`
	TotalRevenue    float64 `json:"totalRevenue"`
	PendingOrders   int64   `json:"pendingOrders"`
}

func (r *GormRepo) Stats(ctx context.Context) (*Stats, error) {
	db := r.DB.WithContext(ctx)
	var s Stats

	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Product{}, &s.TotalProducts},
		{&models.Category{}, &s.TotalCategories},
		{&models.Order{}, &s.TotalOrders},
		{&models.User{}, &s.TotalUsers},
		{&models.BlogPost{}, &s.TotalBlogPosts},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&s.PendingOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).
		Where("status <> ?", models.OrderCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&s.TotalRevenue).Error; err != nil {
		return nil, err
	}

	return &s, nil
}
