package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/testdb"
	pkg_hash "github.com/Skotchmaster/vigor_shop/pkg/hash"
)

func TestRun(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, DefaultOptions()))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(8), count)
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
	require.NoError(t, db.Model(&models.BlogPost{}).Where("published = ?", true).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@vigorayurveda.com").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, pkg_hash.CheckPassword(admin.PasswordHash, "Admin@123!ChangeMe"))

	var p models.Product
	require.NoError(t, db.Preload("Category").Where("slug = ?", "triphala-digestive").First(&p).Error)
	assert.Equal(t, 899.0, p.Price)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.Category)
	assert.Equal(t, "digestive-health", p.Category.Slug)

	t.Run("second run keeps existing rows", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Product{}).Where("slug = ?", "triphala-digestive").Update("price", 799).Error)

		require.NoError(t, Run(ctx, db, DefaultOptions()))

		require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
		assert.Equal(t, int64(8), count)
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)

		var again models.Product
		require.NoError(t, db.Where("slug = ?", "triphala-digestive").First(&again).Error)
		assert.Equal(t, 799.0, again.Price)
	})

	t.Run("reset restores catalogue and keeps accounts", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Reset = true
		opts.AdminPassword = "changed-password"
		require.NoError(t, Run(ctx, db, opts))

		var again models.Product
		require.NoError(t, db.Where("slug = ?", "triphala-digestive").First(&again).Error)
		assert.Equal(t, 899.0, again.Price)

		var a models.User
		require.NoError(t, db.Where("email = ?", "admin@vigorayurveda.com").First(&a).Error)
		assert.Equal(t, admin.ID, a.ID)
		assert.True(t, pkg_hash.CheckPassword(a.PasswordHash, "Admin@123!ChangeMe"))
	})
}
