// Package seed loads the demo catalogue, blog and accounts.
package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	pkg_hash "github.com/Skotchmaster/vigor_shop/pkg/hash"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type Options struct {
	// Reset wipes catalogue and blog before inserting. Accounts, orders and
	// payments are never touched.
	Reset         bool
	AdminEmail    string
	AdminPassword string
	UserEmail     string
	UserPassword  string
}

func DefaultOptions() Options {
	return Options{
		AdminEmail:    "admin@vigorayurveda.com",
		AdminPassword: "Admin@123!ChangeMe",
		UserEmail:     "user@test.com",
		UserPassword:  "Test@123!",
	}
}

type category struct {
	slug, name, description string
}

type product struct {
	slug, title, description string
	ingredients, benefits    []string
	price, mrp               float64
	image                    string
	stock                    int
	category                 string
}

var categories = []category{
	{"sexual-wellness", "Sexual Wellness", "Natural solutions for vitality and performance"},
	{"hormonal-balance", "Hormonal Balance", "Support your endocrine system naturally"},
	{"digestive-health", "Digestive Health", "Optimize gut health and digestion"},
	{"foundation-stacks", "Foundation Stacks", "Complete wellness bundles"},
}

var products = []product{
	{
		slug: "ashwagandha-ksm66", title: "Ashwagandha KSM-66",
		description: "Premium Ashwagandha extract for stress relief, energy, and hormonal balance. KSM-66 is the highest concentration full-spectrum extract.",
		ingredients: []string{"KSM-66 Ashwagandha Extract (600mg)", "Organic Black Pepper Extract (5mg)"},
		benefits:    []string{"Reduces stress and anxiety", "Boosts testosterone naturally", "Improves sleep quality", "Enhances athletic performance"},
		price:       1299, mrp: 1999, image: "/assets/products/ashwagandha.jpg", stock: 100, category: "sexual-wellness",
	},
	{
		slug: "shilajit-himalayan", title: "Himalayan Shilajit Resin",
		description: "Pure Himalayan Shilajit resin, rich in fulvic acid and 85+ minerals. Premium grade for maximum potency.",
		ingredients: []string{"Pure Himalayan Shilajit Resin (500mg)", "Fulvic Acid (60%)"},
		benefits:    []string{"Boosts energy and stamina", "Enhances cognitive function", "Supports testosterone production", "Improves nutrient absorption"},
		price:       1799, mrp: 2999, image: "/assets/products/shilajit.jpg", stock: 75, category: "sexual-wellness",
	},
	{
		slug: "safed-musli-extract", title: "Safed Musli Extract",
		description: "Traditional Ayurvedic herb for vitality, stamina, and reproductive health. Standardized extract for consistency.",
		ingredients: []string{"Safed Musli Extract (500mg)", "Saponins (20%)"},
		benefits:    []string{"Enhances libido and vitality", "Improves stamina and endurance", "Supports reproductive health", "Natural aphrodisiac"},
		price:       1499, mrp: 2499, image: "/assets/products/safed-musli.jpg", stock: 60, category: "sexual-wellness",
	},
	{
		slug: "gokshura-tribulus", title: "Gokshura (Tribulus Terrestris)",
		description: "Potent testosterone booster and performance enhancer. Standardized for maximum saponin content.",
		ingredients: []string{"Tribulus Terrestris Extract (1000mg)", "Saponins (40%)"},
		benefits:    []string{"Boosts testosterone levels", "Enhances athletic performance", "Supports muscle growth", "Improves libido"},
		price:       1199, mrp: 1999, image: "/assets/products/gokshura.jpg", stock: 90, category: "sexual-wellness",
	},
	{
		slug: "shatavari-womens-health", title: "Shatavari - Women's Wellness",
		description: "Traditional Ayurvedic herb for female reproductive health and hormonal balance.",
		ingredients: []string{"Shatavari Root Extract (500mg)", "Saponins (30%)"},
		benefits:    []string{"Balances hormones naturally", "Supports reproductive health", "Reduces PMS symptoms", "Improves lactation"},
		price:       1399, mrp: 2199, image: "/assets/products/shatavari.jpg", stock: 80, category: "hormonal-balance",
	},
	{
		slug: "triphala-digestive", title: "Triphala Digestive Formula",
		description: "Classic Ayurvedic blend of three fruits for digestive health and detoxification.",
		ingredients: []string{"Amla (Indian Gooseberry)", "Haritaki (Terminalia Chebula)", "Bibhitaki (Terminalia Bellirica)"},
		benefits:    []string{"Improves digestion", "Natural detoxification", "Supports regularity", "Rich in antioxidants"},
		price:       899, mrp: 1499, image: "/assets/products/triphala.jpg", stock: 120, category: "digestive-health",
	},
	{
		slug: "testosterone-booster-stack", title: "Complete Testosterone Booster Stack",
		description: "Synergistic blend of Ashwagandha, Shilajit, Safed Musli, and Gokshura for maximum results.",
		ingredients: []string{"Ashwagandha KSM-66 (300mg)", "Shilajit Extract (250mg)", "Safed Musli (250mg)", "Gokshura (500mg)"},
		benefits:    []string{"Maximum testosterone support", "Enhanced strength and stamina", "Improved libido and vitality", "Better muscle recovery"},
		price:       2499, mrp: 3999, image: "/assets/products/test-stack.jpg", stock: 50, category: "foundation-stacks",
	},
	{
		slug: "vitality-foundation-men", title: "Men's Vitality Foundation",
		description: "Complete daily supplement stack for men featuring essential Ayurvedic herbs.",
		ingredients: []string{"Ashwagandha (400mg)", "Shilajit (300mg)", "Triphala (200mg)", "Gokshura (300mg)"},
		benefits:    []string{"All-in-one daily wellness", "Stress management", "Energy and vitality", "Digestive support"},
		price:       2199, mrp: 3499, image: "/assets/products/mens-foundation.jpg", stock: 65, category: "foundation-stacks",
	},
}

var posts = []models.BlogPost{
	{
		Slug:      "benefits-of-ashwagandha",
		Title:     "The Science Behind Ashwagandha: Ancient Wisdom Meets Modern Research",
		Excerpt:   "Discover how this powerful adaptogen can transform your health, backed by scientific studies.",
		Body:      "Ashwagandha (Withania somnifera) has been used in Ayurvedic medicine for over 3,000 years...",
		Tags:      []string{"ashwagandha", "adaptogens", "stress-relief", "testosterone"},
		Published: true,
		Author:    "Dr. Ayurveda Team",
	},
	{
		Slug:      "natural-testosterone-boosters",
		Title:     "Natural Ways to Boost Testosterone: A Complete Guide",
		Excerpt:   "Learn about evidence-based natural methods to optimize your hormone levels safely.",
		Body:      "Testosterone is crucial for men's health, affecting everything from muscle mass to mood...",
		Tags:      []string{"testosterone", "mens-health", "hormones", "vitality"},
		Published: true,
		Author:    "Dr. Ayurveda Team",
	},
	{
		Slug:      "shilajit-mineral-powerhouse",
		Title:     "Shilajit: The Himalayan Mineral Powerhouse",
		Excerpt:   "Explore the benefits of this ancient resin and why it's considered one of Ayurveda's most potent substances.",
		Body:      "Shilajit is a sticky, tar-like substance found primarily in the rocks of the Himalayas...",
		Tags:      []string{"shilajit", "minerals", "energy", "anti-aging"},
		Published: true,
		Author:    "Dr. Ayurveda Team",
	},
}

// Run inserts the demo data. Rows whose unique key already exists are left
// as they are, so running it twice is harmless.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	l := logging.FromContext(ctx).With("cmd", "seed")

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Reset {
			for _, m := range []any{&models.BlogPost{}, &models.Product{}, &models.Category{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
					return fmt.Errorf("reset: %w", err)
				}
			}
			l.Info("seed_reset")
		}

		skipExisting := tx.Clauses(clause.OnConflict{DoNothing: true})

		for _, u := range []struct {
			email, name, password, role string
		}{
			{opts.AdminEmail, "Admin User", opts.AdminPassword, models.RoleAdmin},
			{opts.UserEmail, "Test User", opts.UserPassword, models.RoleUser},
		} {
			h, err := pkg_hash.HashPassword(u.password)
			if err != nil {
				return fmt.Errorf("hash %s: %w", u.email, err)
			}
			user := &models.User{Email: u.email, Name: u.name, PasswordHash: h, Role: u.role}
			if err := skipExisting.Create(user).Error; err != nil {
				return fmt.Errorf("user %s: %w", u.email, err)
			}
		}

		catIDs := make(map[string]*models.Category, len(categories))
		for _, c := range categories {
			cat := &models.Category{Slug: c.slug, Name: c.name, Description: c.description}
			if err := skipExisting.Create(cat).Error; err != nil {
				return fmt.Errorf("category %s: %w", c.slug, err)
			}
			// re-read: on conflict the generated id was never stored
			if err := tx.Where("slug = ?", c.slug).First(cat).Error; err != nil {
				return err
			}
			catIDs[c.slug] = cat
		}

		for _, p := range products {
			cat := catIDs[p.category]
			row := &models.Product{
				Slug:        p.slug,
				Title:       p.title,
				Description: p.description,
				Ingredients: p.ingredients,
				Benefits:    p.benefits,
				Price:       p.price,
				MRP:         p.mrp,
				Images:      []string{p.image},
				Stock:       p.stock,
				IsActive:    true,
				CategoryID:  &cat.ID,
			}
			if err := skipExisting.Omit("Category").Create(row).Error; err != nil {
				return fmt.Errorf("product %s: %w", p.slug, err)
			}
		}

		for i := range posts {
			post := posts[i]
			if err := skipExisting.Create(&post).Error; err != nil {
				return fmt.Errorf("blog post %s: %w", post.Slug, err)
			}
		}

		l.Info("seed_success", "categories", len(categories), "products", len(products), "posts", len(posts))
		return nil
	})
}
