// Command seed loads demo categories and products into the catalog tables.
package main

import (
	"log"

	"github.com/google/uuid"

	"github.com/anant-harryfan/shreycommerse/config"
	"github.com/anant-harryfan/shreycommerse/database"
	"github.com/anant-harryfan/shreycommerse/models"
)

type seedProduct struct {
	name        string
	description string
	priceCents  int64
	imageURL    string
	category    string
}

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Clear existing data; cart items first because of the FK order.
	for _, model := range []interface{}{&models.CartItem{}, &models.Product{}, &models.Category{}, &models.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			log.Fatalf("failed to clear table: %v", err)
		}
	}

	log.Println("Seeding database...")

	categories := []models.Category{
		{Name: "Electronics", Description: "Electronic devices and gadgets", ImageURL: "https://images.unsplash.com/photo-1498049794561-7780e7231661"},
		{Name: "Clothing", Description: "Fashion and apparel", ImageURL: "https://images.unsplash.com/photo-1567401893414-76b7b1e5a7a5"},
		{Name: "Home & Kitchen", Description: "Home decor and kitchen appliances", ImageURL: "https://images.unsplash.com/photo-1556911220-bda9f7f7597b"},
	}
	categoryIDs := make(map[string]uuid.UUID, len(categories))
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Fatalf("failed to create category %q: %v", categories[i].Name, err)
		}
		categoryIDs[categories[i].Name] = categories[i].ID
	}
	log.Printf("Categories created: %d", len(categories))

	products := []seedProduct{
		{"Wireless Headphones", "High-quality wireless headphones with noise cancellation", 9999, "https://images.unsplash.com/photo-1505740420928-5e560c06d30e", "Electronics"},
		{"Smart Watch", "Feature-rich smartwatch with health tracking", 14999, "https://images.unsplash.com/photo-1523275335684-37898b6baf30", "Electronics"},
		{"Casual T-Shirt", "Comfortable cotton t-shirt for everyday wear", 1999, "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab", "Clothing"},
		{"Denim Jeans", "Classic denim jeans with perfect fit", 4999, "https://images.unsplash.com/photo-1542272604-787c3835535d", "Clothing"},
		{"Coffee Maker", "Automatic coffee maker for perfect brew every time", 7999, "https://images.unsplash.com/photo-1570486916434-a2b99ae07b2c", "Home & Kitchen"},
		{"Throw Pillow Set", "Decorative throw pillows for your living room", 2999, "https://images.unsplash.com/photo-1584100936595-c0654b55a2e2", "Home & Kitchen"},
	}
	for _, p := range products {
		product := models.Product{
			Name:        p.name,
			Description: p.description,
			PriceCents:  p.priceCents,
			ImageURL:    p.imageURL,
			InStock:     true,
			CategoryID:  categoryIDs[p.category],
		}
		if err := db.Create(&product).Error; err != nil {
			log.Fatalf("failed to create product %q: %v", p.name, err)
		}
	}
	log.Printf("Products created: %d", len(products))

	log.Println("Database seeded successfully!")
}
