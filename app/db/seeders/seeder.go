package seeders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/soggypotatoes/shop/app/db/fakers"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"gorm.io/gorm"
)

var categoryNames = []string{"Animals", "Food", "Retro", "Nature", "Abstract"}

// DBSeed fills an empty database with demo categories, products and a
// demo customer account.
func DBSeed(db *gorm.DB) error {
	ctx := context.Background()

	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := &models.Category{
			ID:       uuid.New().String(),
			Name:     name,
			Slug:     slug.Make(name),
			IsActive: true,
		}
		if err := db.FirstOrCreate(category, "slug = ?", category.Slug).Error; err != nil {
			return err
		}
		categories = append(categories, category)
	}

	for i := 0; i < 30; i++ {
		category := categories[i%len(categories)]
		product := fakers.ProductFaker(db, category)
		if err := db.Create(product).Error; err != nil {
			return err
		}
	}

	userRepo := repositories.NewUserRepository(db)
	existing, err := userRepo.FindByEmail(ctx, "demo@soggypotatoes.test")
	if err != nil {
		return err
	}
	if existing == nil {
		password, err := helpers.HashPassword("demo1234")
		if err != nil {
			return err
		}
		demo := &models.User{
			FirstName: "Demo",
			LastName:  "Customer",
			Email:     "demo@soggypotatoes.test",
			Password:  password,
			Role:      models.RoleCustomer,
		}
		if err := userRepo.Create(ctx, demo); err != nil {
			return err
		}
	}

	for i := 0; i < 3; i++ {
		user := fakers.UserFaker(db)
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
	}

	log.Println("INFO: Seeder: Demo data created")
	return nil
}
