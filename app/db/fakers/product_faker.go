package fakers

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/models"
	"gorm.io/gorm"
)

var stickerThemes = []string{
	"Grumpy Cat", "Cosmic Potato", "Retro Gameboy", "Moody Mushroom",
	"Pixel Heart", "Sleepy Sloth", "Rainy Cloud", "Synthwave Sunset",
	"Tiny Dinosaur", "Coffee Ghost", "Disco Frog", "Lo-fi Raccoon",
}

var stickerFormats = []string{
	"Vinyl Sticker", "Holographic Sticker", "Die-Cut Sticker",
	"Glitter Sticker", "Matte Sticker",
}

func ProductFaker(db *gorm.DB, category *models.Category) *models.Product {
	name := fmt.Sprintf("%s %s", stickerThemes[rand.Intn(len(stickerThemes))], stickerFormats[rand.Intn(len(stickerFormats))])

	price := decimal.NewFromFloat(float64(rand.Intn(1200)+199) / 100).Round(2)

	var salePrice decimal.NullDecimal
	if rand.Intn(4) == 0 {
		salePrice = decimal.NullDecimal{
			Decimal: price.Mul(decimal.NewFromFloat(0.8)).Round(2),
			Valid:   true,
		}
	}

	product := &models.Product{
		ID:             uuid.New().String(),
		Name:           name,
		Slug:           slug.Make(name + "-" + uuid.NewString()[:6]),
		Description:    fmt.Sprintf("A %s printed on durable weatherproof vinyl. Roughly 3 inches on the longest side.", name),
		Price:          price,
		SalePrice:      salePrice,
		Stock:          rand.Intn(50) + 1,
		TrackInventory: true,
		IsActive:       true,
		IsFeatured:     rand.Intn(3) == 0,
	}

	if category != nil {
		product.CategoryID = &category.ID
	}

	return product
}
