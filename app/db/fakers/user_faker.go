package fakers

import (
	"log"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"gorm.io/gorm"
)

func UserFaker(db *gorm.DB) *models.User {
	password, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatal("Failed to hash faker password:", err)
	}

	return &models.User{
		ID:        uuid.New().String(),
		FirstName: faker.FirstName(),
		LastName:  faker.LastName(),
		Email:     faker.Email(),
		Password:  password,
		Role:      models.RoleCustomer,
	}
}
