package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	Port       string

	SessionKey string
	AppAuthKey string
	AppEncKey  string

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string

	StripePublicKey     string
	StripeSecretKey     string
	StripeWebhookSecret string

	AppURL string
	AppEnv string

	TaxPercent            string
	ShippingFlatRate      string
	FreeShippingThreshold string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		Port:       os.Getenv("APP_PORT"),

		SessionKey: os.Getenv("SESSION_KEY"),
		AppAuthKey: os.Getenv("APP_AUTH_KEY"),
		AppEncKey:  os.Getenv("APP_ENC_KEY"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     os.Getenv("EMAIL_PORT"),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),

		StripePublicKey:     os.Getenv("STRIPE_PUBLIC_KEY"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		AppURL: os.Getenv("APP_URL"),
		AppEnv: os.Getenv("APP_ENV"),

		TaxPercent:            os.Getenv("TAX_PERCENT"),
		ShippingFlatRate:      os.Getenv("SHIPPING_FLAT_RATE"),
		FreeShippingThreshold: os.Getenv("FREE_SHIPPING_THRESHOLD"),
	}

}

var LoadENV = LoadEnv()
