// internal/infra/config/config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the environment-driven settings for the whole service.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// Bucket for admin product image uploads. Empty disables uploads.
	ProductImageBucket string

	// Directory for the local cart/theme archive. Defaults to ./data.
	DataDir string

	// SendGrid. The API key may come from the environment directly or from
	// Secret Manager (SendGridSecretName takes precedence when set).
	SendGridAPIKey     string
	SendGridFrom       string
	SendGridSecretName string

	// Read-only external catalog used by the admin import endpoint.
	// Empty disables imports.
	CatalogBaseURL string

	// Storefront base URL embedded in outgoing mail.
	StoreBaseURL string

	// CORS. Empty means "*".
	AllowedOrigin string
}

// Load reads .env (when present) and the environment, and returns a Config.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] .env loaded")
	}

	defaultProject := getenvDefault("GCP_PROJECT_ID", "storefront-dev")

	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		ProductImageBucket: os.Getenv("PRODUCT_IMAGE_BUCKET"),

		DataDir: getenvDefault("DATA_DIR", "./data"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:       os.Getenv("SENDGRID_FROM"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),

		CatalogBaseURL: os.Getenv("CATALOG_BASE_URL"),

		StoreBaseURL: getenvDefault("STORE_BASE_URL", "http://localhost:8080"),

		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}

	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
