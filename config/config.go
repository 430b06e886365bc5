package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	Port           string
	ListingsSource string
	PagesDir       string
	PagesFile      string
	PublicDir      string
	ImageBaseURL   string
	ThumbWidth     float64
	MongoURI       string
	MongoDatabase  string
	AWSRegion      string
	JWTSecret      string
	AdminUser      string
	AdminPassHash  string
	SendGridKey    string
	NotifyFrom     string
	NotifyEmail    string
	MeasureBaseURL string
	ChromeDriver   string
	LogLevel       string
)

// DefaultThumbWidth is the thumbnail box width assumed when it cannot be measured
const DefaultThumbWidth = 350

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	Port = getenv("PORT", "8080")
	ListingsSource = getenv("LISTINGS_SOURCE", "web/data/listings.html")
	PagesDir = getenv("PAGES_DIR", "web/pages")
	PagesFile = getenv("PAGES_FILE", "web/pages.yaml")
	PublicDir = getenv("PUBLIC_DIR", "web")
	ImageBaseURL = os.Getenv("IMAGE_BASE_URL")

	ThumbWidth = DefaultThumbWidth
	if v := os.Getenv("THUMB_WIDTH"); v != "" {
		if w, err := strconv.ParseFloat(v, 64); err == nil && w > 0 {
			ThumbWidth = w
		} else {
			log.Printf("Ignoring invalid THUMB_WIDTH %q", v)
		}
	}

	// Mongo is optional here; an empty URI leaves the mongo source and admin import disabled
	MongoURI = os.Getenv("MONGO_URI")
	MongoDatabase = getenv("MONGO_DATABASE", "storefront")

	AWSRegion = getenv("AWS_REGION", "us-east-1")
	JWTSecret = os.Getenv("JWT_SECRET")
	AdminUser = getenv("ADMIN_USER", "admin")
	AdminPassHash = os.Getenv("ADMIN_PASSWORD_HASH")

	// Import notifications are sent only when both are set
	SendGridKey = os.Getenv("SENDGRID_API_KEY")
	NotifyEmail = os.Getenv("NOTIFY_EMAIL")
	NotifyFrom = os.Getenv("NOTIFY_FROM")

	MeasureBaseURL = os.Getenv("MEASURE_BASE_URL")
	ChromeDriver = getenv("CHROMEDRIVER_PATH", "/usr/local/bin/chromedriver")

	LogLevel = getenv("LOG_LEVEL", "info")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
