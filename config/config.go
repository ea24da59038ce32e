package config

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	MAIN_ROUTES string
	APP_PORT    string
	APP_MODE    string
	NodeID      int64

	JWTSecret   string
	AuthEnabled bool

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPath         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	LogDir        string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	ReportArchiveBucket string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpoint         string

	allowedOrigins map[string]bool
)

// LoadConfig reads the optional .env file and resolves every setting from the environment.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Server Configuration
	MAIN_ROUTES = v.GetString("MAIN_ROUTES")
	APP_PORT = v.GetString("APP_PORT")
	APP_MODE = v.GetString("APP_MODE")
	NodeID = v.GetInt64("NODE_ID")

	// JWT Configuration
	JWTSecret = v.GetString("JWT_SECRET")
	AuthEnabled = v.GetBool("AUTH_ENABLED")

	// Database Configuration
	DBDriver = strings.ToLower(v.GetString("DB_DRIVER"))
	DBHost = v.GetString("DB_HOST")
	DBPort = v.GetString("DB_PORT")
	DBUser = v.GetString("DB_USER")
	DBPassword = v.GetString("DB_PASSWORD")
	DBName = v.GetString("DB_NAME")
	DBPath = v.GetString("DB_PATH")
	DBMaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	DBMaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")

	// Log Configuration
	LogDir = v.GetString("LOG_DIR")
	LogMaxSizeMB = v.GetInt("LOG_MAX_SIZE_MB")
	LogMaxBackups = v.GetInt("LOG_MAX_BACKUPS")
	LogMaxAgeDays = v.GetInt("LOG_MAX_AGE_DAYS")

	// Report archive
	ReportArchiveBucket = v.GetString("REPORT_ARCHIVE_BUCKET")
	AWSRegion = v.GetString("AWS_REGION")
	AWSAccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	AWSSecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	AWSEndpoint = v.GetString("AWS_ENDPOINT")

	loadAllowedOrigins(v.GetString("ALLOWED_ORIGINS"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MAIN_ROUTES", "/api/v1")
	v.SetDefault("APP_PORT", "9000")
	v.SetDefault("APP_MODE", "debug")
	v.SetDefault("NODE_ID", 1)

	v.SetDefault("JWT_SECRET", "jibal_shipping_secret")
	v.SetDefault("AUTH_ENABLED", false)

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "shipments")
	v.SetDefault("DB_PATH", "shipments.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 7)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)

	v.SetDefault("AWS_REGION", "us-east-1")
}

func loadAllowedOrigins(originsStr string) {
	allowedOrigins = make(map[string]bool)

	if originsStr == "" {
		allowedOrigins["http://127.0.0.1:3000"] = true
		return
	}

	for _, origin := range strings.Split(originsStr, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
}

// SetupCORS answers preflight requests and echoes allowed origins.
func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
			c.Set("Access-Control-Expose-Headers", "Content-Disposition")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
