package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration. An empty address disables caching and the
	// distributed import lock.
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB       int           `mapstructure:"REDIS_CACHE_DB"`
	RedisImportDB      int           `mapstructure:"REDIS_IMPORT_DB"`
	RedisImportQueueDB int           `mapstructure:"REDIS_IMPORT_QUEUE_DB"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`

	// Import pipeline.
	StoreTimeout       time.Duration `mapstructure:"STORE_TIMEOUT"`
	ImportWorkers      int           `mapstructure:"IMPORT_WORKERS"`
	ImportReplaceScope string        `mapstructure:"IMPORT_REPLACE_SCOPE"`
	ImportLockTTL      time.Duration `mapstructure:"IMPORT_LOCK_TTL"`
	InputDir           string        `mapstructure:"INPUT_DIR"`
	IntermediateDir    string        `mapstructure:"INTERMEDIATE_DIR"`
	UploadDir          string        `mapstructure:"UPLOAD_DIR"`
	MaxUploadFiles     int           `mapstructure:"MAX_UPLOAD_FILES"`

	// Queries.
	MonthFilterMode string `mapstructure:"MONTH_FILTER_MODE"`
	SuggestLimit    int    `mapstructure:"SUGGEST_LIMIT"`

	// Cloudinary archive of uploaded spreadsheets; disabled when unset.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`
}

var AppConfig Config

func LoadConfig() {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "viyarSchedule")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_IMPORT_DB", 1)
	viper.SetDefault("REDIS_IMPORT_QUEUE_DB", 2)
	viper.SetDefault("CACHE_TTL", "10m")

	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("IMPORT_WORKERS", 4)
	viper.SetDefault("IMPORT_REPLACE_SCOPE", "day")
	viper.SetDefault("IMPORT_LOCK_TTL", "10m")
	viper.SetDefault("INPUT_DIR", "input")
	viper.SetDefault("INTERMEDIATE_DIR", "")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MAX_UPLOAD_FILES", 10)

	viper.SetDefault("MONTH_FILTER_MODE", "or")
	viper.SetDefault("SUGGEST_LIMIT", 20)

	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "viyar/rosters")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// RedisEnabled reports whether a Redis address is configured.
func RedisEnabled() bool {
	return AppConfig.RedisAddr != ""
}

// CloudinaryEnabled reports whether archive credentials are complete.
func CloudinaryEnabled() bool {
	return AppConfig.CloudinaryCloudName != "" &&
		AppConfig.CloudinaryAPIKey != "" &&
		AppConfig.CloudinaryAPISecret != ""
}
