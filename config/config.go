package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const devJWTSecret = "mockprep-dev-secret"

type Config struct {
	Server       Server
	Database     Database
	Redis        Redis
	JWT          JWT
	Storage      Storage
	Media        Media
	Scoring      Scoring
	Log          Log
	GeminiApiKey string
	GeminiModel  string
}

type Server struct {
	Port         string
	Mode         string
	AllowOrigins []string
	// RateLimit is requests per RateWindow per client IP. Zero disables limiting.
	RateLimit  int
	RateWindow time.Duration
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Redis is optional. An empty Addr turns the question cache off.
type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWT struct {
	Secret     string
	Expiration time.Duration
}

type Storage struct {
	Type          string // "local" or "minio"
	LocalPath     string
	MinioEndpoint string
	MinioAccessID string
	MinioSecret   string
	MinioBucket   string
	MinioUseSSL   bool
}

type Media struct {
	AnalysisTimeout time.Duration
	MaxFrames       int
	FrameRate       string
	MaxUploadBytes  int64
}

type Scoring struct {
	DedupeKeywords bool
}

type Log struct {
	Level string
	File  string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("GIN_MODE")
	config.Server.AllowOrigins = splitList(viper.GetString("CORS_ALLOW_ORIGINS"))
	config.Server.RateLimit = viper.GetInt("RATE_LIMIT")
	config.Server.RateWindow = viper.GetDuration("RATE_WINDOW")

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.TTL = viper.GetDuration("REDIS_TTL")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.Expiration = viper.GetDuration("JWT_EXPIRATION")

	config.Storage.Type = viper.GetString("STORAGE_TYPE")
	config.Storage.LocalPath = viper.GetString("STORAGE_LOCAL_PATH")
	config.Storage.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	config.Storage.MinioAccessID = viper.GetString("MINIO_ACCESS_KEY")
	config.Storage.MinioSecret = viper.GetString("MINIO_SECRET_KEY")
	config.Storage.MinioBucket = viper.GetString("MINIO_BUCKET")
	config.Storage.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")

	config.Media.AnalysisTimeout = viper.GetDuration("MEDIA_ANALYSIS_TIMEOUT")
	config.Media.MaxFrames = viper.GetInt("MEDIA_MAX_FRAMES")
	config.Media.FrameRate = viper.GetString("MEDIA_FRAME_RATE")
	config.Media.MaxUploadBytes = viper.GetInt64("MEDIA_MAX_UPLOAD_BYTES")

	config.Scoring.DedupeKeywords = viper.GetBool("SCORING_DEDUPE_KEYWORDS")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.File = viper.GetString("LOG_FILE")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.GeminiModel = viper.GetString("GEMINI_MODEL")

	if config.JWT.Secret == "" {
		if config.Server.Mode == "release" {
			return nil, fmt.Errorf("JWT_SECRET must be set in release mode")
		}
		log.Warn().Msg("JWT_SECRET is not set, using an insecure development secret")
		config.JWT.Secret = devJWTSecret
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("mode", config.Server.Mode).
		Str("dbHost", config.Database.Host).
		Str("storage", config.Storage.Type).
		Bool("redis", config.Redis.Addr != "").
		Bool("gemini", config.GeminiApiKey != "").
		Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT", 120)
	viper.SetDefault("RATE_WINDOW", "1m")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("REDIS_TTL", "10m")
	viper.SetDefault("JWT_EXPIRATION", "24h")
	viper.SetDefault("STORAGE_TYPE", "local")
	viper.SetDefault("STORAGE_LOCAL_PATH", "uploads")
	viper.SetDefault("MEDIA_ANALYSIS_TIMEOUT", "60s")
	viper.SetDefault("MEDIA_MAX_FRAMES", 5)
	viper.SetDefault("MEDIA_FRAME_RATE", "1")
	viper.SetDefault("MEDIA_MAX_UPLOAD_BYTES", 50<<20)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
