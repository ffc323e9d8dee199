package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Media driver names.
const (
	MediaDriverCloudinary = "cloudinary"
	MediaDriverS3         = "s3"
	MediaDriverLocal      = "local"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	CORS          CORSConfig
	Log           LogConfig
	Media         MediaConfig
	Instagram     InstagramConfig
	Announcements AnnouncementsConfig
	Metrics       MetricsConfig
}

type DatabaseConfig struct {
	URI            string
	Name           string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles Redis-backed caching of upstream payloads.
type CacheConfig struct {
	Enabled      bool
	InstagramTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MediaConfig selects and configures the image host.
type MediaConfig struct {
	Driver              string
	RootFolder          string
	MaxUploadSize       int64
	DefaultProfileImage string
	Timeout             time.Duration
	Cloudinary          CloudinaryConfig
	S3                  S3Config
	Local               LocalMediaConfig
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

type LocalMediaConfig struct {
	Dir           string
	PublicBaseURL string
}

// InstagramConfig holds the Graph API credentials and endpoint.
type InstagramConfig struct {
	AccessToken       string
	BusinessAccountID string
	BaseURL           string
	APIVersion        string
	Timeout           time.Duration
}

// AnnouncementsConfig tunes announcement listing defaults.
type AnnouncementsConfig struct {
	RecentWindowDays int
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		URI:            v.GetString("MONGODB_URI"),
		Name:           v.GetString("MONGODB_DATABASE"),
		ConnectTimeout: parseDuration(v.GetString("MONGODB_CONNECT_TIMEOUT"), 10*time.Second),
		MaxPoolSize:    v.GetUint64("MONGODB_MAX_POOL_SIZE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:      v.GetBool("ENABLE_CACHE"),
		InstagramTTL: parseDuration(v.GetString("INSTAGRAM_CACHE_TTL"), 5*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	upstreamTimeout := parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second)

	maxUpload := v.GetInt64("MEDIA_MAX_UPLOAD_SIZE")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Media = MediaConfig{
		Driver:              strings.ToLower(v.GetString("MEDIA_DRIVER")),
		RootFolder:          strings.Trim(v.GetString("MEDIA_ROOT_FOLDER"), "/"),
		MaxUploadSize:       maxUpload,
		DefaultProfileImage: v.GetString("DEFAULT_PROFILE_IMAGE"),
		Timeout:             upstreamTimeout,
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		S3: S3Config{
			Bucket:        v.GetString("S3_BUCKET"),
			Region:        v.GetString("S3_REGION"),
			Endpoint:      v.GetString("S3_ENDPOINT"),
			PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
		},
		Local: LocalMediaConfig{
			Dir:           v.GetString("MEDIA_LOCAL_DIR"),
			PublicBaseURL: v.GetString("MEDIA_PUBLIC_BASE_URL"),
		},
	}

	cfg.Instagram = InstagramConfig{
		AccessToken:       v.GetString("INSTAGRAM_ACCESS_TOKEN"),
		BusinessAccountID: v.GetString("INSTAGRAM_BUSINESS_ACCOUNT_ID"),
		BaseURL:           strings.TrimRight(v.GetString("INSTAGRAM_API_BASE_URL"), "/"),
		APIVersion:        v.GetString("INSTAGRAM_API_VERSION"),
		Timeout:           upstreamTimeout,
	}

	recentDays := v.GetInt("ANNOUNCEMENT_RECENT_DAYS")
	if recentDays <= 0 {
		recentDays = 30
	}
	cfg.Announcements = AnnouncementsConfig{RecentWindowDays: recentDays}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

// Configured reports whether both Graph API credentials are present.
func (c InstagramConfig) Configured() bool {
	return strings.TrimSpace(c.AccessToken) != "" && strings.TrimSpace(c.BusinessAccountID) != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "school-website")
	v.SetDefault("MONGODB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 20)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("INSTAGRAM_CACHE_TTL", "5m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPSTREAM_TIMEOUT", "10s")

	v.SetDefault("MEDIA_DRIVER", MediaDriverCloudinary)
	v.SetDefault("MEDIA_ROOT_FOLDER", "school-website")
	v.SetDefault("MEDIA_MAX_UPLOAD_SIZE", 10*1024*1024)
	v.SetDefault("DEFAULT_PROFILE_IMAGE", "https://res.cloudinary.com/your-cloud-name/image/upload/v1234567890/default-profile.jpg")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("MEDIA_LOCAL_DIR", "./uploads")
	v.SetDefault("MEDIA_PUBLIC_BASE_URL", "http://localhost:5000/uploads")

	v.SetDefault("INSTAGRAM_ACCESS_TOKEN", "")
	v.SetDefault("INSTAGRAM_BUSINESS_ACCOUNT_ID", "")
	v.SetDefault("INSTAGRAM_API_BASE_URL", "https://graph.instagram.com")
	v.SetDefault("INSTAGRAM_API_VERSION", "v12.0")

	v.SetDefault("ANNOUNCEMENT_RECENT_DAYS", 30)
	v.SetDefault("ENABLE_METRICS", true)
}

// isMissingFile tolerates an absent .env: viper reports a plain fs error when SetConfigFile is used.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
