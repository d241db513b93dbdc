package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig JWT 配置
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	AdminEmails []string      `mapstructure:"admin_emails"` // 可访问 /api/admin 的账号
}

// HeatmapConfig points at the geocoded crime dataset.
type HeatmapConfig struct {
	CrimeDataFile string `mapstructure:"crime_data_file"`
}

// SMSConfig controls the outbound SMS gateway.
type SMSConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Route    string `mapstructure:"route"`
	Language string `mapstructure:"language"`
}

// GeocoderConfig controls the Nominatim-compatible geocoder.
type GeocoderConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	City      string        `mapstructure:"city"`
	Country   string        `mapstructure:"country"`
	Delay     time.Duration `mapstructure:"delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
	InputFile string        `mapstructure:"input_file"`
}

// OCRConfig controls the OCR engine used by identity verification.
// An empty endpoint disables OCR and leaves submissions pending.
type OCRConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Keyword  string `mapstructure:"keyword"`
}

// LLMConfig controls the legal assistant.
type LLMConfig struct {
	Provider       string `mapstructure:"provider"` // gemini, openai
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	DocsDir        string `mapstructure:"docs_dir"`
	TopK           int    `mapstructure:"top_k"`
	MaxContext     int    `mapstructure:"max_context"`
}

// RedisConfig 为空地址时限流使用进程内存
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Heatmap   HeatmapConfig   `mapstructure:"heatmap"`
	SMS       SMSConfig       `mapstructure:"sms"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// Load 加载配置: .env -> config file -> SAFEGUARD_* env -> legacy env names.
// cfgFile may be empty, in which case config.yaml is searched in . and ./configs.
func Load(cfgFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	}

	v.SetEnvPrefix("SAFEGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyLegacyEnv(&cfg)
	cfg.FillDefaults()
	return &cfg, nil
}

// bindKeys registers every key so AutomaticEnv can resolve it during Unmarshal
// even when no config file mentions it.
func bindKeys(v *viper.Viper) {
	keys := []string{
		"server.port", "server.mode",
		"database.path",
		"auth.jwt_secret", "auth.token_ttl", "auth.admin_emails",
		"heatmap.crime_data_file",
		"sms.base_url", "sms.api_key", "sms.route", "sms.language",
		"geocoder.base_url", "geocoder.user_agent", "geocoder.city", "geocoder.country",
		"geocoder.delay", "geocoder.timeout", "geocoder.input_file",
		"ocr.endpoint", "ocr.api_key", "ocr.keyword",
		"llm.provider", "llm.api_key", "llm.base_url", "llm.model", "llm.embedding_model",
		"llm.docs_dir", "llm.top_k", "llm.max_context",
		"redis.addr", "redis.username", "redis.password", "redis.db",
		"ratelimit.limit", "ratelimit.window",
		"log.level",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// applyLegacyEnv keeps the plain PORT / DB_PATH / JWT_SECRET variables working.
func applyLegacyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" && cfg.Server.Port == "" {
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" && cfg.Database.Path == "" {
		cfg.Database.Path = dbPath
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" && cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = secret
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.LLM.APIKey == "" && cfg.LLM.Provider != "openai" {
		cfg.LLM.APIKey = key
	}
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":5000"
	}
	if !strings.HasPrefix(c.Server.Port, ":") && !strings.Contains(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/safeguard.db"
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = "fallback-secret-key-change-in-production"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Heatmap.CrimeDataFile == "" {
		c.Heatmap.CrimeDataFile = "./data/crime_locations_geocoded.json"
	}
	if c.SMS.BaseURL == "" {
		c.SMS.BaseURL = "https://www.fast2sms.com/dev/bulkV2"
	}
	if c.SMS.Route == "" {
		c.SMS.Route = "q"
	}
	if c.SMS.Language == "" {
		c.SMS.Language = "english"
	}
	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = "safeguard_app"
	}
	if c.Geocoder.City == "" {
		c.Geocoder.City = "Pune"
	}
	if c.Geocoder.Country == "" {
		c.Geocoder.Country = "India"
	}
	if c.Geocoder.Delay == 0 {
		c.Geocoder.Delay = time.Second
	}
	if c.Geocoder.Timeout == 0 {
		c.Geocoder.Timeout = 10 * time.Second
	}
	if c.Geocoder.InputFile == "" {
		c.Geocoder.InputFile = "./data/crime_locations.json"
	}
	if c.OCR.Keyword == "" {
		c.OCR.Keyword = "female"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == "openai" {
			c.LLM.Model = "llama-3.3-70b-versatile"
		} else {
			c.LLM.Model = "gemini-2.0-flash"
		}
	}
	if c.LLM.EmbeddingModel == "" {
		if c.LLM.Provider == "openai" {
			c.LLM.EmbeddingModel = "text-embedding-3-small"
		} else {
			c.LLM.EmbeddingModel = "text-embedding-004"
		}
	}
	if c.LLM.DocsDir == "" {
		c.LLM.DocsDir = "./data/legal"
	}
	if c.LLM.TopK == 0 {
		c.LLM.TopK = 5
	}
	if c.LLM.MaxContext == 0 {
		c.LLM.MaxContext = 8000
	}
	if c.RateLimit.Limit == 0 {
		c.RateLimit.Limit = 30
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
