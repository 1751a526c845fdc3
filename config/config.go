// Package config memuat konfigurasi aplikasi dari .env, default struct, dan environment variable.
//
// Urutan prioritas (terendah ke tertinggi):
//  1. defaultConfig()
//  2. file .env (dimuat ke environment oleh godotenv)
//  3. environment variable proses
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config adalah konfigurasi lengkap yang di-inject ke constructor saat startup.
type Config struct {
	App        AppConfig        `koanf:"app"`
	HTTP       HTTPConfig       `koanf:"http"`
	Postgres   PostgresConfig   `koanf:"postgres"`
	Mongo      MongoConfig      `koanf:"mongo"`
	Redis      RedisConfig      `koanf:"redis"`
	JWT        JWTConfig        `koanf:"jwt"`
	Cloudinary CloudinaryConfig `koanf:"cloudinary"`
	Log        LogConfig        `koanf:"log"`
	CORS       CORSConfig       `koanf:"cors"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
}

type AppConfig struct {
	Env          string `koanf:"env"`
	SeedPassword string `koanf:"seed_password"`
}

type HTTPConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
}

type PostgresConfig struct {
	Host     string `koanf:"host"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	Port     string `koanf:"port"`
	SSLMode  string `koanf:"sslmode"`
	TimeZone string `koanf:"timezone"`
}

// DSN membentuk connection string untuk gorm postgres driver.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		p.Host, p.User, p.Password, p.Name, p.Port, p.SSLMode, p.TimeZone)
}

// MongoConfig opsional: URI kosong berarti timeline complaint dinonaktifkan.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// RedisConfig opsional: Addr kosong berarti blocklist token & publisher event dinonaktifkan.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Channel  string `koanf:"channel"`
}

type JWTConfig struct {
	AccessSecret  string        `koanf:"access_secret"`
	RefreshSecret string        `koanf:"refresh_secret"`
	AccessTTL     time.Duration `koanf:"access_ttl"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl"`
}

// CloudinaryConfig opsional: tanpa kredensial, upload gambar ditolak.
type CloudinaryConfig struct {
	CloudName string        `koanf:"cloud_name"`
	APIKey    string        `koanf:"api_key"`
	APISecret string        `koanf:"api_secret"`
	Folder    string        `koanf:"folder"`
	Timeout   time.Duration `koanf:"timeout"`
}

// Enabled bernilai true bila semua kredensial Cloudinary tersedia.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// IsDevelopment dipakai untuk menentukan apakah stack trace boleh dikirim ke client.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Env, "development")
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{Env: "production"},
		HTTP: HTTPConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    16 << 10,
			MaxUploadBytes:  5 << 20,
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     "5432",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Mongo: MongoConfig{
			Database:       "complaints",
			ConnectTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{Channel: "complaints.events"},
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Cloudinary: CloudinaryConfig{
			Folder:  "complaints",
			Timeout: 30 * time.Second,
		},
		Log:       LogConfig{Level: "info", Format: "json"},
		CORS:      CORSConfig{Origins: []string{"http://localhost:5173"}},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
	}
}

// envKeys memetakan nama environment variable ke path koanf.
// Variable yang tidak terdaftar diabaikan.
var envKeys = map[string]string{
	"APP_ENV":               "app.env",
	"NODE_ENV":              "app.env",
	"SEED_PASSWORD":         "app.seed_password",
	"APP_PORT":              "http.port",
	"PORT":                  "http.port",
	"MAX_BODY_BYTES":        "http.max_body_bytes",
	"MAX_UPLOAD_BYTES":      "http.max_upload_bytes",
	"SHUTDOWN_TIMEOUT":      "http.shutdown_timeout",
	"DB_HOST":               "postgres.host",
	"DB_USER":               "postgres.user",
	"DB_PASSWORD":           "postgres.password",
	"DB_NAME":               "postgres.name",
	"DB_PORT":               "postgres.port",
	"DB_SSLMODE":            "postgres.sslmode",
	"DB_TIMEZONE":           "postgres.timezone",
	"MONGO_URI":             "mongo.uri",
	"MONGO_DB_NAME":         "mongo.database",
	"REDIS_ADDR":            "redis.addr",
	"REDIS_PASSWORD":        "redis.password",
	"REDIS_DB":              "redis.db",
	"REDIS_CHANNEL":         "redis.channel",
	"ACCESS_TOKEN_SECRET":   "jwt.access_secret",
	"REFRESH_TOKEN_SECRET":  "jwt.refresh_secret",
	"ACCESS_TOKEN_TTL":      "jwt.access_ttl",
	"REFRESH_TOKEN_TTL":     "jwt.refresh_ttl",
	"CLOUDINARY_CLOUD_NAME": "cloudinary.cloud_name",
	"CLOUDINARY_API_KEY":    "cloudinary.api_key",
	"CLOUDINARY_API_SECRET": "cloudinary.api_secret",
	"CLOUDINARY_FOLDER":     "cloudinary.folder",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
	"CORS_ORIGIN":           "cors.origins",
	"RATE_LIMIT_RPS":        "rate_limit.rps",
	"RATE_LIMIT_BURST":      "rate_limit.burst",
}

func envTransform(key string) string {
	return envKeys[key]
}

// Load membaca .env (jika ada) lalu menyusun Config dan memvalidasinya.
// envFiles kosong berarti ".env" di working directory.
func Load(envFiles ...string) (*Config, error) {
	// .env tidak wajib ada; environment proses tetap dipakai.
	_ = godotenv.Load(envFiles...)

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("gagal memuat default config: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("gagal memuat environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("gagal unmarshal config: %w", err)
	}
	cfg.CORS.Origins = splitOrigins(cfg.CORS.Origins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitOrigins menangani CORS_ORIGIN berisi beberapa origin dipisah koma.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate memastikan konfigurasi wajib sudah terisi.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.AccessSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is not configured"))
	}
	if c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is not configured"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	if c.Postgres.Host == "" || c.Postgres.Name == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
	}
	if c.HTTP.Port == "" {
		errs = append(errs, errors.New("APP_PORT is required"))
	}
	return errors.Join(errs...)
}
