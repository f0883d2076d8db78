package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые бэкенды объектного хранилища.
const (
	StorageBackendDB = "db"
	StorageBackendS3 = "s3"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string   `env:"DATABASE_URI"`
	AuthSecret  string   `env:"AUTH_SECRET"`
	AdminIDs    []string `env:"ADMIN_GITHUB_IDS" envSeparator:","`

	// Object storage
	StorageBackend    string        `env:"STORAGE_BACKEND"`
	S3Endpoint        string        `env:"S3_ENDPOINT"`
	S3Bucket          string        `env:"S3_BUCKET"`
	S3AccessKeyID     string        `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string        `env:"S3_SECRET_ACCESS_KEY"`
	S3Region          string        `env:"S3_REGION"`
	S3UseSSL          bool          `env:"S3_USE_SSL" envDefault:"true"`
	PresignDownloads  bool          `env:"PRESIGN_DOWNLOADS"`
	PresignTTL        time.Duration `env:"PRESIGN_TTL"`

	// Upload limits
	ArchiveMaxSizeMB int `env:"ARCHIVE_MAX_MB"`
	ImageMaxSizeMB   int `env:"IMAGE_MAX_MB"`
	UploadRatePerMin int `env:"UPLOAD_RATE_PER_MIN"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// DevLogin открывает POST /api/dev/login: сессия для любого id без OAuth. Только для локальной разработки.
	DevLogin bool `env:"DEV_LOGIN"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	admins := strings.Join(cfg.AdminIDs, ",")
	cors := strings.Join(cfg.CORSOrigins, ",")

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь к SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для проверки JWT сессии")
	flag.StringVar(&admins, "admins", admins, "GitHub id администраторов через запятую")
	flag.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "бэкенд объектного хранилища: db | s3")
	flag.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "S3 endpoint (host[:port])")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket")
	flag.BoolVar(&cfg.PresignDownloads, "presign", cfg.PresignDownloads, "отдавать ссылки на скачивание вместо потока")
	flag.IntVar(&cfg.ArchiveMaxSizeMB, "archive-max-mb", cfg.ArchiveMaxSizeMB, "максимальный размер zip в МБ")
	flag.IntVar(&cfg.ImageMaxSizeMB, "image-max-mb", cfg.ImageMaxSizeMB, "максимальный размер изображения в МБ")
	flag.StringVar(&cors, "cors", cors, "разрешённые CORS origins через запятую")
	flag.BoolVar(&cfg.DevLogin, "dev-login", cfg.DevLogin, "включить POST /api/dev/login (только для разработки)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the SkillHub server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to session token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.AdminIDs = splitList(admins)
	cfg.CORSOrigins = splitList(cors)

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "skillhub.db"
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	if cfg.StorageBackend != StorageBackendS3 {
		cfg.StorageBackend = StorageBackendDB
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "auto"
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 5 * time.Minute
	}
	if cfg.ArchiveMaxSizeMB <= 0 {
		cfg.ArchiveMaxSizeMB = 50
	}
	if cfg.ImageMaxSizeMB <= 0 {
		cfg.ImageMaxSizeMB = 2
	}
	if cfg.UploadRatePerMin <= 0 {
		cfg.UploadRatePerMin = 30
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.TokenFile = filepath.Join(dir, "SkillHub", "session_token")
		}
	}

	return cfg
}

// splitList разбирает список через запятую, отбрасывая пустые элементы.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
