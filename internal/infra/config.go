package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CompanyProfile carries the tenant identity composited into every banner.
type CompanyProfile struct {
	Name     string
	Website  string
	Phone    string
	Address  string
	Services []string
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	SessionKey  string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	AllowedOrigins []string
	GeoIPDBPath    string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	KieAPIKey  string
	KieBaseURL string

	VideoWebhookURL string

	DefaultLogoURL      string
	DefaultCharacterURL string

	Company CompanyProfile

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	LoginRatePerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SessionKey:  os.Getenv("SESSION_KEY"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@ivinfotech.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "IV Infotech Admin"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5003")),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		KieAPIKey:  os.Getenv("KIE_API_KEY"),
		KieBaseURL: getEnv("KIE_BASE_URL", "https://api.kie.ai"),

		VideoWebhookURL: os.Getenv("VIDEO_WEBHOOK_URL"),

		DefaultLogoURL:      getEnv("DEFAULT_LOGO_URL", "https://res.cloudinary.com/dgtlwozlu/image/upload/v1770974447/mwkdoaojy5wpwzoewyb5.png"),
		DefaultCharacterURL: getEnv("DEFAULT_CHARACTER_URL", "https://res.cloudinary.com/dgtlwozlu/image/upload/v1770972383/jyn46erxuogos2dlgmae.jpg"),

		Company: CompanyProfile{
			Name:    getEnv("COMPANY_NAME", "IV Infotech"),
			Website: getEnv("COMPANY_WEBSITE", "www.ivinfotech.com"),
			Phone:   getEnv("COMPANY_PHONE", "Call Now: 9924426361"),
			Address: getEnv("COMPANY_ADDRESS", "S Cube, T-332, Radhanpur road, Opp. Bansari Township, Mehsana, Gujarat 384002"),
			Services: splitList(getEnv("COMPANY_SERVICES",
				"Custom Mobile Application Development,CRM & ERP Software,Digital Marketing,UI/UX Design")),
		},

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		LoginRatePerMin:  getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("SESSION_KEY is required")
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
