package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	strs "github.com/BrandonDavidJones1/hire-bot/pkg/platform/strings"
)

// Config is the full environment-driven configuration surface. Only the bot
// token is mandatory; everything else degrades gracefully so a half-configured
// deployment still starts and tells the operator what is missing at runtime.
type Config struct {
	BotToken string
	Gateway  GatewayConfig
	Staff    StaffConfig
	Signing  SigningConfig
	Links    LinksConfig
	Blocked  []BlockedLocation
	Redis    RedisConfig
	Audit    AuditConfig
}

// GatewayConfig covers the messaging transport: the REST API we send through
// and the webhook surface we receive on.
type GatewayConfig struct {
	APIURL        string
	WebhookSecret string
	HTTPAddr      string
	BotUserID     string
}

// StaffConfig lists the people notified when a hire finishes onboarding.
type StaffConfig struct {
	UserIDs            []string
	ContactName        string
	SupportContactName string
	DevContactName     string
}

// SigningConfig holds the document-signing service credentials and endpoints.
// Absence is surfaced at the point of use, not at startup.
type SigningConfig struct {
	ClientID     string
	ClientSecret string
	APIHost      string
	OAuthURL     string
	TemplatePath string
}

// LinksConfig holds the external URLs shown during training.
type LinksConfig struct {
	ManualURL       string
	VideoURL        string
	RecordingsURL   string
	ServerInviteURL string
}

// BlockedLocation is a jurisdiction we cannot onboard in, matched by full
// name or abbreviation, case-insensitively.
type BlockedLocation struct {
	Name         string
	Abbreviation string
}

// RedisConfig enables the distributed session store when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig enables the Kafka audit publisher when brokers are set.
type AuditConfig struct {
	Brokers []string
	Topic   string
}

// Load reads an optional .env file and builds the config from the
// environment so main stays lean.
func Load() Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config purely from environment variables.
func FromEnv() Config {
	return Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Gateway: GatewayConfig{
			APIURL:        getenv("GATEWAY_API_URL", "https://discord.com/api/v10"),
			WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
			HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
			BotUserID:     os.Getenv("BOT_USER_ID"),
		},
		Staff: StaffConfig{
			UserIDs:            splitList(os.Getenv("STAFF_USER_IDS")),
			ContactName:        getenv("STAFF_CONTACT_NAME", "Corey LTS (CEO)"),
			SupportContactName: getenv("SUPPORT_CONTACT_NAME", "Adam Black (Support)"),
			DevContactName:     getenv("DEV_CONTACT_NAME", "the Developer"),
		},
		Signing: SigningConfig{
			ClientID:     os.Getenv("SIGN_CLIENT_ID"),
			ClientSecret: os.Getenv("SIGN_CLIENT_SECRET"),
			APIHost:      os.Getenv("SIGN_API_HOST"),
			OAuthURL:     os.Getenv("SIGN_OAUTH_URL"),
			TemplatePath: os.Getenv("CONTRACT_TEMPLATE_PATH"),
		},
		Links: LinksConfig{
			ManualURL:       getenv("TRAINING_MANUAL_URL", "https://example.com/manual"),
			VideoURL:        getenv("TRAINING_VIDEO_URL", "https://example.com/video"),
			RecordingsURL:   getenv("TRAINING_RECORDINGS_URL", "https://example.com/recordings"),
			ServerInviteURL: getenv("SERVER_INVITE_URL", "https://example.com/invite"),
		},
		Blocked: parseBlocked(getenv("BLOCKED_LOCATIONS", "Florida:FL")),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("AUDIT_TOPIC", "hirebot.audit"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// splitList parses a comma-separated env value, dropping blanks and repeats
// so a doubled staff ID never produces a duplicate notification.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strs.DedupeAndTrim(strings.Split(s, ","))
}

// parseBlocked parses "Name:Abbr,Name:Abbr" pairs. A bare name without an
// abbreviation is accepted.
func parseBlocked(s string) []BlockedLocation {
	var out []BlockedLocation
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, abbr, _ := strings.Cut(part, ":")
		out = append(out, BlockedLocation{
			Name:         strings.TrimSpace(name),
			Abbreviation: strings.TrimSpace(abbr),
		})
	}
	return out
}
