// internal/infra/config/config.go
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DocStoreFirestore = "firestore"
	DocStoreMemory    = "memory"
)

// Config holds every environment setting of the shop service.
// Integrations whose credentials are empty are disabled and answer 501.
type Config struct {
	Port string

	// document store
	DocStore                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	GCPCreds                 string

	// Mercado Pago
	MPAccessToken   string
	MPWebhookSecret string
	MPAPIBaseURL    string
	MPCurrencyID    string

	// WhatsApp Cloud API
	WhatsAppToken       string
	WhatsAppPhoneID     string
	WhatsAppAPIBaseURL  string
	AdminWhatsAppNumber string

	SiteURL     string
	AdminEmails []string

	ImageBucket string

	SendGridAPIKey string
	SendGridFrom   string

	RabbitMQURL   string
	OrderExchange string

	CORSAllowedOrigin string

	ProviderTimeout    time.Duration
	ProviderMaxRetries int
}

// LoadDotEnv loads .env files into the process environment. Missing files are ignored;
// variables already set win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Printf("[config] WARN: load %s: %v", p, err)
			continue
		}
		log.Printf("[config] loaded %s", p)
	}
}

// Load reads the environment and returns Config.
func Load() *Config {
	defaultProject := firstEnv("GCP_PROJECT_ID", "GOOGLE_CLOUD_PROJECT")

	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		DocStore:                 strings.ToLower(getenvDefault("DOCSTORE", DocStoreFirestore)),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		MPAccessToken:   strings.TrimSpace(os.Getenv("MP_ACCESS_TOKEN")),
		MPWebhookSecret: strings.TrimSpace(os.Getenv("MP_WEBHOOK_SECRET")),
		MPAPIBaseURL:    strings.TrimSpace(os.Getenv("MP_API_BASE_URL")),
		MPCurrencyID:    getenvDefault("MP_CURRENCY_ID", "ARS"),

		WhatsAppToken:       strings.TrimSpace(os.Getenv("WHATSAPP_TOKEN")),
		WhatsAppPhoneID:     strings.TrimSpace(os.Getenv("WHATSAPP_PHONE_ID")),
		WhatsAppAPIBaseURL:  strings.TrimSpace(os.Getenv("WHATSAPP_API_BASE_URL")),
		AdminWhatsAppNumber: strings.TrimSpace(os.Getenv("ADMIN_WHATSAPP_NUMBER")),

		SiteURL:     firstEnv("SITE_URL", "NEXT_PUBLIC_SITE_URL"),
		AdminEmails: splitList(os.Getenv("ADMIN_EMAILS")),

		ImageBucket: strings.TrimSpace(os.Getenv("IMAGE_BUCKET")),

		SendGridAPIKey: strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		SendGridFrom:   strings.TrimSpace(os.Getenv("SENDGRID_FROM")),

		RabbitMQURL:   strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		OrderExchange: getenvDefault("ORDER_EXCHANGE", "vibeshoes.orders"),

		CORSAllowedOrigin: getenvDefault("CORS_ALLOWED_ORIGIN", "*"),

		ProviderTimeout:    getenvDuration("PROVIDER_TIMEOUT", 10*time.Second),
		ProviderMaxRetries: getenvInt("PROVIDER_MAX_RETRIES", 2),
	}
	return cfg
}

// UseMemoryStore reports DOCSTORE=memory (local runs without GCP).
func (c *Config) UseMemoryStore() bool {
	return c != nil && c.DocStore == DocStoreMemory
}

func (c *Config) MercadoPagoConfigured() bool { return c != nil && c.MPAccessToken != "" }

func (c *Config) WhatsAppConfigured() bool {
	return c != nil && c.WhatsAppToken != "" && c.WhatsAppPhoneID != ""
}

func (c *Config) MailConfigured() bool {
	return c != nil && c.SendGridAPIKey != "" && c.SendGridFrom != ""
}

// SecretResolver fetches a secret value by id (Secret Manager in production).
type SecretResolver interface {
	Resolve(ctx context.Context, secretID string) (string, error)
}

// secretFields maps each secret env var to its Config field.
func (c *Config) secretFields() map[string]*string {
	return map[string]*string{
		"MP_ACCESS_TOKEN":   &c.MPAccessToken,
		"MP_WEBHOOK_SECRET": &c.MPWebhookSecret,
		"WHATSAPP_TOKEN":    &c.WhatsAppToken,
		"SENDGRID_API_KEY":  &c.SendGridAPIKey,
		"RABBITMQ_URL":      &c.RabbitMQURL,
	}
}

// ResolveSecrets fills every empty secret X from the secret named by X_SECRET.
// A failed lookup leaves the value empty so the integration stays disabled.
func (c *Config) ResolveSecrets(ctx context.Context, r SecretResolver) error {
	if c == nil {
		return nil
	}
	var errs []error
	for env, dst := range c.secretFields() {
		if *dst != "" {
			continue
		}
		id := strings.TrimSpace(os.Getenv(env + "_SECRET"))
		if id == "" {
			continue
		}
		if r == nil {
			errs = append(errs, fmt.Errorf("config: %s_SECRET set but no secret resolver", env))
			continue
		}
		v, err := r.Resolve(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: resolve %s_SECRET: %w", env, err))
			continue
		}
		*dst = strings.TrimSpace(v)
		log.Printf("[config] %s resolved from secret %s", env, id)
	}
	return errors.Join(errs...)
}

// NeedsSecrets reports whether any X_SECRET indirection is configured.
func (c *Config) NeedsSecrets() bool {
	if c == nil {
		return false
	}
	for env, dst := range c.secretFields() {
		if *dst == "" && strings.TrimSpace(os.Getenv(env+"_SECRET")) != "" {
			return true
		}
	}
	return false
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[config] WARN: %s=%q is not a non-negative integer, using %d", key, v, def)
		return def
	}
	return n
}

// getenvDuration accepts Go durations ("15s") or plain seconds ("15").
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("[config] WARN: %s=%q is not a duration, using %s", key, v, def)
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == ' ' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
