package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DOCSTORE", "MP_CURRENCY_ID", "ORDER_EXCHANGE", "CORS_ALLOWED_ORIGIN",
		"PROVIDER_TIMEOUT", "PROVIDER_MAX_RETRIES", "SITE_URL", "NEXT_PUBLIC_SITE_URL", "ADMIN_EMAILS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.DocStore != DocStoreFirestore || cfg.MPCurrencyID != "ARS" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.ProviderTimeout != 10*time.Second || cfg.ProviderMaxRetries != 2 {
		t.Errorf("provider policy = %s/%d", cfg.ProviderTimeout, cfg.ProviderMaxRetries)
	}
	if cfg.CORSAllowedOrigin != "*" || cfg.OrderExchange != "vibeshoes.orders" {
		t.Errorf("cors=%q exchange=%q", cfg.CORSAllowedOrigin, cfg.OrderExchange)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DOCSTORE", "Memory")
	t.Setenv("SITE_URL", "")
	t.Setenv("NEXT_PUBLIC_SITE_URL", "https://vibeshoes.example")
	t.Setenv("ADMIN_EMAILS", "a@x.com, b@x.com;c@x.com")
	t.Setenv("PROVIDER_TIMEOUT", "3")
	t.Setenv("PROVIDER_MAX_RETRIES", "-1")
	t.Setenv("WHATSAPP_TOKEN", "tok")
	t.Setenv("WHATSAPP_PHONE_ID", "")

	cfg := Load()
	if !cfg.UseMemoryStore() {
		t.Error("DOCSTORE=Memory not honoured")
	}
	if cfg.SiteURL != "https://vibeshoes.example" {
		t.Errorf("site url = %q", cfg.SiteURL)
	}
	if len(cfg.AdminEmails) != 3 || cfg.AdminEmails[2] != "c@x.com" {
		t.Errorf("admin emails = %v", cfg.AdminEmails)
	}
	if cfg.ProviderTimeout != 3*time.Second || cfg.ProviderMaxRetries != 2 {
		t.Errorf("provider policy = %s/%d", cfg.ProviderTimeout, cfg.ProviderMaxRetries)
	}
	if cfg.WhatsAppConfigured() {
		t.Error("WhatsApp configured without phone id")
	}
}

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, id string) (string, error) {
	v, ok := m[id]
	if !ok {
		return "", errors.New("no such secret")
	}
	return v, nil
}

func TestResolveSecrets(t *testing.T) {
	t.Setenv("MP_ACCESS_TOKEN", "")
	t.Setenv("MP_ACCESS_TOKEN_SECRET", "mp-token")
	t.Setenv("SENDGRID_API_KEY", "direct-key")
	t.Setenv("SENDGRID_API_KEY_SECRET", "ignored")
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("WHATSAPP_TOKEN_SECRET", "missing")
	t.Setenv("MP_WEBHOOK_SECRET", "")
	t.Setenv("MP_WEBHOOK_SECRET_SECRET", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("RABBITMQ_URL_SECRET", "")

	cfg := Load()
	if !cfg.NeedsSecrets() {
		t.Fatal("NeedsSecrets = false")
	}
	err := cfg.ResolveSecrets(context.Background(), mapResolver{"mp-token": " APP_USR-1 \n"})
	if err == nil {
		t.Error("expected error for the missing whatsapp secret")
	}
	if cfg.MPAccessToken != "APP_USR-1" {
		t.Errorf("mp token = %q", cfg.MPAccessToken)
	}
	if cfg.SendGridAPIKey != "direct-key" {
		t.Errorf("explicit value overwritten: %q", cfg.SendGridAPIKey)
	}
	if cfg.WhatsAppToken != "" {
		t.Errorf("whatsapp token = %q", cfg.WhatsAppToken)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte("VIBESHOES_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VIBESHOES_DOTENV_PROBE", "")
	os.Unsetenv("VIBESHOES_DOTENV_PROBE")

	LoadDotEnv(filepath.Join(dir, "missing.env"), p)
	if got := os.Getenv("VIBESHOES_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("probe = %q", got)
	}
}
