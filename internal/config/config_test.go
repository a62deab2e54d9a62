package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
database:
  host: localhost
  port: 5432
  user: storefront
  password: secret
  database: storefront
rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
notification:
  service_id: service_pickup
  template_id: template_confirmation
order:
  time_slots: ["12:00", "16:30"]
`

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("Expected no error writing config, got: %v", err)
	}
	t.Setenv(passphraseEnv, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Expected port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.Collection != "products" {
		t.Errorf("Expected default store postgres/products, got %s/%s", cfg.Store.Driver, cfg.Store.Collection)
	}
	if cfg.Notification.PickupLocation != "046" {
		t.Errorf("Expected default pickup location 046, got %s", cfg.Notification.PickupLocation)
	}
	if cfg.Notification.BannerTTL != 6*time.Second {
		t.Errorf("Expected banner ttl 6s, got %s", cfg.Notification.BannerTTL)
	}
	if len(cfg.Order.TimeSlots) != 2 {
		t.Errorf("Expected 2 time slots, got %d", len(cfg.Order.TimeSlots))
	}
	if cfg.Admin.Passphrase != "admin123" {
		t.Errorf("Expected default passphrase, got %s", cfg.Admin.Passphrase)
	}
}

func TestParse_PassphraseFromEnv(t *testing.T) {
	t.Setenv(passphraseEnv, "s3cret")

	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.Admin.Passphrase != "s3cret" {
		t.Errorf("Expected passphrase from env, got %s", cfg.Admin.Passphrase)
	}
}

func TestParse_UnknownDriver(t *testing.T) {
	if _, err := Parse([]byte("store:\n  driver: firestore\n")); err == nil {
		t.Error("Expected error for unsupported store driver")
	}
}
