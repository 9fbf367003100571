package authcore

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningMethod = "hs256"
	cfg.Token.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with key", func(*Config) {}, false},
		{"zero access TTL", func(c *Config) { c.Token.AccessTTL = 0 }, true},
		{"zero refresh TTL", func(c *Config) { c.Token.RefreshTTL = 0 }, true},
		{"access not shorter than refresh", func(c *Config) {
			c.Token.AccessTTL = c.Token.RefreshTTL
		}, true},
		{"unknown signing method", func(c *Config) { c.Token.SigningMethod = "rs256" }, true},
		{"ed25519 without keys", func(c *Config) {
			c.Token.SigningMethod = "ed25519"
			c.Token.PrivateKey = nil
			c.Token.PublicKey = nil
		}, true},
		{"hs256 without secret", func(c *Config) { c.Token.PrivateKey = nil }, true},
		{"negative leeway", func(c *Config) { c.Token.Leeway = -time.Second }, true},
		{"excessive leeway", func(c *Config) { c.Token.Leeway = 5 * time.Minute }, true},
		{"empty redis prefix", func(c *Config) { c.Session.RedisPrefix = "" }, true},
		{"missing cookie name", func(c *Config) { c.Cookie.AccessName = "" }, true},
		{"colliding cookie names", func(c *Config) {
			c.Cookie.RefreshName = c.Cookie.AccessName
		}, true},
		{"audit enabled with no buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCloneConfigCopiesKeys(t *testing.T) {
	cfg := validTestConfig()
	clone := cloneConfig(cfg)

	clone.Token.PrivateKey[0] ^= 0xff
	if cfg.Token.PrivateKey[0] == clone.Token.PrivateKey[0] {
		t.Fatal("clone must not share key backing arrays")
	}
}
