package core

import (
	"fmt"
	"strings"
)

const (
	defaultOwnerAccountID = 1
	fallbackLocale        = "en"
	watchlistPageSize     = 20
)

// AltServerMode selects which alternative media server flavor the
// deployment talks to. It decides the kind assigned to imported alt
// accounts.
type AltServerMode string

const (
	AltServerModeStandard AltServerMode = "standard"
	AltServerModeVariant  AltServerMode = "variant"
)

func (m AltServerMode) AccountKind() AccountKind {
	if m == AltServerModeVariant {
		return AccountKindAltVariant
	}
	return AccountKindAlt
}

type AnalyticsConfig struct {
	URL    string `koanf:"url" mapstructure:"url"`
	APIKey string `koanf:"api_key" mapstructure:"api_key"`
}

func (c AnalyticsConfig) Configured() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.APIKey) != ""
}

type QuotaConfig struct {
	MovieLimit int `koanf:"movie_limit" mapstructure:"movie_limit"`
	MovieDays  int `koanf:"movie_days" mapstructure:"movie_days"`
	TVLimit    int `koanf:"tv_limit" mapstructure:"tv_limit"`
	TVDays     int `koanf:"tv_days" mapstructure:"tv_days"`
}

type Config struct {
	ServiceName        string          `koanf:"service_name" mapstructure:"service_name"`
	OwnerAccountID     int64           `koanf:"owner_account_id" mapstructure:"owner_account_id"`
	DefaultLocale      string          `koanf:"default_locale" mapstructure:"default_locale"`
	DefaultPermissions uint32          `koanf:"default_permissions" mapstructure:"default_permissions"`
	AltServerMode      AltServerMode   `koanf:"alt_server_mode" mapstructure:"alt_server_mode"`
	ApplicationURL     string          `koanf:"application_url" mapstructure:"application_url"`
	Analytics          AnalyticsConfig `koanf:"analytics" mapstructure:"analytics"`
	Quota              QuotaConfig     `koanf:"quota" mapstructure:"quota"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:        "accounts",
		OwnerAccountID:     defaultOwnerAccountID,
		DefaultLocale:      fallbackLocale,
		DefaultPermissions: uint32(PermissionRequest),
		AltServerMode:      AltServerModeStandard,
		Quota: QuotaConfig{
			MovieDays: 7,
			TVDays:    7,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.OwnerAccountID <= 0 {
		return fmt.Errorf("core: owner_account_id must be positive")
	}
	switch c.AltServerMode {
	case AltServerModeStandard, AltServerModeVariant:
	default:
		return fmt.Errorf("core: invalid alt_server_mode %q", string(c.AltServerMode))
	}
	return nil
}

// ResolveLocale picks the locale for a new account: the supplied value
// wins, then the configured default, then the built-in fallback.
func (c Config) ResolveLocale(supplied string) string {
	if locale := strings.TrimSpace(supplied); locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(c.DefaultLocale); locale != "" {
		return locale
	}
	return fallbackLocale
}
