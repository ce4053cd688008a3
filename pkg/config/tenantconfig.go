package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// TenantSection - name of the section holding the tenant properties
const TenantSection = "Luminate Properties"

const (
	defaultAPIVersion = 1
	tokenPath         = "/v1/oauth/token"

	keyTenantName = "tenant_name"
	keyDomain     = "luminate_domain"
	keyClientID   = "client_id"
	keySecret     = "client_secret"
	keyVerifySSL  = "verify_ssl"
	keyURL        = "url"
	keyAPIVersion = "api_version"
)

// TenantConfig - Interface to get the tenant credentials
type TenantConfig interface {
	GetTenantName() string
	GetDomain() string
	GetClientID() string
	GetClientSecret() string
	IsVerifySSL() bool
	GetAPIVersion() int
	GetURL() string
	GetTokenURL() string
	GetTLSConfig() TLSConfig
	ValidateCfg() error
}

// TenantConfiguration - the tenant and OAuth client settings, read once and never modified
type TenantConfiguration struct {
	TenantName   string    `config:"tenant_name"`
	Domain       string    `config:"luminate_domain"`
	ClientID     string    `config:"client_id"`
	ClientSecret string    `config:"client_secret"`
	VerifySSL    bool      `config:"verify_ssl"`
	URL          string    `config:"url"`
	APIVersion   int       `config:"api_version"`
	TLS          TLSConfig `config:"ssl"`
}

// LoadTenantConfig - reads the tenant properties file
func LoadTenantConfig(path string) (TenantConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMissingConfigFile.FormatError(path)
	}

	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true, IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, ErrReadingConfigFile.FormatError(fmt.Sprintf("%s - %s", path, err))
	}

	section, err := file.GetSection(TenantSection)
	if err != nil {
		return nil, ErrMissingSection.FormatError(path, TenantSection)
	}

	cfg := &TenantConfiguration{
		TenantName:   strings.TrimSpace(section.Key(keyTenantName).String()),
		Domain:       strings.TrimSpace(section.Key(keyDomain).String()),
		ClientID:     strings.TrimSpace(section.Key(keyClientID).String()),
		ClientSecret: strings.TrimSpace(section.Key(keySecret).String()),
		URL:          strings.TrimRight(strings.TrimSpace(section.Key(keyURL).String()), "/"),
		VerifySSL:    section.Key(keyVerifySSL).MustBool(true),
		APIVersion:   section.Key(keyAPIVersion).MustInt(defaultAPIVersion),
	}
	cfg.TLS = NewTLSConfigWithVerify(cfg.VerifySSL)
	return cfg, nil
}

// WithClientSecret - returns a copy of the config using the given secret, used when the
// secret is supplied from the environment rather than the properties file
func (c *TenantConfiguration) WithClientSecret(secret string) *TenantConfiguration {
	copied := *c
	copied.ClientSecret = secret
	return &copied
}

// GetTenantName -
func (c *TenantConfiguration) GetTenantName() string {
	return c.TenantName
}

// GetDomain -
func (c *TenantConfiguration) GetDomain() string {
	return c.Domain
}

// GetClientID -
func (c *TenantConfiguration) GetClientID() string {
	return c.ClientID
}

// GetClientSecret -
func (c *TenantConfiguration) GetClientSecret() string {
	return c.ClientSecret
}

// IsVerifySSL -
func (c *TenantConfiguration) IsVerifySSL() bool {
	return c.VerifySSL
}

// GetAPIVersion -
func (c *TenantConfiguration) GetAPIVersion() int {
	return c.APIVersion
}

// GetURL - returns the API server URL, https://api.{tenant}.{domain} unless overridden
func (c *TenantConfiguration) GetURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("https://api.%s.%s", c.TenantName, c.Domain)
}

// GetTokenURL -
func (c *TenantConfiguration) GetTokenURL() string {
	return c.GetURL() + tokenPath
}

// GetTLSConfig -
func (c *TenantConfiguration) GetTLSConfig() TLSConfig {
	if c.TLS == nil {
		return NewTLSConfigWithVerify(c.VerifySSL)
	}
	return c.TLS
}

// ValidateCfg - Validates the tenant config
func (c *TenantConfiguration) ValidateCfg() error {
	if c.URL == "" {
		if c.TenantName == "" {
			return ErrBadConfig.FormatError(keyTenantName)
		}
		if c.Domain == "" {
			return ErrBadConfig.FormatError(keyDomain)
		}
	}
	if c.ClientID == "" {
		return ErrBadConfig.FormatError(keyClientID)
	}
	if c.ClientSecret == "" {
		return ErrBadConfig.FormatError(keySecret)
	}
	if c.APIVersion < 1 {
		return ErrBadConfig.FormatError(keyAPIVersion)
	}
	return nil
}
