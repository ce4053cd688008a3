package config

import (
	"crypto/tls"
	"fmt"
)

// TLSCipherSuite - defined type
type TLSCipherSuite uint16

// Taken from https://www.iana.org/assignments/tls-parameters/tls-parameters.xml
var tlsCipherSuites = map[string]TLSCipherSuite{
	"ECDHE-ECDSA-AES-128-GCM-SHA256": TLSCipherSuite(tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256),
	"ECDHE-ECDSA-AES-256-GCM-SHA384": TLSCipherSuite(tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384),
	"ECDHE-ECDSA-CHACHA20-POLY1305":  TLSCipherSuite(tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305),
	"ECDHE-RSA-AES-128-GCM-SHA256":   TLSCipherSuite(tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256),
	"ECDHE-RSA-AES-256-GCM-SHA384":   TLSCipherSuite(tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384),
	"ECDHE-RSA-CHACHA20-POLY1305":    TLSCipherSuite(tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305),
}

// TLSDefaultCipherSuites - list of suites to use by default
var TLSDefaultCipherSuites = []TLSCipherSuite{
	TLSCipherSuite(tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384),
	TLSCipherSuite(tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384),
	TLSCipherSuite(tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305),
	TLSCipherSuite(tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305),
	TLSCipherSuite(tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256),
	TLSCipherSuite(tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256),
}

var tlsCipherSuitesInverse = make(map[TLSCipherSuite]string, len(tlsCipherSuites))

// TLSVersion - define type for version
type TLSVersion uint16

var tlsVersions = map[string]TLSVersion{
	"TLS1.2": tls.VersionTLS12,
	"TLS1.3": tls.VersionTLS13,
}

var tlsVersionsInverse = make(map[TLSVersion]string, len(tlsVersions))

// TLSDefaultMinVersion - get the default min version
var TLSDefaultMinVersion TLSVersion = tls.VersionTLS12

func init() {
	for cipherName, i := range tlsCipherSuites {
		tlsCipherSuitesInverse[i] = cipherName
	}
	for versionName, i := range tlsVersions {
		tlsVersionsInverse[i] = versionName
	}
}

func (cs TLSCipherSuite) String() string {
	if s, found := tlsCipherSuitesInverse[cs]; found {
		return s
	}
	return "unknown"
}

// TLSVersionAsValue - get the version value, 0 when the name is unknown
func TLSVersionAsValue(name string) TLSVersion {
	return tlsVersions[name]
}

// TLSConfig - interface
type TLSConfig interface {
	IsInsecureSkipVerify() bool
	GetCipherSuites() []TLSCipherSuite
	GetMinVersion() TLSVersion
	BuildTLSConfig() *tls.Config
}

// TLSConfiguration - the TLS settings used when talking to the Luminate API
type TLSConfiguration struct {
	// InsecureSkipVerify controls whether a client verifies the server's certificate chain and host name.
	// In this mode, TLS is susceptible to man-in-the-middle attacks and should only be used for testing.
	InsecureSkipVerify bool             `config:"insecureSkipVerify"`
	CipherSuites       []TLSCipherSuite `config:"cipherSuites"`
	MinVersion         TLSVersion       `config:"minVersion"`
}

// NewTLSConfig - build default config
func NewTLSConfig() TLSConfig {
	return &TLSConfiguration{
		InsecureSkipVerify: false,
		CipherSuites:       TLSDefaultCipherSuites,
		MinVersion:         TLSDefaultMinVersion,
	}
}

// NewTLSConfigWithVerify - build default config honoring the verify flag from the tenant properties
func NewTLSConfigWithVerify(verify bool) TLSConfig {
	cfg := NewTLSConfig().(*TLSConfiguration)
	cfg.InsecureSkipVerify = !verify
	return cfg
}

// BuildTLSConfig takes the TLSConfiguration and transforms it into a `tls.Config`.
func (c *TLSConfiguration) BuildTLSConfig() *tls.Config {
	if c == nil {
		return &tls.Config{MinVersion: uint16(TLSDefaultMinVersion)}
	}

	var ciphers []uint16
	for _, suite := range c.CipherSuites {
		ciphers = append(ciphers, uint16(suite))
	}
	return &tls.Config{
		MinVersion:         uint16(c.MinVersion),
		InsecureSkipVerify: c.InsecureSkipVerify, //nolint:gosec
		CipherSuites:       ciphers,
	}
}

// IsInsecureSkipVerify -
func (c *TLSConfiguration) IsInsecureSkipVerify() bool {
	return c.InsecureSkipVerify
}

// GetCipherSuites -
func (c *TLSConfiguration) GetCipherSuites() []TLSCipherSuite {
	return c.CipherSuites
}

// GetMinVersion -
func (c *TLSConfiguration) GetMinVersion() TLSVersion {
	return c.MinVersion
}

// ValidateCfg - Validates the config, implementing IConfigValidator
func (c *TLSConfiguration) ValidateCfg() error {
	if _, ok := tlsVersionsInverse[c.MinVersion]; !ok {
		return ErrBadTLSConfig.FormatError(fmt.Sprintf("minVersion %d", c.MinVersion))
	}
	for _, v := range c.CipherSuites {
		if _, ok := tlsCipherSuitesInverse[v]; !ok {
			return ErrBadTLSConfig.FormatError(fmt.Sprintf("cipherSuites %d", v))
		}
	}
	return nil
}
