package config

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTLSConfig(t *testing.T) {
	cfg := NewTLSConfig()

	cfgValidator, ok := cfg.(IConfigValidator)
	assert.True(t, ok)
	assert.Nil(t, cfgValidator.ValidateCfg())

	assert.False(t, cfg.IsInsecureSkipVerify())
	assert.Equal(t, TLSDefaultMinVersion, cfg.GetMinVersion())
	assert.Equal(t, TLSDefaultCipherSuites, cfg.GetCipherSuites())
}

func TestBuildTLSConfig(t *testing.T) {
	cfg := NewTLSConfigWithVerify(false)
	built := cfg.BuildTLSConfig()

	assert.True(t, built.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS12), built.MinVersion)
	assert.Len(t, built.CipherSuites, len(TLSDefaultCipherSuites))

	var nilCfg *TLSConfiguration
	assert.Equal(t, uint16(tls.VersionTLS12), nilCfg.BuildTLSConfig().MinVersion)
}

func TestTLSValidate(t *testing.T) {
	cfg := NewTLSConfig().(*TLSConfiguration)
	cfg.MinVersion = TLSVersionAsValue("SSL3.0")
	assert.NotNil(t, cfg.ValidateCfg())

	cfg = NewTLSConfig().(*TLSConfiguration)
	cfg.CipherSuites = []TLSCipherSuite{TLSCipherSuite(0x0001)}
	assert.NotNil(t, cfg.ValidateCfg())
}

func TestValidateConfigWalksFields(t *testing.T) {
	cfg := &TenantConfiguration{
		TenantName:   "acme",
		Domain:       "luminatesec.com",
		ClientID:     "1234",
		ClientSecret: "s3cr3t",
		APIVersion:   1,
		TLS:          &TLSConfiguration{MinVersion: TLSVersion(1)},
	}
	assert.NotNil(t, ValidateConfig(cfg))

	cfg.TLS = NewTLSConfig()
	assert.Nil(t, ValidateConfig(cfg))
	assert.Nil(t, ValidateConfig(nil))
}
