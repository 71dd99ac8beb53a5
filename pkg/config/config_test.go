package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DefaultMaxIterations_Fallback(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultMaxIterationsFallback, cfg.DefaultMaxIterations())
}

func TestConfig_DefaultMaxIterations_FromDefaults(t *testing.T) {
	cfg := &Config{Defaults: &Defaults{MaxIterations: intPtr(25)}}
	assert.Equal(t, 25, cfg.DefaultMaxIterations())
}

func TestConfig_ComplianceStandards_Fallback(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, []string{string(ComplianceDORA)}, cfg.ComplianceStandards())
}

func TestConfig_ComplianceStandards_FromDefaults(t *testing.T) {
	cfg := &Config{Defaults: &Defaults{ComplianceStandards: []string{"NIST"}}}
	assert.Equal(t, []string{"NIST"}, cfg.ComplianceStandards())
}

func TestConfig_ConfigDir(t *testing.T) {
	cfg := &Config{configDir: "/etc/scenarioforge"}
	assert.Equal(t, "/etc/scenarioforge", cfg.ConfigDir())
}
