package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load a local .env file, if present (godotenv; missing file is not an error)
//  2. Load scenarioforge.yaml from configDir
//  3. Expand environment variables in its contents
//  4. Parse YAML into structs
//  5. Resolve LLM_API_KEY / GRAPH_* / VECTOR_DB_PATH / FORENSIC_LOG_PATH from
//     the referenced env vars (or their conventional defaults)
//  6. Apply default values
//  7. Validate all configuration
//  8. Return Config ready for use
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	log.Info("Configuration initialized successfully",
		"llm_model", cfg.LLMModel,
		"default_max_iterations", cfg.DefaultMaxIterations(),
		"compliance_standards", cfg.ComplianceStandards())

	return cfg, nil
}

func load(configDir string) (*Config, error) {
	path := filepath.Join(configDir, "scenarioforge.yaml")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewLoadError(path, ErrConfigNotFound)
		}
		return nil, NewLoadError(path, err)
	}

	expanded := ExpandEnv(raw)

	var yamlCfg YAMLConfig
	if err := yaml.Unmarshal(expanded, &yamlCfg); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	cfg := &Config{
		configDir: configDir,
		Defaults:  yamlCfg.Defaults,
	}

	cfg.LLMAPIKey = envOrDefault(fieldOr(yamlCfg.LLM, func(l *LLMYAMLConfig) string { return l.APIKeyEnv }, "LLM_API_KEY"), "")
	cfg.LLMModel = fieldOr(yamlCfg.LLM, func(l *LLMYAMLConfig) string { return l.Model }, "")

	cfg.GraphURI = envOrDefault(fieldOr(yamlCfg.Graph, func(g *GraphYAMLConfig) string { return g.URIEnv }, "GRAPH_URI"), "localhost:5432")
	cfg.GraphUser = envOrDefault(fieldOr(yamlCfg.Graph, func(g *GraphYAMLConfig) string { return g.UserEnv }, "GRAPH_USER"), "scenarioforge")
	cfg.GraphPassword = envOrDefault(fieldOr(yamlCfg.Graph, func(g *GraphYAMLConfig) string { return g.PasswordEnv }, "GRAPH_PASSWORD"), "")

	cfg.VectorDBPath = envOrDefault(fieldOr(yamlCfg.VectorDB, func(v *VectorDBYAMLConfig) string { return v.PathEnv }, "VECTOR_DB_PATH"), "")

	cfg.ForensicLogPath = envOrDefault(fieldOr(yamlCfg.Forensics, func(f *ForensicsYAMLConfig) string { return f.LogPathEnv }, "FORENSIC_LOG_PATH"), "forensics.jsonl")

	if cfg.Defaults == nil {
		cfg.Defaults = &Defaults{}
	}

	return cfg, nil
}

// fieldOr extracts a field from a possibly-nil struct pointer, or falls
// back to defaultVal when the struct or the extracted value is empty.
func fieldOr[T any](v *T, get func(*T) string, defaultVal string) string {
	if v == nil {
		return defaultVal
	}
	if s := get(v); s != "" {
		return s
	}
	return defaultVal
}

func envOrDefault(envVarName, defaultVal string) string {
	if v := os.Getenv(envVarName); v != "" {
		return v
	}
	return defaultVal
}
