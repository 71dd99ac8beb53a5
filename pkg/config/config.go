// Package config loads and validates the scenario engine's runtime
// configuration: the LLM/graph/vector-store/forensic-log settings named
// in the core's external interface, plus the Defaults every run falls
// back to when a caller doesn't override them.
package config

// Config is the umbrella configuration object returned by Initialize and
// threaded through the engine's components.
type Config struct {
	configDir string

	// LLMAPIKey authenticates the opaque LLM backend.
	LLMAPIKey string
	// LLMModel is the default model hint passed to invoke().
	LLMModel string

	// GraphURI, GraphUser, GraphPassword address the state store's
	// backing graph database.
	GraphURI      string
	GraphUser     string
	GraphPassword string

	// VectorDBPath addresses the TTP intel provider's vector store.
	VectorDBPath string

	// ForensicLogPath is where the append-only JSON-lines audit trace is written.
	ForensicLogPath string

	Defaults *Defaults
}

// ConfigDir returns the configuration directory path.
func (c *Config) ConfigDir() string { return c.configDir }

// DefaultMaxIterations returns the system-wide default max_iterations,
// used by generate_scenario callers that don't specify one explicitly.
func (c *Config) DefaultMaxIterations() int {
	if c.Defaults == nil || c.Defaults.MaxIterations == nil {
		return DefaultMaxIterationsFallback
	}
	return *c.Defaults.MaxIterations
}

// ComplianceStandards returns the system-wide default compliance framework
// set, used when a caller doesn't specify compliance_standards explicitly.
func (c *Config) ComplianceStandards() []string {
	if c.Defaults == nil || len(c.Defaults.ComplianceStandards) == 0 {
		return []string{string(ComplianceDORA)}
	}
	return c.Defaults.ComplianceStandards
}
