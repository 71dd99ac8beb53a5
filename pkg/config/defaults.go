package config

// DefaultMaxIterationsFallback is used when neither the caller nor the
// YAML defaults specify max_iterations.
const DefaultMaxIterationsFallback = 10

// Defaults contains system-wide default configurations, overridable per
// generate_scenario call.
type Defaults struct {
	// MaxIterations is the default generation budget.
	MaxIterations *int `yaml:"max_iterations,omitempty" validate:"omitempty,min=1"`

	// Mode is the default Critic mode ("legacy" or "thesis").
	Mode string `yaml:"mode,omitempty"`

	// Interactive is the default interactive-mode flag.
	Interactive bool `yaml:"interactive,omitempty"`

	// ComplianceStandards is the default enabled compliance framework set.
	ComplianceStandards []string `yaml:"compliance_standards,omitempty"`
}
