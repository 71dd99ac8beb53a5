package config

// YAMLConfig represents the complete scenarioforge.yaml file structure.
type YAMLConfig struct {
	LLM       *LLMYAMLConfig   `yaml:"llm"`
	Graph     *GraphYAMLConfig `yaml:"graph"`
	VectorDB  *VectorDBYAMLConfig `yaml:"vector_db"`
	Forensics *ForensicsYAMLConfig `yaml:"forensics"`
	Defaults  *Defaults        `yaml:"defaults"`
}

// LLMYAMLConfig groups the opaque LLM backend's connection settings.
type LLMYAMLConfig struct {
	APIKeyEnv string `yaml:"api_key_env,omitempty"` // env var name holding LLM_API_KEY; defaults to "LLM_API_KEY"
	Model     string `yaml:"model,omitempty"`
}

// GraphYAMLConfig groups the state store's backing graph database settings.
type GraphYAMLConfig struct {
	URIEnv      string `yaml:"uri_env,omitempty"`
	UserEnv     string `yaml:"user_env,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty"`
}

// VectorDBYAMLConfig groups the TTP intel provider's vector store settings.
type VectorDBYAMLConfig struct {
	PathEnv string `yaml:"path_env,omitempty"`
}

// ForensicsYAMLConfig groups the append-only audit trace settings.
type ForensicsYAMLConfig struct {
	LogPathEnv string `yaml:"log_path_env,omitempty"`
}
