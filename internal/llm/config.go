// Package llm provides centralized LLM configuration and client abstractions
// for website copy generation.
package llm

// ModelTier selects a capability level rather than a concrete model name, so
// callers describe the kind of task and the config maps it to a model.
type ModelTier string

const (
	// TierLite is for cheap tasks: CTA labels, headline variants
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: full section copy, SEO metadata
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form work: about-page stories, service writeups
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM backend.
type Provider string

const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is reserved for a future OpenAI backend
	ProviderOpenAI Provider = "openai"
)

// Config maps tiers to model names for a single provider.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini tier mapping.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel resolves a tier to a model name. An unmapped tier falls back to
// standard, then lite, and finally an empty string if the map is empty.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier remapped. The
// receiver is left untouched.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := make(map[ModelTier]string, len(c.Models))
	for k, v := range c.Models {
		models[k] = v
	}
	models[tier] = model
	return &Config{Provider: c.Provider, Models: models}
}
