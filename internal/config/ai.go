package config

import "time"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Report is for the followership report fragment (one call per submission)
	Report string `json:"report" env:"GEMINI_MODEL_REPORT" envDefault:"gemini-2.5-flash"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-" env:"GEMINI_API_KEY"` // Never serialize
	BaseURL   string       `json:"baseUrl" env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs" env:"GEMINI_TIMEOUT_MS" envDefault:"30000"`

	// Mock makes the evaluator return a canned report instead of calling Gemini
	Mock bool `json:"mock" env:"GEMINI_MOCK"`
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

// Timeout is the per-call deadline for report generation
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
