package erpnext

// Config holds configuration for the ERPNext destination API.
type Config struct {
	// BaseURL is the root URL of the ERPNext instance.
	BaseURL string `mapstructure:"base_url" default:""`
	// APIKey is the token key part of the authorization header.
	APIKey string `mapstructure:"api_key" default:""`
	// APISecret is the token secret part of the authorization header.
	APISecret string `mapstructure:"api_secret" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
