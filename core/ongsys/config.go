package ongsys

// Config holds configuration for the ONGSYS source API.
type Config struct {
	// BaseURL is the root URL of the ONGSYS REST API.
	BaseURL string `mapstructure:"base_url" default:""`
	// Username is the HTTP Basic auth user.
	Username string `mapstructure:"username" default:""`
	// Password is the HTTP Basic auth password.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxPages caps the pagination loop. The API signals completion
	// inconsistently (422, empty page, error payload), so a hard cap
	// guards against an endless loop if none of the signals arrive.
	MaxPages int `mapstructure:"max_pages" default:"500"`
	// PageDelayMS is a fixed pause between page requests to stay under
	// the API's rate limits.
	PageDelayMS int `mapstructure:"page_delay_ms" default:"100"`
}
