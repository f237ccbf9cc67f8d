package types

import "time"

// Config is the top-level configuration struct for skycast. It is populated
// once during process initialization and never modified. Sub-components
// receive only the specific config subsets they require.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Weather WeatherConfig
	Notify  NotifyConfig
	Refresh RefreshConfig
	Store   StoreConfig
}

// WeatherConfig holds the weather provider endpoint and HTTP client tuning.
type WeatherConfig struct {
	// BaseURL is the provider host, no trailing slash.
	BaseURL string `envconfig:"WEATHER_API_URL" default:"https://api.weather.gov" validate:"required,url"`

	// UserAgent identifies this client to the provider. The provider
	// requires a descriptive value with a contact address.
	UserAgent string `envconfig:"WEATHER_USER_AGENT" default:"skycast/1.0 (hello@skycast.dev)" validate:"required"`

	// Accept is the media type requested from the provider.
	Accept string `envconfig:"WEATHER_ACCEPT" default:"application/geo+json"`

	// APIKey is sent as a bearer token when the configured provider
	// requires one. Empty for keyless providers.
	APIKey SecretString `envconfig:"WEATHER_API_KEY"`

	Timeout time.Duration `envconfig:"WEATHER_HTTP_TIMEOUT" default:"10s" validate:"min=1s"`
}

// NotifyConfig holds alert notification behavior.
type NotifyConfig struct {
	Enabled bool `envconfig:"ALERT_NOTIFICATIONS" default:"true"`

	// MaxPerRefresh caps how many alerts may be pushed per refresh cycle to
	// avoid notification spam when many alerts are simultaneously active.
	MaxPerRefresh int `envconfig:"ALERT_NOTIFY_CAP" default:"2" validate:"min=1"`

	// LedgerCapacity bounds the persisted set of already-notified alert ids.
	LedgerCapacity int `envconfig:"ALERT_LEDGER_CAPACITY" default:"200" validate:"min=1"`
}

// RefreshConfig holds the staleness gating parameters.
type RefreshConfig struct {
	// DebounceDegrees is the per-axis coordinate delta below which a new
	// fix is not considered materially different. 0.01 degrees is roughly
	// 1.1 km at the equator.
	DebounceDegrees float64 `envconfig:"REFRESH_DEBOUNCE_DEGREES" default:"0.01" validate:"gt=0"`
}

// StoreConfig holds the on-device settings store location.
type StoreConfig struct {
	Path string `envconfig:"STORE_PATH" default:"skycast.db" validate:"required"`
}
