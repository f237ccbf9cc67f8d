package types

import "time"

// ForecastPeriod is a half-day (day or night) forecast segment. Periods are
// immutable once fetched; a fresh fetch fully replaces the prior list.
//
// The schema is the superset of the provider variants observed over time:
// wind, icon, trend, and snow chance are optional extensions that older
// payloads simply leave unset.
type ForecastPeriod struct {
	// Number is the ordering key, unique within one fetch.
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsDaytime bool      `json:"is_daytime"`

	Temperature      *int   `json:"temperature,omitempty"`
	TemperatureUnit  string `json:"temperature_unit,omitempty"`
	TemperatureTrend string `json:"temperature_trend,omitempty"`

	WindSpeed     string `json:"wind_speed,omitempty"`
	WindDirection string `json:"wind_direction,omitempty"`
	Icon          string `json:"icon,omitempty"`

	ShortForecast    string `json:"short_forecast"`
	DetailedForecast string `json:"detailed_forecast,omitempty"`

	// PrecipChance and SnowChance are percentages in [0,100]; nil when the
	// provider omits the value.
	PrecipChance *int `json:"precip_chance,omitempty"`
	SnowChance   *int `json:"snow_chance,omitempty"`
}

// DailyForecast pairs a daytime period with its following nighttime period
// for single-row display. Night is nil when the day period has no qualifying
// night counterpart (e.g. the last period of a fetch).
type DailyForecast struct {
	// Number is the day period's sequence number and serves as the record's
	// identity.
	Number    int             `json:"number"`
	Name      string          `json:"name"`
	StartTime time.Time       `json:"start_time"`
	Day       ForecastPeriod  `json:"day"`
	Night     *ForecastPeriod `json:"night,omitempty"`
}
