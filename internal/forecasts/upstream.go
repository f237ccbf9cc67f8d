// Package forecasts implements the weather provider gateway and the pure
// transformations over fetched forecast data.
//
// The gateway performs the two-stage forecast fetch against a geospatial
// weather API: resolve a grid-reference document from /points/{lat},{lon},
// extract the provider-supplied forecast URL from it, then fetch the period
// list from that URL. The indirection exists because the provider's grid and
// forecast URLs are geospatially computed and not predictable client-side, so
// the client always resolves them fresh.
package forecasts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"skycast/internal/types"
)

// Doer abstracts HTTP execution for testability. Satisfied by
// external.BaseClient.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gateway fetches forecast periods and active alerts from the weather
// provider. Both operations are idempotent and stateless aside from the
// shared HTTP client configuration.
type Gateway struct {
	client  Doer
	baseURL string
	logger  types.Logger
}

// NewGateway creates a Gateway against the given provider base URL
// (no trailing slash).
func NewGateway(client Doer, baseURL string, logger types.Logger) *Gateway {
	if logger == nil {
		logger = types.NopLogger()
	}
	return &Gateway{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// pointDocument is the wire shape of the /points/{lat},{lon} response.
type pointDocument struct {
	Properties struct {
		GridID         string `json:"gridId"`
		GridX          int    `json:"gridX"`
		GridY          int    `json:"gridY"`
		Forecast       string `json:"forecast"`
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

// measuredValue is the provider's nullable quantitative value wrapper.
type measuredValue struct {
	Value *int `json:"value"`
}

// periodDocument is the wire shape of one entry in properties.periods.
type periodDocument struct {
	Number                     int           `json:"number"`
	Name                       string        `json:"name"`
	StartTime                  string        `json:"startTime"`
	EndTime                    string        `json:"endTime"`
	IsDaytime                  bool          `json:"isDaytime"`
	Temperature                *int          `json:"temperature"`
	TemperatureUnit            string        `json:"temperatureUnit"`
	TemperatureTrend           string        `json:"temperatureTrend"`
	WindSpeed                  string        `json:"windSpeed"`
	WindDirection              string        `json:"windDirection"`
	Icon                       string        `json:"icon"`
	ShortForecast              string        `json:"shortForecast"`
	DetailedForecast           string        `json:"detailedForecast"`
	ProbabilityOfPrecipitation measuredValue `json:"probabilityOfPrecipitation"`
	ChanceOfSnow               measuredValue `json:"chanceOfSnow"`
}

// forecastDocument is the wire shape of the forecast URL response.
type forecastDocument struct {
	Properties struct {
		Periods []periodDocument `json:"periods"`
	} `json:"properties"`
}

// alertFeature is the wire shape of one entry in the alerts features array.
// Geometry may be null per-feature; json.RawMessage accepts that as "no
// geometry" rather than a decode failure.
type alertFeature struct {
	ID         string          `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties struct {
		Event       string `json:"event"`
		Severity    string `json:"severity"`
		Headline    string `json:"headline"`
		AreaDesc    string `json:"areaDesc"`
		Description string `json:"description"`
		Instruction string `json:"instruction"`
		Effective   string `json:"effective"`
		Sent        string `json:"sent"`
	} `json:"properties"`
}

// alertCollection is the wire shape of the /alerts/active response.
type alertCollection struct {
	Features []alertFeature `json:"features"`
}

// FetchPeriods resolves the grid endpoint for the coordinate and fetches its
// forecast period list. The returned slice is sorted by sequence number
// ascending (which preserves provider order for well-formed payloads).
func (g *Gateway) FetchPeriods(ctx context.Context, coord types.Coordinate) ([]types.ForecastPeriod, error) {
	pointURL := fmt.Sprintf("%s/points/%s", g.baseURL, coord)
	var point pointDocument
	if err := g.getJSON(ctx, pointURL, &point); err != nil {
		return nil, err
	}

	forecastURL := point.Properties.Forecast
	if forecastURL == "" {
		return nil, types.NewAppError(
			types.ErrCodeEndpointInvalid,
			"grid document carries no forecast URL",
			nil,
		)
	}
	if _, err := url.ParseRequestURI(forecastURL); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeEndpointInvalid,
			fmt.Sprintf("provider-supplied forecast URL is malformed: %q", forecastURL),
			err,
		)
	}

	var doc forecastDocument
	if err := g.getJSON(ctx, forecastURL, &doc); err != nil {
		return nil, err
	}

	periods := make([]types.ForecastPeriod, 0, len(doc.Properties.Periods))
	for _, p := range doc.Properties.Periods {
		period, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Number < periods[j].Number
	})

	g.logger.Info("fetched forecast periods",
		"coordinate", coord.String(),
		"periods", len(periods),
	)

	return periods, nil
}

// FetchActiveAlerts fetches the active hazard alerts covering the coordinate.
// Alerts are returned in provider order, not re-sorted.
func (g *Gateway) FetchActiveAlerts(ctx context.Context, coord types.Coordinate) ([]types.AlertFeature, error) {
	alertsURL := fmt.Sprintf("%s/alerts/active?point=%s", g.baseURL, coord)
	var collection alertCollection
	if err := g.getJSON(ctx, alertsURL, &collection); err != nil {
		return nil, err
	}

	alerts := make([]types.AlertFeature, 0, len(collection.Features))
	for _, f := range collection.Features {
		alerts = append(alerts, types.AlertFeature{
			ID:          f.ID,
			Event:       f.Properties.Event,
			Severity:    f.Properties.Severity,
			Headline:    f.Properties.Headline,
			AreaDesc:    f.Properties.AreaDesc,
			Description: f.Properties.Description,
			Instruction: f.Properties.Instruction,
			Effective:   f.Properties.Effective,
			Sent:        f.Properties.Sent,
		})
	}

	g.logger.Info("fetched active alerts",
		"coordinate", coord.String(),
		"alerts", len(alerts),
	)

	return alerts, nil
}

// toDomain converts a wire period to the domain type, parsing its ISO-8601
// timestamps.
func (p periodDocument) toDomain() (types.ForecastPeriod, error) {
	start, err := time.Parse(time.RFC3339, p.StartTime)
	if err != nil {
		return types.ForecastPeriod{}, types.NewAppError(
			types.ErrCodeUpstreamDecode,
			fmt.Sprintf("period %d has unparseable start time %q", p.Number, p.StartTime),
			err,
		)
	}
	end, err := time.Parse(time.RFC3339, p.EndTime)
	if err != nil {
		return types.ForecastPeriod{}, types.NewAppError(
			types.ErrCodeUpstreamDecode,
			fmt.Sprintf("period %d has unparseable end time %q", p.Number, p.EndTime),
			err,
		)
	}

	return types.ForecastPeriod{
		Number:           p.Number,
		Name:             p.Name,
		StartTime:        start,
		EndTime:          end,
		IsDaytime:        p.IsDaytime,
		Temperature:      p.Temperature,
		TemperatureUnit:  p.TemperatureUnit,
		TemperatureTrend: p.TemperatureTrend,
		WindSpeed:        p.WindSpeed,
		WindDirection:    p.WindDirection,
		Icon:             p.Icon,
		ShortForecast:    p.ShortForecast,
		DetailedForecast: p.DetailedForecast,
		PrecipChance:     p.ProbabilityOfPrecipitation.Value,
		SnowChance:       p.ChanceOfSnow.Value,
	}, nil
}

// getJSON performs a GET against the given URL and decodes the body into out.
// URL construction failures map to ErrCodeEndpointInvalid, non-2xx statuses
// to ErrCodeUpstreamStatus, and schema mismatches to ErrCodeUpstreamDecode.
// Transport failures arrive pre-mapped from the BaseClient.
func (g *Gateway) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return types.NewAppError(
			types.ErrCodeEndpointInvalid,
			fmt.Sprintf("cannot build request for %q", rawURL),
			err,
		)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if errors.Is(err, context.Canceled) {
			return types.NewAppError(
				types.ErrCodeRequestCancelled,
				"request aborted by caller",
				err,
			)
		}
		return types.NewAppError(
			types.ErrCodeUpstreamUnreachable,
			fmt.Sprintf("request to %q failed", rawURL),
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.NewUpstreamStatusError(resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A decode failure on an aborted body is still a cancellation.
		if ctx.Err() == context.Canceled {
			return types.NewAppError(
				types.ErrCodeRequestCancelled,
				"request aborted by caller",
				err,
			)
		}
		return types.NewAppError(
			types.ErrCodeUpstreamDecode,
			"response body does not match the expected schema",
			err,
		)
	}

	return nil
}
