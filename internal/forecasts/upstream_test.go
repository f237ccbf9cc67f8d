package forecasts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/types"
)

var gatewayCoord = types.Coordinate{Lat: 39.90, Lon: -75.17}

const forecastBody = `{
	"properties": {
		"periods": [
			{
				"number": 1,
				"name": "Today",
				"startTime": "2026-08-25T06:00:00-04:00",
				"endTime": "2026-08-25T18:00:00-04:00",
				"isDaytime": true,
				"temperature": 88,
				"temperatureUnit": "F",
				"windSpeed": "10 mph",
				"windDirection": "SW",
				"shortForecast": "Sunny",
				"detailedForecast": "Sunny, with a high near 88.",
				"probabilityOfPrecipitation": {"value": 20}
			},
			{
				"number": 2,
				"name": "Tonight",
				"startTime": "2026-08-25T18:00:00-04:00",
				"endTime": "2026-08-26T06:00:00-04:00",
				"isDaytime": false,
				"temperature": 68,
				"temperatureUnit": "F",
				"shortForecast": "Mostly Clear",
				"probabilityOfPrecipitation": {"value": null}
			}
		]
	}
}`

const alertsBody = `{
	"features": [
		{
			"id": "https://api.weather.gov/alerts/urn:oid:2.49.0.1.840.0.1",
			"geometry": null,
			"properties": {
				"event": "Flood Warning",
				"severity": "Severe",
				"headline": "Flood Warning issued for the Schuylkill River",
				"areaDesc": "Philadelphia, PA",
				"effective": "2026-08-25T09:00:00-04:00",
				"sent": "2026-08-25T08:55:00-04:00"
			}
		},
		{
			"id": "https://api.weather.gov/alerts/urn:oid:2.49.0.1.840.0.2",
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,1],[2,2],[0,0]]]},
			"properties": {
				"event": "Heat Advisory",
				"severity": "Moderate"
			}
		}
	]
}`

// newProviderServer stands in for the weather API, serving the two-stage
// points/forecast documents and the alerts collection.
func newProviderServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/points/39.9000,-75.1700", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"properties": {"gridId": "PHI", "gridX": 49, "gridY": 75, "forecast": %q}}`,
			srv.URL+"/gridpoints/PHI/49,75/forecast")
	})
	mux.HandleFunc("/gridpoints/PHI/49,75/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, forecastBody)
	})
	mux.HandleFunc("/alerts/active", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("point") != "39.9000,-75.1700" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, alertsBody)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGateway_FetchPeriods(t *testing.T) {
	srv := newProviderServer(t)
	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())

	periods, err := gw.FetchPeriods(context.Background(), gatewayCoord)
	require.NoError(t, err)
	require.Len(t, periods, 2)

	today := periods[0]
	assert.Equal(t, 1, today.Number)
	assert.Equal(t, "Today", today.Name)
	assert.True(t, today.IsDaytime)
	require.NotNil(t, today.Temperature)
	assert.Equal(t, 88, *today.Temperature)
	assert.Equal(t, "F", today.TemperatureUnit)
	require.NotNil(t, today.PrecipChance)
	assert.Equal(t, 20, *today.PrecipChance)
	assert.Equal(t, "Sunny", today.ShortForecast)

	tonight := periods[1]
	assert.False(t, tonight.IsDaytime)
	assert.Nil(t, tonight.PrecipChance, "null precipitation value must decode as absent")
	assert.True(t, today.StartTime.Before(tonight.StartTime))
}

func TestGateway_FetchPeriods_MissingForecastURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"properties": {"gridId": "PHI"}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())
	_, err := gw.FetchPeriods(context.Background(), gatewayCoord)

	require.Error(t, err)
	assert.True(t, types.IsInvalidEndpoint(err), "missing forecast URL should map to endpoint_invalid, got %v", err)
}

func TestGateway_FetchPeriods_UpstreamStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())
	_, err := gw.FetchPeriods(context.Background(), gatewayCoord)

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeUpstreamStatus, types.CodeOf(err))
	assert.Equal(t, http.StatusServiceUnavailable, types.StatusOf(err))
}

func TestGateway_FetchPeriods_DecodeError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())
	_, err := gw.FetchPeriods(context.Background(), gatewayCoord)

	require.Error(t, err)
	assert.True(t, types.IsDecodeError(err), "malformed body should map to upstream_decode, got %v", err)
}

func TestGateway_FetchPeriods_BadTimestamp(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"properties": {"forecast": %q}}`, srv.URL+"/forecast")
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"properties": {"periods": [{"number": 1, "name": "Today", "startTime": "yesterday", "endTime": "later", "isDaytime": true}]}}`)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())
	_, err := gw.FetchPeriods(context.Background(), gatewayCoord)

	require.Error(t, err)
	assert.True(t, types.IsDecodeError(err))
}

func TestGateway_FetchPeriods_Cancelled(t *testing.T) {
	srv := newProviderServer(t)
	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.FetchPeriods(ctx, gatewayCoord)
	require.Error(t, err)
	assert.True(t, types.IsCancelled(err), "caller abort must classify as cancelled, got %v", err)
}

func TestGateway_FetchActiveAlerts(t *testing.T) {
	srv := newProviderServer(t)
	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())

	alerts, err := gw.FetchActiveAlerts(context.Background(), gatewayCoord)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	flood := alerts[0]
	assert.Equal(t, "https://api.weather.gov/alerts/urn:oid:2.49.0.1.840.0.1", flood.ID)
	assert.Equal(t, "Flood Warning", flood.Event)
	assert.Equal(t, types.SeveritySevere, flood.Severity)
	assert.Equal(t, "Philadelphia, PA", flood.AreaDesc)
	assert.Equal(t, "2026-08-25T09:00:00-04:00", flood.Effective)

	// Provider order is preserved, never re-sorted.
	assert.Equal(t, "Heat Advisory", alerts[1].Event)
}

func TestGateway_FetchActiveAlerts_EmptyCollection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts/active", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features": []}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw := NewGateway(srv.Client(), srv.URL, types.NopLogger())
	alerts, err := gw.FetchActiveAlerts(context.Background(), gatewayCoord)

	require.NoError(t, err)
	assert.Empty(t, alerts)
}
