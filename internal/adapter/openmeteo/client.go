package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	// hourLayout is the ISO 8601 hour format Open-Meteo uses for hourly series.
	hourLayout = "2006-01-02T15:04"
	dateLayout = "2006-01-02"

	// ArchiveAge is the reading age beyond which lookups go to the
	// historical archive. The forecast API keeps about three months of past
	// hours; the archive lags real time by about five days.
	ArchiveAge = 7 * 24 * time.Hour
)

// Client implements domain.AirPressureProvider using the Open-Meteo hourly
// mean sea-level pressure series. Recent hours come from the forecast API and
// older ones from the historical archive, so delayed-mode readings still
// resolve.
type Client struct {
	httpClient  *http.Client
	forecastURL string
	archiveURL  string
	clock       clockwork.Clock
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewClient creates an Open-Meteo client for the given forecast and archive
// endpoints.
func NewClient(forecastURL, archiveURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		clock:       clockwork.NewRealClock(),
		metrics:     metrics,
		logger:      logger,
	}
}

// AirPressure returns pressure_msl in hPa (numerically mbar) for the hour
// containing at. It returns 0 with no error when the series has no value.
func (c *Client) AirPressure(ctx context.Context, lat, lon float64, at time.Time) (float64, error) {
	at = at.UTC().Truncate(time.Hour)
	hour := at.Format(hourLayout)

	start := time.Now()
	p, err := c.doRequest(ctx, c.requestURL(lat, lon, at), hour)
	c.metrics.AirPressureAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.AirPressureRequests.WithLabelValues("error").Inc()
	case p == 0:
		c.metrics.AirPressureRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.AirPressureRequests.WithLabelValues("success").Inc()
	}
	return p, err
}

// requestURL selects the endpoint by the age of at. The forecast API filters
// by hour; the archive only by date, so doRequest picks the hour out of the
// day's series.
func (c *Client) requestURL(lat, lon float64, at time.Time) string {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', 4, 64)},
		"hourly":    {"pressure_msl"},
		"timezone":  {"GMT"},
	}
	if c.clock.Since(at) > ArchiveAge {
		day := at.Format(dateLayout)
		params.Set("start_date", day)
		params.Set("end_date", day)
		return c.archiveURL + "?" + params.Encode()
	}
	hour := at.Format(hourLayout)
	params.Set("start_hour", hour)
	params.Set("end_hour", hour)
	return c.forecastURL + "?" + params.Encode()
}

func (c *Client) doRequest(ctx context.Context, fullURL, hour string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("air pressure request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var forecast response
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	for i, ts := range forecast.Hourly.Time {
		if ts != hour || i >= len(forecast.Hourly.PressureMSL) {
			continue
		}
		if v := forecast.Hourly.PressureMSL[i]; v != nil {
			return *v, nil
		}
	}
	c.logger.Debug("no air pressure for hour", "hour", hour)
	return 0, nil
}

// Open-Meteo API response types.

type response struct {
	Hourly hourly `json:"hourly"`
}

type hourly struct {
	Time        []string   `json:"time"`
	PressureMSL []*float64 `json:"pressure_msl"` // null outside model coverage
}
