package victoriametrics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/domain"
)

// MetricPrefix names the measurement written for every record.
const MetricPrefix = "oxygen"

// Writer inserts converted records into VictoriaMetrics as time series.
// It implements pipeline.BatchLoader.
type Writer struct {
	logger    *slog.Logger
	httpCli   *http.Client
	insertURL string
	recToText recToTextFunc
}

// NewWriter creates a writer for insertURL. The URL path selects the
// protocol: the Influx line protocol endpoints or /api/v1/import/csv.
func NewWriter(insertURL string, logger *slog.Logger) (*Writer, error) {
	u, err := url.Parse(insertURL)
	if err != nil {
		return nil, fmt.Errorf("parse VM insert URL: %w", err)
	}

	recToText := recToTextFuncs[u.Path]
	if recToText == nil {
		return nil, fmt.Errorf("inserting into %q is not supported", insertURL)
	}
	if params := apiParamsFuncs[u.Path]; params != nil {
		q := u.Query()
		for name, value := range params() {
			q.Set(name, value)
		}
		u.RawQuery = q.Encode()
	}

	return &Writer{
		logger: logger,
		httpCli: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		insertURL: u.String(),
		recToText: recToText,
	}, nil
}

// LoadBatch posts the records in one request. Any status other than
// 204 No Content is an error so the pipeline retries the batch.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.OxygenRecord) error {
	if len(records) == 0 {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.insertURL, recsToText(records, w.recToText))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	res, err := w.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("post %d records: %w", len(records), err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("victoriametrics: unexpected status %d: %s", res.StatusCode, body)
	}
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		w.logger.Warn("failed to drain response body", "error", err)
	}
	w.logger.Debug("records inserted", "count", len(records))
	return nil
}

// Close releases idle connections.
func (w *Writer) Close() error {
	w.httpCli.CloseIdleConnections()
	return nil
}

type apiParamsFunc func() map[string]string

var apiParamsFuncs = map[string]apiParamsFunc{
	"/api/v1/import/csv": csvAPIParams,
}

func csvAPIParams() map[string]string {
	return map[string]string{
		"format": fmt.Sprintf(""+
			"1:time:unix_ms,"+
			"2:label:platform,"+
			"3:label:cycle,"+
			"4:label:level_dbar,"+
			"5:label:regime,"+
			"6:metric:%[1]s_concentration_umol_l,"+
			"7:metric:%[1]s_concentration_umol_kg,"+
			"8:metric:%[1]s_partial_pressure_mbar,"+
			"9:metric:%[1]s_saturation_percent,"+
			"10:metric:%[1]s_solubility_umol_l,"+
			"11:metric:%[1]s_pressure_dbar", MetricPrefix),
	}
}

type recToTextFunc func(*strings.Builder, *domain.OxygenRecord)

func recsToText(recs []domain.OxygenRecord, recToText recToTextFunc) io.Reader {
	var sb strings.Builder
	for i := range recs {
		recToText(&sb, &recs[i])
		sb.WriteByte('\n')
	}
	return strings.NewReader(sb.String())
}

var recToTextFuncs = map[string]recToTextFunc{
	"/influx/write":        recToInflux,
	"/influx/api/v2/write": recToInflux,
	"/write":               recToInflux,
	"/api/v2/write":        recToInflux,
	"/api/v1/import/csv":   recToCSV,
}

const influxFieldsFmt = "concentration_umol_l=%g,concentration_ml_l=%g,concentration_umol_kg=%g," +
	"partial_pressure_mbar=%g,saturation_percent=%g,solubility_umol_l=%g," +
	"pressure_dbar=%g,temperature_c=%g,salinity_psu=%g"

// levelLabel rounds a sample pressure to 0.1 dbar. Levels of one profile
// share a timestamp, so cycle and level keep their series apart.
func levelLabel(pressure float64) string {
	return strconv.FormatFloat(math.Round(pressure*10)/10, 'f', -1, 64)
}

// recToInflux appends r in Influx line protocol with a nanosecond timestamp.
func recToInflux(sb *strings.Builder, r *domain.OxygenRecord) {
	sb.WriteString(MetricPrefix)
	writeTag(sb, "platform", r.Platform)
	writeTag(sb, "cycle", strconv.Itoa(r.Cycle))
	writeTag(sb, "level_dbar", levelLabel(r.Pressure))
	writeTag(sb, "regime", r.Regime)
	writeTag(sb, "air_pressure_source", r.AirPressureSource)
	sb.WriteByte(' ')
	fmt.Fprintf(sb, influxFieldsFmt,
		r.Oxygen.ConcentrationUmolL,
		r.Oxygen.ConcentrationMLL,
		r.Oxygen.ConcentrationUmolKg,
		r.Oxygen.PartialPressureMbar,
		r.Oxygen.SaturationPercent,
		r.Oxygen.SolubilityUmolL,
		r.Pressure,
		r.Temperature,
		r.Salinity,
	)
	fmt.Fprintf(sb, " %d", r.Time.UnixNano())
}

func recToCSV(sb *strings.Builder, r *domain.OxygenRecord) {
	fmt.Fprintf(sb, "%d,%s,%d,%s,%s,%g,%g,%g,%g,%g,%g",
		r.Time.UnixMilli(),
		csvEscaper.Replace(r.Platform),
		r.Cycle,
		levelLabel(r.Pressure),
		r.Regime,
		r.Oxygen.ConcentrationUmolL,
		r.Oxygen.ConcentrationUmolKg,
		r.Oxygen.PartialPressureMbar,
		r.Oxygen.SaturationPercent,
		r.Oxygen.SolubilityUmolL,
		r.Pressure,
	)
}

var (
	tagEscaper = strings.NewReplacer(",", `\,`, "=", `\=`, " ", `\ `)
	csvEscaper = strings.NewReplacer(",", "_", "\n", "_")
)

// writeTag skips empty values, which line protocol does not allow.
func writeTag(sb *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	sb.WriteByte(',')
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(tagEscaper.Replace(value))
}
