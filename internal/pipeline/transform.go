package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/oxygen-conversion-service/internal/domain"
)

// OxygenTransformer implements Transformer using the domain conversion
// functions with optional air pressure enrichment.
type OxygenTransformer struct {
	provider domain.AirPressureProvider
	opts     domain.ConvertOptions
	logger   *slog.Logger
}

// NewTransformer creates an OxygenTransformer. Pass a nil provider to disable
// air pressure enrichment.
func NewTransformer(provider domain.AirPressureProvider, opts domain.ConvertOptions, logger *slog.Logger) *OxygenTransformer {
	return &OxygenTransformer{
		provider: provider,
		opts:     opts,
		logger:   logger,
	}
}

func (t *OxygenTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OxygenRecord, error) {
	reading, err := domain.ParseRawReading(raw)
	if err != nil {
		return domain.OxygenRecord{}, err
	}

	reading = domain.EnrichWithAirPressure(ctx, reading, t.provider, t.logger)

	return domain.ConvertReading(reading, t.opts)
}
