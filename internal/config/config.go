package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Sink names accepted by SINK.
const (
	SinkKafka           = "kafka"
	SinkVictoriaMetrics = "victoriametrics"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Sink selects where converted records go: "kafka" or "victoriametrics".
	Sink        string
	VMInsertURL string

	// Conversion settings.
	DefaultAirPressure float64
	StrictRanges       bool

	// Open-Meteo air pressure lookup.
	OpenMeteoEnabled    bool
	OpenMeteoURL        string
	OpenMeteoArchiveURL string
	OpenMeteoTimeout    time.Duration
	OpenMeteoCacheSize  int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	openMeteoTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OPENMETEO_TIMEOUT", "5s"))
	if err != nil || openMeteoTimeout <= 0 {
		return nil, errors.New("invalid OPENMETEO_TIMEOUT")
	}

	airPressure, err := parseAirPressure()
	if err != nil {
		return nil, err
	}

	strict, err := parseBool("STRICT_RANGES", true)
	if err != nil {
		return nil, err
	}

	openMeteoEnabled, err := parseBool("OPENMETEO_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-oxygen-readings"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "converted-oxygen-readings"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "oxygen-conversion"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		Sink:        sharedcfg.EnvOrDefault("SINK", SinkKafka),
		VMInsertURL: os.Getenv("VM_INSERT_URL"),

		DefaultAirPressure: airPressure,
		StrictRanges:       strict,

		OpenMeteoEnabled:    openMeteoEnabled,
		OpenMeteoURL:        sharedcfg.EnvOrDefault("OPENMETEO_URL", "https://api.open-meteo.com/v1/forecast"),
		OpenMeteoArchiveURL: sharedcfg.EnvOrDefault("OPENMETEO_ARCHIVE_URL", "https://archive-api.open-meteo.com/v1/archive"),
		OpenMeteoTimeout:    openMeteoTimeout,
		OpenMeteoCacheSize:  parseOpenMeteoCacheSize(),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	switch cfg.Sink {
	case SinkKafka:
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	case SinkVictoriaMetrics:
		if cfg.VMInsertURL == "" {
			return nil, errors.New("SINK is victoriametrics but VM_INSERT_URL is not set")
		}
	default:
		return nil, fmt.Errorf("invalid SINK %q", cfg.Sink)
	}

	return cfg, nil
}

func parseAirPressure() (float64, error) {
	s := sharedcfg.EnvOrDefault("DEFAULT_AIR_PRESSURE", "1013.25")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 500 || v > 1100 {
		return 0, fmt.Errorf("invalid DEFAULT_AIR_PRESSURE %q: want mbar in [500, 1100]", s)
	}
	return v, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func parseOpenMeteoCacheSize() int {
	if s := os.Getenv("OPENMETEO_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
