// Package config loads application configuration from a
// ".env"-style file with environment-variable overrides, producing a
// typed Config the rest of the application can read without ever
// touching os.Getenv directly.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Config is the top-level application configuration.
type Config struct {
	DatasetPath    string
	BuildThreads   int
	WebRoot        string
	SchedIntervalS int
	SchedEnabled   bool
	Logging        LoggingConfig

	Indexer  IndexerConfig
	Server   ServerConfig
	Metrics  MetricsConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Postgres PostgresConfig
}

// LoggingConfig controls structured logging level, format, and sink.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// IndexerConfig controls shard count for the inverted index.
type IndexerConfig struct {
	ShardCount int
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// MetricsConfig controls the Prometheus metrics listener.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// RedisConfig holds the optional search-result cache connection.
// Addr empty disables the cache entirely.
type RedisConfig struct {
	Addr        string
	CacheTTLSec int
}

// KafkaConfig holds the optional build-event publisher connection.
// Brokers empty disables publishing entirely.
type KafkaConfig struct {
	Brokers          []string
	BuildEventsTopic string
}

// PostgresConfig holds the optional build-history audit log connection.
// DSN empty disables the audit log entirely.
type PostgresConfig struct {
	DSN string
}

// defaultConfig returns a Config with sensible defaults for local runs.
func defaultConfig() *Config {
	return &Config{
		DatasetPath:    "",
		BuildThreads:   4,
		WebRoot:        "web",
		SchedIntervalS: 30,
		SchedEnabled:   false,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Indexer: IndexerConfig{ShardCount: 64},
		Server:  ServerConfig{Addr: ":8080"},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9090"},
		Redis:   RedisConfig{Addr: "", CacheTTLSec: 30},
		Kafka:   KafkaConfig{Brokers: nil, BuildEventsTopic: "minisearch.build.events"},
	}
}

// source is a parsed ".env" file with environment-variable override on
// lookup, mirroring the loader this configuration format was ported
// from: an environment variable always takes precedence over the same
// upper-cased key in the file.
type source struct {
	kv map[string]string
}

func newSource() *source {
	return &source{kv: make(map[string]string)}
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func (s *source) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		// Matches the original loader: a missing file is not an error,
		// it just leaves the source empty.
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := trim(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := trim(line[:eq])
		val := trim(line[eq+1:])
		if key == "" {
			continue
		}
		val = stripQuotes(val)
		s.kv[strings.ToUpper(key)] = val
	}
	return scanner.Err()
}

func stripQuotes(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func (s *source) getString(key, def string) string {
	k := strings.ToUpper(key)
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	if v, ok := s.kv[k]; ok {
		return v
	}
	return def
}

func (s *source) getInt(key string, def int) int {
	v := s.getString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *source) getBool(key string, def bool) bool {
	v := strings.ToLower(s.getString(key, ""))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Load reads path (a ".env"-style file; a missing path is not an
// error) and layers environment-variable overrides on top, returning a
// fully populated Config. CLI flags are applied by the caller after
// Load returns — see overlayFlags in cmd/minisearchd — so that an explicitly-passed
// flag always wins over both the file and the environment.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	src := newSource()
	if path != "" {
		if err := src.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DatasetPath = src.getString("DATASET_PATH", cfg.DatasetPath)
	cfg.BuildThreads = src.getInt("BUILD_THREADS", cfg.BuildThreads)
	cfg.WebRoot = src.getString("WEB_ROOT", cfg.WebRoot)
	cfg.SchedIntervalS = src.getInt("SCHED_INTERVAL_S", cfg.SchedIntervalS)
	cfg.SchedEnabled = src.getBool("SCHED_ENABLED", cfg.SchedEnabled)
	cfg.Logging.Level = src.getString("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.File = src.getString("LOG_FILE", cfg.Logging.File)

	cfg.Indexer.ShardCount = src.getInt("SHARD_COUNT", cfg.Indexer.ShardCount)
	cfg.Server.Addr = src.getString("SERVER_ADDR", cfg.Server.Addr)
	cfg.Metrics.Enabled = src.getBool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Addr = src.getString("METRICS_ADDR", cfg.Metrics.Addr)
	cfg.Redis.Addr = src.getString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.CacheTTLSec = src.getInt("REDIS_CACHE_TTL_S", cfg.Redis.CacheTTLSec)
	if brokers := src.getString("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.BuildEventsTopic = src.getString("KAFKA_BUILD_EVENTS_TOPIC", cfg.Kafka.BuildEventsTopic)
	cfg.Postgres.DSN = src.getString("POSTGRES_DSN", cfg.Postgres.DSN)

	return cfg, nil
}
