// Package config assembles the widget runtime from environment variables:
// which storage backend holds the snapshots, the redis cache in front of it,
// and the two remote APIs.
package config

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"widgetkit/fetch"
	"widgetkit/storage"
)

// Config carries everything needed to wire the widgets.
type Config struct {
	Debug bool

	RedisConnectionString   string
	StorageConnectionString string
	SnapshotTable           string
	CacheTTL                time.Duration

	TriviaBaseURL  string
	WeatherBaseURL string
	WeatherAPIKey  string
	HTTPTimeout    time.Duration
}

// FromEnv reads the configuration. Every field is optional: with nothing set
// the widgets run on the in-memory backend and the public API endpoints.
func FromEnv() Config {
	return Config{
		Debug:                   envBool("DEBUG", false),
		RedisConnectionString:   os.Getenv("REDIS_CONNECTION_STRING"),
		StorageConnectionString: os.Getenv("STORAGE_CONNECTION_STRING"),
		SnapshotTable:           envString("SNAPSHOT_TABLE", "widgetsnapshots"),
		CacheTTL:                envDur("CACHE_TTL", 24*time.Hour),
		TriviaBaseURL:           envString("TRIVIA_BASE_URL", fetch.DefaultTriviaBase),
		WeatherBaseURL:          envString("WEATHER_BASE_URL", fetch.DefaultWeatherBase),
		WeatherAPIKey:           os.Getenv("WEATHER_API_KEY"),
		HTTPTimeout:             envDur("HTTP_TIMEOUT", 10*time.Second),
	}
}

// ConfigureLogging applies the debug flag to the standard logger.
func (c Config) ConfigureLogging() {
	if c.Debug {
		log.SetLevel(log.DebugLevel)
	}
}

// RedisOptions parses the redis connection string, accepting either a
// redis:// URL or the "host:port,password=...,ssl=true" form Azure hands out.
func (c Config) RedisOptions() (*redis.Options, error) {
	if c.RedisConnectionString == "" {
		return nil, fmt.Errorf("redis connection string is empty")
	}
	opts, err := redis.ParseURL(c.RedisConnectionString)
	if err != nil {
		parts := strings.Split(c.RedisConnectionString, ",")
		opts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				opts.Password = kv[1]
			case "ssl":
				if strings.ToLower(kv[1]) == "true" {
					opts.TLSConfig = &tls.Config{}
				}
			}
		}
	}
	return opts, nil
}

// Backend builds the snapshot backend the configuration selects. With a
// storage connection string the Azure table holds the snapshots, with redis
// in front as a read cache when configured too. With only redis configured,
// redis itself is the durable slot and entries never expire. With neither,
// snapshots live in memory for the process lifetime.
func (c Config) Backend() (storage.Backend, error) {
	var client *redis.Client
	if c.RedisConnectionString != "" {
		opts, err := c.RedisOptions()
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	}

	if c.StorageConnectionString != "" {
		tb, err := storage.NewTableBackend(c.StorageConnectionString, c.SnapshotTable)
		if err != nil {
			return nil, fmt.Errorf("table backend: %w", err)
		}
		if client == nil {
			return tb, nil
		}
		return storage.NewCache(tb, client, c.CacheTTL), nil
	}

	if client != nil {
		return storage.NewRedisBackend(client, 0), nil
	}
	return storage.NewMemoryBackend(), nil
}

// HTTPClient builds the shared client for the remote fetchers.
func (c Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.HTTPTimeout}
}

func envString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envBool(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDur(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warnf("invalid %s %q, using %s", name, v, def)
		return def
	}
	return d
}
