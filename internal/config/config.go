package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDatabaseURL  = "filebox.db"
	defaultPort         = "8080"
	defaultStorageDir   = "./data/blobs"
	defaultCacheDir     = "./data/cache"
	defaultQueueDir     = "./data/queue"
	defaultSessionTTL   = "24h"
	defaultPollInterval = "1s"
	defaultMaxAttempts  = "3"
)

// Config holds everything the service reads from the environment. The
// thumbnail worker runs inside the api process and shares the queue and
// storage settings, so it sees the exact blobs and jobs the api produced.
type Config struct {
	DatabaseURL        string
	Port               string
	StorageDir         string
	CacheDir           string
	QueueDir           string
	SessionTTL         time.Duration
	WorkerPollInterval time.Duration
	WorkerMaxAttempts  int
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL)),
		Port:        strings.TrimSpace(getEnv("PORT", defaultPort)),
		StorageDir:  strings.TrimSpace(getEnv("STORAGE_DIR", defaultStorageDir)),
		CacheDir:    strings.TrimSpace(getEnv("CACHE_DIR", defaultCacheDir)),
		QueueDir:    strings.TrimSpace(getEnv("QUEUE_DIR", defaultQueueDir)),
	}

	var err error
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}

	cfg.WorkerPollInterval, err = parseDurationEnv("WORKER_POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		return nil, err
	}

	cfg.WorkerMaxAttempts, err = parseIntEnv("WORKER_MAX_ATTEMPTS", defaultMaxAttempts)
	if err != nil {
		return nil, err
	}
	if cfg.WorkerMaxAttempts < 1 {
		return nil, fmt.Errorf("WORKER_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %q", key, raw)
	}
	return d, nil
}

func parseIntEnv(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer in %s: %q", key, raw)
	}
	return n, nil
}
