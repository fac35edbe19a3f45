package database

import (
	"fmt"

	"msp/config"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization.
const (
	// PROGRESS_CACHE_INDEX (DB 0) - shared progress records so any replica
	// can serve the polling endpoint.
	PROGRESS_CACHE_INDEX = iota
)

// Cache holds the optional valkey clients. A deployment without a cache
// address runs single-instance with the in-memory progress store instead.
type Cache struct {
	Progress valkey.Client
	log      logger.Logger
}

// New connects to valkey when configured. Missing cache config is not an
// error: it selects the in-memory fallback.
func New(cfg config.Config) (*Cache, error) {
	log := logger.New("database").File("cache.database")

	if cfg.CacheAddress == "" || cfg.CachePort == 0 {
		log.Info("cache not configured, using in-memory progress store")
		return nil, nil
	}

	log.Info("initializing cache database", "address", cfg.CacheAddress, "port", cfg.CachePort)

	client, err := valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", cfg.CacheAddress, cfg.CachePort)},
			SelectDB:    PROGRESS_CACHE_INDEX,
		},
	)
	if err != nil {
		return nil, log.Err("failed to create progress valkey client", err)
	}

	return &Cache{
		Progress: client,
		log:      log,
	}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	if c.Progress != nil {
		c.Progress.Close()
	}
	return nil
}
