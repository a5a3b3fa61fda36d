package config

import (
	"os"

	"ChipBook/services/redcache"

	log "github.com/sirupsen/logrus"
)

// ConnectRedis connects the report cache. Returns nil without error when
// REDIS_URL is unset; the server runs fine without the cache.
func ConnectRedis() (*redcache.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Info("REDIS_URL not set, report caching disabled")
		return nil, nil
	}

	client, err := redcache.New(redisURL, 0)
	if err != nil {
		return nil, err
	}
	log.Info("Redis connection established")
	return client, nil
}
