package bitvec

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	clientMu    sync.RWMutex
	redisClient redis.UniversalClient
)

// RedisConnOptions holds the settings used by MakeRedisClient.
type RedisConnOptions struct {
	DB                int
	Network           string
	Address           string
	Username          string
	Password          string
	ConnectionTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	PoolSize          int
	TLSConfig         *tls.Config
}

func getRedisClient() (redis.UniversalClient, error) {
	clientMu.RLock()
	defer clientMu.RUnlock()
	if redisClient == nil {
		return nil, fmt.Errorf("bitvec: redis client is not configured, call MakeRedisClient first")
	}
	return redisClient, nil
}

// MakeRedisClient creates the redis client used by every redis backed
// structure. A previously configured client is closed.
func MakeRedisClient(options RedisConnOptions) {
	SetRedisClient(redis.NewClient(&redis.Options{
		DB:           options.DB,
		Network:      options.Network,
		Addr:         options.Address,
		Username:     options.Username,
		Password:     options.Password,
		DialTimeout:  options.ConnectionTimeout,
		ReadTimeout:  options.ReadTimeout,
		WriteTimeout: options.WriteTimeout,
		PoolSize:     options.PoolSize,
		TLSConfig:    options.TLSConfig,
	}))
}

// SetRedisClient installs an already built client, e.g. a cluster client.
// A previously configured client is closed.
func SetRedisClient(client redis.UniversalClient) {
	clientMu.Lock()
	defer clientMu.Unlock()
	if redisClient != nil && redisClient != client {
		_ = redisClient.Close()
	}
	redisClient = client
}

// ParseRedisURI parses a redis:// or rediss:// uri into RedisConnOptions.
func ParseRedisURI(uri string) (*RedisConnOptions, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("bitvec: could not parse redis uri: %w", err)
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("bitvec: unsupported uri scheme %q", u.Scheme)
	}
	options, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("bitvec: error while parsing redis uri: %w", err)
	}
	return makeConnOptions(options), nil
}

func makeConnOptions(options *redis.Options) *RedisConnOptions {
	return &RedisConnOptions{
		DB:                options.DB,
		Network:           options.Network,
		Address:           options.Addr,
		Username:          options.Username,
		Password:          options.Password,
		ConnectionTimeout: options.DialTimeout,
		ReadTimeout:       options.ReadTimeout,
		WriteTimeout:      options.WriteTimeout,
		PoolSize:          options.PoolSize,
		TLSConfig:         options.TLSConfig,
	}
}
