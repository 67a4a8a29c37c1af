package config

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup probe so a dead Redis host cannot
// stall boot.
const redisPingTimeout = 2 * time.Second

// NewRedisClient builds a Redis client from environment variables and probes
// it once.  Redis backs the shared token revocation set, login rate limiting
// and response caching; all three degrade gracefully, so a failed probe
// returns nil instead of an error and the caller runs without Redis.
//
// Recognized variables:
//
//	REDIS_ADDR     – host:port shorthand
//	REDIS_HOST and REDIS_PORT – override REDIS_ADDR when both are set
//	REDIS_PASSWORD – optional password
//	REDIS_DB       – database number (default 0)
//	REDIS_TLS      – enable TLS when truthy
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	host := envStr("REDIS_HOST", "")
	port := envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		addr = host + ":" + port
	}

	var tlsConf *tls.Config
	if envBool("REDIS_TLS", false) {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: ping %s failed: %v", addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
