package auth

// The revocation set is deliberately an interface so its backing store can
// change without touching callers.  The in-process default forgets revoked
// tokens on restart, which is an accepted limitation: tokens become valid
// again after a redeploy.  Pointing the gate at Redis closes that gap and
// shares the set across replicas.

import (
    "context"
    "crypto/sha256"
    "encoding/hex"
    "log"
    "time"

    gocache "github.com/patrickmn/go-cache"
    "github.com/redis/go-redis/v9"
)

// RevocationStore records tokens invalidated before their natural expiry.
type RevocationStore interface {
    Add(token string)
    Contains(token string) bool
}

// MemoryRevocations is the in-process default.  Entries never expire; token
// validity itself is time-bounded only when the gate is configured with a
// TTL.
type MemoryRevocations struct{ c *gocache.Cache }

// NewMemoryRevocations builds an in-process store.  The janitor interval is
// zero because nothing ever expires.
func NewMemoryRevocations() *MemoryRevocations {
    return &MemoryRevocations{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryRevocations) Add(token string) {
    m.c.Set(revocationKey(token), struct{}{}, gocache.NoExpiration)
}

func (m *MemoryRevocations) Contains(token string) bool {
    _, ok := m.c.Get(revocationKey(token))
    return ok
}

// RedisRevocations shares the revocation set across processes.  Lookups that
// fail (Redis down, timeout) are logged and treated as not revoked so an
// unreachable Redis does not lock every caller out.
type RedisRevocations struct {
    rdb    *redis.Client
    prefix string
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
    return &RedisRevocations{rdb: rdb, prefix: "revoked:"}
}

func (r *RedisRevocations) Add(token string) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := r.rdb.Set(ctx, r.prefix+revocationKey(token), 1, 0).Err(); err != nil {
        log.Printf("auth: redis revocation add failed: %v", err)
    }
}

func (r *RedisRevocations) Contains(token string) bool {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    n, err := r.rdb.Exists(ctx, r.prefix+revocationKey(token)).Result()
    if err != nil {
        log.Printf("auth: redis revocation lookup failed: %v", err)
        return false
    }
    return n > 0
}

// revocationKey hashes the token so keys stay short and the raw bearer value
// never lands in the store.
func revocationKey(token string) string {
    sum := sha256.Sum256([]byte(token))
    return hex.EncodeToString(sum[:])
}
