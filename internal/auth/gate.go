package auth // package auth issues, verifies and revokes bearer tokens

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/arkanhadi/lapor-siaga/internal/model"
)

// ErrInvalidToken is returned by Verify for malformed or badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// ErrRevokedToken is returned by Verify when the token has been logged out.
// A revoked token never becomes valid again for the lifetime of the process,
// regardless of its signature.
var ErrRevokedToken = errors.New("token revoked")

// Gate is the single authority for bearer tokens.  It signs HS256 JWTs
// encoding the principal's identity and role claims and checks presented
// tokens against the revocation store before trusting their signature.
type Gate struct {
    secret  []byte
    ttl     time.Duration   // 0 means tokens carry no exp claim
    revoked RevocationStore
}

// NewGate constructs a Gate.  ttlMin of 0 issues non-expiring tokens; the
// revocation store is then the only invalidation mechanism.
func NewGate(secret string, ttlMin int, revoked RevocationStore) *Gate {
    return &Gate{
        secret:  []byte(secret),
        ttl:     time.Duration(ttlMin) * time.Minute,
        revoked: revoked,
    }
}

// Issue deterministically encodes the principal's identity and role claims
// into a signed token.  It has no side effects.
func (g *Gate) Issue(p model.Principal) (string, error) {
    claims := jwt.MapClaims{
        "sub":      p.ID,
        "is_admin": p.IsAdmin,
        "iat":      time.Now().UTC().Unix(),
    }
    if p.Role != "" {
        claims["role"] = p.Role
    }
    if g.ttl > 0 {
        claims["exp"] = time.Now().UTC().Add(g.ttl).Unix()
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString(g.secret)
}

// Verify checks the revocation set first, then the signature, and returns
// the principal the token encodes.  It never mutates state.  The returned
// principal carries no display name; callers load profile data from the
// database when they need it.
func (g *Gate) Verify(token string) (model.Principal, error) {
    if g.revoked.Contains(token) {
        return model.Principal{}, ErrRevokedToken
    }
    tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return g.secret, nil
    })
    if err != nil || !tok.Valid {
        return model.Principal{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return model.Principal{}, ErrInvalidToken
    }
    sub, ok := claims["sub"].(float64)
    if !ok || sub <= 0 {
        return model.Principal{}, ErrInvalidToken
    }
    p := model.Principal{ID: uint64(sub)}
    if v, ok := claims["is_admin"].(bool); ok {
        p.IsAdmin = v
    }
    if v, ok := claims["role"].(string); ok {
        p.Role = v
    }
    return p, nil
}

// Revoke idempotently adds the token to the revocation set.  Clearing the
// caller's device registration on admin logout is composed at the handler,
// which knows who the caller is.
func (g *Gate) Revoke(token string) {
    g.revoked.Add(token)
}
