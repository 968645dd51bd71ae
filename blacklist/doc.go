// Package blacklist records revoked tokens by their jti claim so they are
// rejected even while their signature is still valid.
//
// A [Registry] is constructed once per deployment with an explicit [Store].
// Entries self-expire: a standard revocation lives until the token's own
// exp claim, a permanent one for ten years.
//
// # Stores
//
//   - [RedisStore]: shared across processes, backed by go-redis.
//   - [MemoryStore]: single process, backed by ristretto.
//
// A non-positive TTL never produces an entry. Redis would otherwise keep a
// key without expiry and ristretto would treat it as "no TTL".
package blacklist
