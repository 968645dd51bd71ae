// Package goJWT issues, verifies and revokes signed bearer tokens for
// request-processing servers.
//
// An [Engine] is assembled once through [Builder.Build] and is safe to call
// from multiple goroutines afterwards. It composes the subpackages:
//
//   - claims: standard claim generation (jti, iss, iat, nbf, exp).
//   - payload: claim sets and the factory that fills in defaults.
//   - jwt: one signing provider per algorithm family.
//   - token: the structural check on raw token strings.
//   - blacklist: the TTL-aware revocation registry and its stores.
//
// # Architecture boundaries
//
// goJWT is the public surface: [Engine], [Builder], [Config], the [Request]
// and [Subject] contracts, metrics and audit types. Every sentinel error a
// caller may need is re-exported here so that one import suffices for
// errors.Is checks.
//
// # What this package must NOT do
//
//   - Return errors from the underlying JWT library.
//   - Write to the revocation store when the blacklist is disabled.
//   - Retry failed store or key operations; failures surface to the caller.
//
// # Configuration
//
// Configuration is layered: [DefaultConfig], then an optional YAML file
// ([LoadFile]), then JWT_* environment variables ([LoadEnv]), then explicit
// Builder overrides. [Config.Validate] runs in Build.
package goJWT
