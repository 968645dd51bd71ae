// Package jwt signs payloads into compact JWS tokens and verifies them back,
// for exactly one algorithm chosen at construction time.
//
// # Algorithm families
//
//   - none: unsigned tokens, header.payload. with an empty signature.
//   - symmetric: HS256, HS384, HS512 with a shared secret.
//   - asymmetric: RS*, ES*, PS* with a PEM key pair read from disk.
//
// [NewProvider] rejects unsupported algorithms and missing key material
// once, up front. Verification is pinned to the configured algorithm: a
// token signed with any other algorithm is rejected even when the key
// material would verify it.
//
// # Errors
//
// Every signature, header or claim-structure failure is reported as
// [ErrInvalidToken]; an elapsed exp claim as [ErrTokenExpired]. Errors from
// the underlying golang-jwt library are never returned.
package jwt
