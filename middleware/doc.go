// Package middleware adapts goJWT.Engine to net/http.
//
//   - [Guard]: rejects requests without a valid, unrevoked bearer token.
//   - [Optional]: attaches the payload when present, never rejects.
//   - [Revoke]: a logout handler calling Engine.Invalidate.
//
// Verified payloads are retrieved with [PayloadFromContext].
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Access the revocation store.
//   - Reveal why a token was rejected in the response body.
package middleware
