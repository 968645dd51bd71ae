// Package claims generates the standard JWT claims and holds them in an
// ordered [Set].
//
// Claim generation is table driven: each [Kind] maps to a pure function of
// the request origin, the clock and a random source. Kinds absent from the
// table fail with [ErrUnresolvableClaim].
package claims
