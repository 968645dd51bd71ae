// Package clock provides the UTC time arithmetic used for claim timestamps
// and revocation TTLs.
package clock

import "time"

// Source yields the current instant. Production code uses [System]; tests
// substitute a fixed or manually advanced source.
type Source interface {
	Now() time.Time
}

// SourceFunc adapts a plain function to [Source].
type SourceFunc func() time.Time

// Now implements [Source].
func (f SourceFunc) Now() time.Time { return f() }

// System reads the wall clock.
var System Source = SourceFunc(time.Now)

// Time is a UTC instant with the conversions claims and TTLs need.
// The zero value is the Unix epoch.
type Time struct {
	t time.Time
}

// Now returns the current UTC time according to src. A nil src falls back
// to [System].
func Now(src Source) Time {
	if src == nil {
		src = System
	}
	return Time{t: src.Now().UTC()}
}

// From wraps t, converting it to UTC.
func From(t time.Time) Time {
	return Time{t: t.UTC()}
}

// FromSeconds converts an epoch-seconds value, as stored in numeric date
// claims, to a Time.
func FromSeconds(sec int64) Time {
	return Time{t: time.Unix(sec, 0).UTC()}
}

// AddMinutes returns t shifted by the given number of minutes.
func (t Time) AddMinutes(minutes int) Time {
	return Time{t: t.t.Add(time.Duration(minutes) * time.Minute)}
}

// AddYears returns t shifted by the given number of calendar years.
func (t Time) AddYears(years int) Time {
	return Time{t: t.t.AddDate(years, 0, 0)}
}

// Seconds returns t as Unix epoch seconds.
func (t Time) Seconds() int64 {
	return t.t.Unix()
}

// Milliseconds returns t as Unix epoch milliseconds.
func (t Time) Milliseconds() int64 {
	return t.t.UnixMilli()
}

// Sub returns the duration t-u.
func (t Time) Sub(u Time) time.Duration {
	return t.t.Sub(u.t)
}

// Time returns the underlying time.Time.
func (t Time) Time() time.Time {
	return t.t
}
