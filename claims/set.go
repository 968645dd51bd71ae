package claims

import (
	"bytes"
	"encoding/json"
	"math"
)

// Set is an ordered mapping of claim name to value. Names are unique;
// re-adding a name replaces its value but keeps its original position.
// The zero value is an empty, usable set.
type Set struct {
	keys   []string
	values map[string]any
}

// NewSet returns an empty set with room for n claims.
func NewSet(n int) *Set {
	return &Set{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Add stores value under name and returns the set for chaining. Numeric
// values are normalised so that claims compare equal before encoding and
// after decoding.
func (s *Set) Add(name string, value any) *Set {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = Normalize(value)
	return s
}

// Get returns the value stored under name.
func (s *Set) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Len returns the number of claims.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns claim names in insertion order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// ToMap converts the set to a plain map. The result is a copy.
func (s *Set) ToMap() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for _, k := range s.keys {
		out[k] = s.values[k]
	}
	return out
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	out := NewSet(s.Len())
	if s == nil {
		return out
	}
	for _, k := range s.keys {
		out.keys = append(out.keys, k)
		out.values[k] = s.values[k]
	}
	return out
}

// MarshalJSON encodes the set as a JSON object in insertion order.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Normalize maps every integer kind to int64 and every json.Number or
// float to int64 when it is integral, float64 otherwise. Other values are
// returned unchanged.
func Normalize(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		if uint64(v) > math.MaxInt64 {
			return float64(v)
		}
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return float64(v)
		}
		return int64(v)
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return normalizeFloat(f)
		}
		return v.String()
	default:
		return value
	}
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}
