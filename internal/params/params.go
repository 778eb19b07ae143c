// Package params holds the tunable values the UI pushes into the active
// simulation.
//
// Keys are flat ("pointSize") or one level deep ("rotationSpeeds.xw"). Values
// are numbers or booleans. A [Store] is written by the UI; each frame the host
// takes a [Snapshot] and hands it to the simulation.
package params

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInvalidKey indicates an empty key, an empty path segment, or more
	// than one level of nesting.
	ErrInvalidKey = errors.New("params: invalid key")

	// ErrUnsupportedValue indicates a value that is neither numeric nor boolean.
	ErrUnsupportedValue = errors.New("params: unsupported value type")
)

type Kind uint8

const (
	Number Kind = iota
	Flag
)

// Value is a number or a boolean.
type Value struct {
	Kind Kind
	num  float64
	flag bool
}

func Float(v float64) Value { return Value{Kind: Number, num: v} }
func Bool(v bool) Value     { return Value{Kind: Flag, flag: v} }

func (v Value) Float() (float64, bool) { return v.num, v.Kind == Number }
func (v Value) Bool() (bool, bool)     { return v.flag, v.Kind == Flag }

func (v Value) String() string {
	if v.Kind == Flag {
		return strconv.FormatBool(v.flag)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// ValueOf converts a Go value into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case int:
		return Float(float64(t)), nil
	case int64:
		return Float(float64(t)), nil
	case bool:
		return Bool(t), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, x)
}

// ParseValue reads "true"/"false" as a flag and anything else as a number.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return Bool(b), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValue, s)
	}
	return Float(f), nil
}

// Key joins a parent and child into a dotted key.
func Key(parent, child string) string { return parent + "." + child }

// ValidateKey checks the flat or one-level dotted form.
func ValidateKey(key string) error {
	parts := strings.Split(key, ".")
	if len(parts) > 2 {
		return fmt.Errorf("%w: %q nests deeper than one level", ErrInvalidKey, key)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// Store is the mutable parameter table. The zero value is ready to use.
type Store struct {
	values map[string]Value
}

func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

// Set records v under key; the last write wins.
func (s *Store) Set(key string, v Value) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if s.values == nil {
		s.values = make(map[string]Value)
	}
	s.values[key] = v
	return nil
}

func (s *Store) SetFloat(key string, v float64) error { return s.Set(key, Float(v)) }
func (s *Store) SetBool(key string, v bool) error     { return s.Set(key, Bool(v)) }

// Merge sets every entry of m. Nested maps one level deep are flattened into
// dotted keys, so {"rotationSpeeds": {"xw": 0.2}} sets "rotationSpeeds.xw".
// Every entry is attempted; the returned error joins all failures.
func (s *Store) Merge(m map[string]any) error {
	var errs []error
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch child := m[k].(type) {
		case map[string]any:
			for ck, cv := range child {
				errs = append(errs, s.setAny(Key(k, ck), cv))
			}
		default:
			errs = append(errs, s.setAny(k, child))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) setAny(key string, x any) error {
	v, err := ValueOf(x)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return s.Set(key, v)
}

func (s *Store) Delete(key string) { delete(s.values, key) }
func (s *Store) Reset()            { s.values = make(map[string]Value) }
func (s *Store) Len() int          { return len(s.values) }

// Snapshot copies the current table. Later writes to the store do not show up
// in the snapshot.
func (s *Store) Snapshot() Snapshot {
	c := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		c[k] = v
	}
	return Snapshot{values: c}
}

// Snapshot is a read-only view of the store at one frame. The zero value is an
// empty snapshot.
type Snapshot struct {
	values map[string]Value
}

// SnapshotOf builds a snapshot directly from values, for tests and one-shot
// callers.
func SnapshotOf(m map[string]any) (Snapshot, error) {
	s := NewStore()
	if err := s.Merge(m); err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

func (s Snapshot) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Float returns the number stored at key. Missing keys and flags report false.
func (s Snapshot) Float(key string) (float64, bool) {
	v, ok := s.values[key]
	if !ok {
		return 0, false
	}
	return v.Float()
}

func (s Snapshot) FloatOr(key string, def float64) float64 {
	if f, ok := s.Float(key); ok {
		return f
	}
	return def
}

func (s Snapshot) Bool(key string) (bool, bool) {
	v, ok := s.values[key]
	if !ok {
		return false, false
	}
	return v.Bool()
}

// Child looks up parent.child.
func (s Snapshot) Child(parent, child string) (float64, bool) {
	return s.Float(Key(parent, child))
}

func (s Snapshot) Len() int { return len(s.values) }

func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
