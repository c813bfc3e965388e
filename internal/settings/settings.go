// Package settings provides document-scoped key/value settings.
//
// A Store holds its values as a single JSON object. Reads go through gjson
// and writes through sjson, so a structured value (such as the annotation
// set) can be stored under one key and queried by path without decoding
// the whole document state.
//
// Keys are escaped before use: a key containing '.' or a wildcard names a
// single top-level entry, never a path.
//
// A Store is not safe for concurrent use.
package settings

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Errors returned by settings operations.
var (
	// ErrInvalidJSON indicates a raw value or a serialized store is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrEmptyKey indicates an operation was attempted with an empty key.
	ErrEmptyKey = errors.New("empty settings key")
)

// Store is a JSON-backed settings object.
type Store struct {
	data string
}

// New creates an empty store.
func New() *Store {
	return &Store{data: "{}"}
}

// FromJSON creates a store from a serialized JSON object.
func FromJSON(data string) (*Store, error) {
	if !gjson.Valid(data) || !gjson.Parse(data).IsObject() {
		return nil, fmt.Errorf("settings: %w", ErrInvalidJSON)
	}
	return &Store{data: data}, nil
}

// Get returns the value stored under key. The result's Exists method
// reports whether the key is set.
func (s *Store) Get(key string) gjson.Result {
	if key == "" {
		return gjson.Result{}
	}
	return gjson.Get(s.data, gjson.Escape(key))
}

// GetPath returns the value at a nested path below key, e.g.
// GetPath("annotation_comments", "count").
func (s *Store) GetPath(key, path string) gjson.Result {
	v := s.Get(key)
	if !v.Exists() {
		return v
	}
	return v.Get(path)
}

// Has reports whether key is set.
func (s *Store) Has(key string) bool {
	return s.Get(key).Exists()
}

// Bool returns the boolean stored under key, or def when it is unset.
func (s *Store) Bool(key string, def bool) bool {
	v := s.Get(key)
	if !v.Exists() {
		return def
	}
	return v.Bool()
}

// String returns the string stored under key, or def when it is unset.
func (s *Store) String(key, def string) string {
	v := s.Get(key)
	if !v.Exists() {
		return def
	}
	return v.String()
}

// Set stores value under key. Values are encoded as JSON.
func (s *Store) Set(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := sjson.Set(s.data, gjson.Escape(key), value)
	if err != nil {
		return fmt.Errorf("settings: set %q: %w", key, err)
	}
	s.data = data
	return nil
}

// SetRaw stores an already encoded JSON value under key.
func (s *Store) SetRaw(key, raw string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !gjson.Valid(raw) {
		return fmt.Errorf("settings: set %q: %w", key, ErrInvalidJSON)
	}
	data, err := sjson.SetRaw(s.data, gjson.Escape(key), raw)
	if err != nil {
		return fmt.Errorf("settings: set %q: %w", key, err)
	}
	s.data = data
	return nil
}

// Erase removes key. Erasing an unset key is a no-op.
func (s *Store) Erase(key string) error {
	if !s.Has(key) {
		return nil
	}
	data, err := sjson.Delete(s.data, gjson.Escape(key))
	if err != nil {
		return fmt.Errorf("settings: erase %q: %w", key, err)
	}
	s.data = data
	return nil
}

// Keys returns the top-level keys in stored order.
func (s *Store) Keys() []string {
	var keys []string
	gjson.Parse(s.data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

// JSON returns the serialized store.
func (s *Store) JSON() string {
	return s.data
}
