// Package schema maps apcupsd status keys onto InfluxDB tags and fields.
package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the target type of a status value.
type Kind int

const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Convert parses raw into the Go type for k: string, int64 or float64.
// Int accepts a decimal value and truncates it, since some firmware
// reports whole-number counters as "3.0". NaN and infinities are rejected
// for both numeric kinds.
func (k Kind) Convert(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch k {
	case String:
		return raw, nil
	case Int:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("convert %q to int", raw)
		}
		return int64(f), nil
	case Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("convert %q to float", raw)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
}

// Route says where a status key ends up.
type Route int

const (
	Drop Route = iota
	Tag
	Field
)

// Schema holds the three static tables: the type table, the removal set and
// the tag-key set. It is immutable after New.
type Schema struct {
	types  map[string]Kind
	remove map[string]struct{}
	tags   map[string]struct{}
}

// New builds a Schema. Every tag key must be present in types with the
// String kind, because InfluxDB tag values are strings.
func New(types map[string]Kind, remove, tags []string) (*Schema, error) {
	s := &Schema{
		types:  make(map[string]Kind, len(types)),
		remove: make(map[string]struct{}, len(remove)),
		tags:   make(map[string]struct{}, len(tags)),
	}
	for k, v := range types {
		s.types[k] = v
	}
	for _, k := range remove {
		s.remove[k] = struct{}{}
	}
	for _, k := range tags {
		kind, ok := s.types[k]
		if !ok {
			return nil, fmt.Errorf("schema: tag key %q has no type", k)
		}
		if kind != String {
			return nil, fmt.Errorf("schema: tag key %q must be %s, got %s", k, String, kind)
		}
		s.tags[k] = struct{}{}
	}
	return s, nil
}

// Route reports whether key is dropped, becomes a tag or becomes a field.
// Keys in the removal set and keys missing from the type table are dropped.
func (s *Schema) Route(key string) Route {
	if _, ok := s.remove[key]; ok {
		return Drop
	}
	if _, ok := s.types[key]; !ok {
		return Drop
	}
	if _, ok := s.tags[key]; ok {
		return Tag
	}
	return Field
}

// Kind returns the type table entry for key.
func (s *Schema) Kind(key string) (Kind, bool) {
	k, ok := s.types[key]
	return k, ok
}

// TagKeys returns the tag-key set in sorted order.
func (s *Schema) TagKeys() []string {
	keys := make([]string, 0, len(s.tags))
	for k := range s.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
