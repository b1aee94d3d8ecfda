package db

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Snapshot is an immutable view of a store node and its descendants.
// Values are plain trees: map[string]any, []any, string, float64, bool.
type Snapshot struct {
	key   string
	value any
}

// NewSnapshot wraps an already normalized tree value.
func NewSnapshot(key string, value any) Snapshot {
	return Snapshot{key: key, value: value}
}

func (s Snapshot) Key() string { return s.key }

func (s Snapshot) Value() any { return s.value }

// Exists reports whether the node holds any value.
func (s Snapshot) Exists() bool { return s.value != nil }

// Child descends along a relative path. Missing nodes yield a snapshot that
// does not exist.
func (s Snapshot) Child(path string) Snapshot {
	cur := s
	for _, seg := range splitPath(path) {
		cur = Snapshot{key: seg, value: childValue(cur.value, seg)}
	}
	return cur
}

func childValue(v any, key string) any {
	switch node := v.(type) {
	case map[string]any:
		return node[key]
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(node) {
			return nil
		}
		return node[i]
	}
	return nil
}

// Children lists direct children in store order: integer keys ascending
// numerically, then the remaining keys lexicographically.
func (s Snapshot) Children() []Snapshot {
	switch node := s.value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k, v := range node {
			if v != nil {
				keys = append(keys, k)
			}
		}
		sortKeys(keys)
		out := make([]Snapshot, 0, len(keys))
		for _, k := range keys {
			out = append(out, Snapshot{key: k, value: node[k]})
		}
		return out
	case []any:
		out := make([]Snapshot, 0, len(node))
		for i, v := range node {
			if v != nil {
				out = append(out, Snapshot{key: strconv.Itoa(i), value: v})
			}
		}
		return out
	}
	return nil
}

func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.ParseInt(keys[i], 10, 64)
		b, bErr := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
}

// String returns the node as a string when it holds one.
func (s Snapshot) String() (string, bool) {
	v, ok := s.value.(string)
	return v, ok
}

// Float returns numeric nodes as float64.
func (s Snapshot) Float() (float64, bool) {
	switch v := s.value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Int returns numeric nodes holding a whole number.
func (s Snapshot) Int() (int64, bool) {
	f, ok := s.Float()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Normalize converts an arbitrary Go value (structs, maps, slices) into the
// plain tree form stored by Memory and compared by Snapshot.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return prune(tree), nil
}

// prune drops empty maps and lists, which the store does not keep.
func prune(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if p := prune(child); p == nil {
				delete(node, k)
			} else {
				node[k] = p
			}
		}
		if len(node) == 0 {
			return nil
		}
	case []any:
		empty := true
		for i, child := range node {
			node[i] = prune(child)
			if node[i] != nil {
				empty = false
			}
		}
		if empty {
			return nil
		}
	}
	return v
}
