package db

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Memory is an in-process Store. It backs tests and ephemeral deployments
// seeded from a JSON export.
type Memory struct {
	mu   sync.RWMutex
	root any
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

// LoadJSON replaces the whole tree with the JSON document read from r.
func (m *Memory) LoadJSON(r io.Reader) error {
	var tree any
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}
	m.mu.Lock()
	m.root = prune(tree)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, path string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	segs := splitPath(path)
	m.mu.RLock()
	defer m.mu.RUnlock()

	node := m.root
	for _, seg := range segs {
		node = childValue(node, seg)
	}
	key := ""
	if len(segs) > 0 {
		key = segs[len(segs)-1]
	}
	return Snapshot{key: key, value: clone(node)}, nil
}

func (m *Memory) Push(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return NewPushKey()
}

func (m *Memory) Set(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tree, err := Normalize(value)
	if err != nil {
		return err
	}
	segs := splitPath(path)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = prune(setIn(m.root, segs, tree))
	return nil
}

func (m *Memory) Remove(ctx context.Context, path string) error {
	return m.Set(ctx, path, nil)
}

// setIn returns node with value placed at segs. Lists on the way are turned
// into maps keyed by index.
func setIn(node any, segs []string, value any) any {
	if len(segs) == 0 {
		return value
	}
	var obj map[string]any
	switch n := node.(type) {
	case map[string]any:
		obj = n
	case []any:
		obj = make(map[string]any, len(n))
		for i, v := range n {
			if v != nil {
				obj[strconv.Itoa(i)] = v
			}
		}
	default:
		obj = map[string]any{}
	}
	child := setIn(obj[segs[0]], segs[1:], value)
	if child == nil {
		delete(obj, segs[0])
	} else {
		obj[segs[0]] = child
	}
	return obj
}

func clone(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, c := range n {
			out[k] = clone(c)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, c := range n {
			out[i] = clone(c)
		}
		return out
	}
	return v
}
