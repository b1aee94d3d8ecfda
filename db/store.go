package db

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrPermissionDenied is returned when the store rejects the caller.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnavailable wraps transport failures talking to the store.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is a hierarchical key-value document store addressed by
// slash-separated paths such as "users/u1/expenses". Reads return the whole
// subtree once; writes replace the node at the path.
type Store interface {
	Get(ctx context.Context, path string) (Snapshot, error)
	// Push allocates a new child key under parent without writing anything.
	Push(ctx context.Context, parent string) (string, error)
	// Set replaces the node at path. A nil value removes it.
	Set(ctx context.Context, path string, value any) error
	Remove(ctx context.Context, path string) error
}

// Join builds a store path from segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, splitPath(s)...)
	}
	return strings.Join(parts, "/")
}

func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	out := raw[:0]
	for _, p := range raw {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
