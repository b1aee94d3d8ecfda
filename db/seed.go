package db

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
)

// Seed writes every top-level key of a JSON object into store, replacing
// what was there.
func Seed(ctx context.Context, store Store, r io.Reader) error {
	var tree map[string]any
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := store.Set(ctx, k, tree[k]); err != nil {
			return fmt.Errorf("seed %s: %w", k, err)
		}
	}
	log.Printf("[db] seeded %d top-level nodes", len(keys))
	return nil
}

func SeedFile(ctx context.Context, store Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Seed(ctx, store, f)
}
