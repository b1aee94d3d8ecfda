// Package repository translates farm, shop and finance operations into reads
// and writes against a db.Store and maps snapshots onto models.
package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"farmhand/db"
	"farmhand/mq"
)

const (
	categoriesPath = "categories"
	productsPath   = "products"
	usersPath      = "users"
)

type Repository struct {
	store   db.Store
	events  mq.Publisher
	timeout time.Duration
}

type Option func(*Repository)

// WithTimeout bounds every store call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(r *Repository) { r.timeout = d }
}

// WithEvents publishes a domain event after each successful write.
func WithEvents(p mq.Publisher) Option {
	return func(r *Repository) { r.events = p }
}

func New(store db.Store, opts ...Option) *Repository {
	r := &Repository{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return ctx, func() {}
}

func userPath(userID, collection string) string {
	return db.Join(usersPath, userID, collection)
}

// push allocates a key under parent, lets assign copy it into the record and
// writes the record at parent/key.
func (r *Repository) push(ctx context.Context, kind, parent string, assign func(id string) any) (string, bool) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	id, err := r.store.Push(ctx, parent)
	if err != nil {
		log.Printf("[repository] allocate %s key under %s: %v", kind, parent, err)
		return "", false
	}
	if err := r.store.Set(ctx, db.Join(parent, id), assign(id)); err != nil {
		log.Printf("[repository] save %s %s: %v", kind, id, err)
		return "", false
	}
	log.Printf("[repository] saved %s %s", kind, id)
	return id, true
}

func (r *Repository) remove(ctx context.Context, kind, path string) bool {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.store.Remove(ctx, path); err != nil {
		log.Printf("[repository] delete %s %s: %v", kind, path, err)
		return false
	}
	log.Printf("[repository] deleted %s %s", kind, path)
	return true
}

func (r *Repository) read(ctx context.Context, path string) (db.Snapshot, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return r.store.Get(ctx, path)
}

func (r *Repository) emit(ctx context.Context, name string, e mq.Event) {
	if r.events == nil {
		return
	}
	e.At = time.Now().UnixMilli()
	mq.Emit(context.WithoutCancel(ctx), r.events, name, e)
}

func logSkip(kind, key string, err error) {
	if errors.Is(err, ErrSkip) {
		log.Printf("[repository] skipping %s %s: %v", kind, key, err)
		return
	}
	log.Printf("[repository] malformed %s %s: %v", kind, key, err)
}

// decodeAll parses every child of s with fn, dropping the ones that fail.
func decodeAll[T any](kind string, s db.Snapshot, fn func(db.Snapshot) (T, error)) []T {
	children := s.Children()
	out := make([]T, 0, len(children))
	for _, c := range children {
		v, err := fn(c)
		if err != nil {
			logSkip(kind, c.Key(), err)
			continue
		}
		out = append(out, v)
	}
	return out
}
