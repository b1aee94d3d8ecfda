package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const nodesCollection = "nodes"

// Mongo stores the tree as documents keyed by their path. A write at a path
// either lands inside the nearest existing ancestor document or replaces
// every document at or below the path.
type Mongo struct {
	Client *mongo.Client
	nodes  *mongo.Collection
}

var _ Store = (*Mongo)(nil)

type nodeDoc struct {
	Path  string `bson:"_id"`
	Value any    `bson:"value"`
}

// Connect dials MongoDB and returns a store over database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Printf("[db] connected to MongoDB database %s", dbName)
	return &Mongo{Client: client, nodes: client.Database(dbName).Collection(nodesCollection)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

func (m *Mongo) Get(ctx context.Context, path string) (Snapshot, error) {
	segs := splitPath(path)
	path = strings.Join(segs, "/")
	key := ""
	if len(segs) > 0 {
		key = segs[len(segs)-1]
	}

	anc, err := m.ancestor(ctx, segs)
	if err != nil {
		return Snapshot{}, storeErr("get", path, err)
	}
	if anc != nil {
		node := normalizeBSON(anc.Value)
		for _, seg := range segs[len(splitPath(anc.Path)):] {
			node = childValue(node, seg)
		}
		return Snapshot{key: key, value: node}, nil
	}

	cur, err := m.nodes.Find(ctx, subtreeFilter(path))
	if err != nil {
		return Snapshot{}, storeErr("get", path, err)
	}
	var docs []nodeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return Snapshot{}, storeErr("get", path, err)
	}
	sort.Slice(docs, func(i, j int) bool { return len(docs[i].Path) < len(docs[j].Path) })

	var tree any
	for _, d := range docs {
		rel := splitPath(strings.TrimPrefix(d.Path, path))
		tree = setIn(tree, rel, normalizeBSON(d.Value))
	}
	return Snapshot{key: key, value: prune(tree)}, nil
}

func (m *Mongo) Push(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return NewPushKey()
}

func (m *Mongo) Set(ctx context.Context, path string, value any) error {
	tree, err := Normalize(value)
	if err != nil {
		return err
	}
	segs := splitPath(path)
	path = strings.Join(segs, "/")

	anc, err := m.ancestor(ctx, segs)
	if err != nil {
		return storeErr("set", path, err)
	}
	if anc != nil {
		field := "value." + strings.Join(segs[len(splitPath(anc.Path)):], ".")
		update := bson.M{"$set": bson.M{field: tree}}
		if tree == nil {
			update = bson.M{"$unset": bson.M{field: ""}}
		}
		if _, err := m.nodes.UpdateOne(ctx, bson.M{"_id": anc.Path}, update); err != nil {
			return storeErr("set", path, err)
		}
		return nil
	}

	if _, err := m.nodes.DeleteMany(ctx, subtreeFilter(path)); err != nil {
		return storeErr("set", path, err)
	}
	if tree == nil {
		return nil
	}
	if _, err := m.nodes.InsertOne(ctx, nodeDoc{Path: path, Value: tree}); err != nil {
		return storeErr("set", path, err)
	}
	return nil
}

func (m *Mongo) Remove(ctx context.Context, path string) error {
	return m.Set(ctx, path, nil)
}

// ancestor finds the document stored at a proper prefix of segs, if any.
func (m *Mongo) ancestor(ctx context.Context, segs []string) (*nodeDoc, error) {
	if len(segs) < 2 {
		return nil, nil
	}
	prefixes := make([]string, 0, len(segs)-1)
	for i := 1; i < len(segs); i++ {
		prefixes = append(prefixes, strings.Join(segs[:i], "/"))
	}
	var doc nodeDoc
	err := m.nodes.FindOne(ctx, bson.M{"_id": bson.M{"$in": prefixes}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func subtreeFilter(path string) bson.M {
	if path == "" {
		return bson.M{}
	}
	return bson.M{"$or": []bson.M{
		{"_id": path},
		{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(path) + "/"}},
	}}
}

// normalizeBSON turns driver decoded values into the plain tree form.
func normalizeBSON(v any) any {
	switch n := v.(type) {
	case primitive.D:
		out := make(map[string]any, len(n))
		for _, e := range n {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(n))
		for k, c := range n {
			out[k] = normalizeBSON(c)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, c := range n {
			out[k] = normalizeBSON(c)
		}
		return out
	case primitive.A:
		out := make([]any, len(n))
		for i, c := range n {
			out[i] = normalizeBSON(c)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, c := range n {
			out[i] = normalizeBSON(c)
		}
		return out
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case primitive.DateTime:
		return float64(n)
	}
	return v
}

func storeErr(op, path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Code == 13 || cmdErr.Code == 18) {
		return fmt.Errorf("%s %s: %w: %v", op, path, ErrPermissionDenied, err)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%s %s: %w: %v", op, path, ErrUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}
