package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNormalizeBSON(t *testing.T) {
	in := primitive.D{
		{Key: "name", Value: "Wheat"},
		{Key: "stock", Value: int32(4)},
		{Key: "date", Value: int64(1_700_000_000_000)},
		{Key: "regions", Value: primitive.A{"Punjab", primitive.M{"x": int32(1)}}},
	}
	assert.Equal(t, map[string]any{
		"name":    "Wheat",
		"stock":   4.0,
		"date":    1.7e12,
		"regions": []any{"Punjab", map[string]any{"x": 1.0}},
	}, normalizeBSON(in))
}

func TestSubtreeFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, subtreeFilter(""))
	f := subtreeFilter("users/u.1")
	or := f["$or"].([]bson.M)
	require.Len(t, or, 2)
	assert.Equal(t, "users/u.1", or[0]["_id"])
	assert.Equal(t, bson.M{"$regex": `^users/u\.1/`}, or[1]["_id"])
}

func TestStoreErr(t *testing.T) {
	err := storeErr("get", "x", mongo.CommandError{Code: 13, Message: "unauthorized"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = storeErr("get", "x", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other := errors.New("boom")
	assert.ErrorIs(t, storeErr("set", "x", other), other)
}

// TestMongoStore runs against a live server when MONGO_TEST_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	m, err := Connect(ctx, uri, "farmhand_test_"+time.Now().Format("150405"))
	require.NoError(t, err)
	t.Cleanup(func() {
		m.nodes.Database().Drop(context.Background())
		m.Close(context.Background())
	})

	require.NoError(t, m.Set(ctx, "categories", []any{map[string]any{"name": "Cereals"}}))
	require.NoError(t, m.Set(ctx, "users/u1/expenses/e1", map[string]any{"amount": 5}))
	require.NoError(t, m.Set(ctx, "users/u1/expenses/e2", map[string]any{"amount": 7}))

	snap, err := m.Get(ctx, "users/u1/expenses")
	require.NoError(t, err)
	assert.Len(t, snap.Children(), 2)

	// write inside an existing document
	require.NoError(t, m.Set(ctx, "categories/0/name", "Grains"))
	snap, err = m.Get(ctx, "categories/0/name")
	require.NoError(t, err)
	v, _ := snap.String()
	assert.Equal(t, "Grains", v)

	require.NoError(t, m.Remove(ctx, "users/u1/expenses/e1"))
	snap, err = m.Get(ctx, "users")
	require.NoError(t, err)
	assert.Len(t, snap.Child("u1/expenses").Children(), 1)

	key, err := m.Push(ctx, "users/u1/sales")
	require.NoError(t, err)
	assert.Len(t, key, 20)
}
