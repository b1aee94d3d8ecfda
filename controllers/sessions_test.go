package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionsPerUser(t *testing.T) {
	s := NewSessions(&fakeRepo{})

	assert.Same(t, s.Shop("u1"), s.Shop("u1"))
	assert.NotSame(t, s.Shop("u1"), s.Shop("u2"))
	assert.Same(t, s.Finance("u1"), s.Finance("u1"))
}

func TestSweepStopsIdleSessions(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSessions(&fakeRepo{})
	s.now = func() time.Time { return now }

	opened, stopped := map[string]int{}, map[string]int{}
	s.OnOpen = func(userID string, _ *Shop, _ *Finance) []func() {
		opened[userID]++
		return []func(){func() { stopped[userID]++ }}
	}

	first := s.Shop("u1")
	first.AddToCart(tomato)
	s.Shop("u2")

	now = now.Add(20 * time.Minute)
	s.Finance("u2")

	assert.Equal(t, 1, s.Sweep(15*time.Minute))
	assert.Equal(t, map[string]int{"u1": 1}, stopped)

	fresh := s.Shop("u1")
	assert.NotSame(t, first, fresh)
	assert.Zero(t, fresh.CartItemCount())
	assert.Equal(t, 2, opened["u1"])
	assert.Equal(t, 1, opened["u2"])
}
