package controllers

import (
	"log"
	"sync"
	"time"
)

type Repository interface {
	FarmRepository
	FinanceRepository
	ShopRepository
}

type session struct {
	shop     *Shop
	finance  *Finance
	stop     []func()
	lastSeen time.Time
}

// Sessions keeps one Shop and one Finance controller per user and a single
// shared Farm controller for the read-only catalogue.
type Sessions struct {
	repo  Repository
	Farm  *Farm
	mu    sync.Mutex
	users map[string]*session
	now   func() time.Time

	// OnOpen runs when a user's controllers are created; the returned funcs
	// run when the session is swept.
	OnOpen func(userID string, shop *Shop, fin *Finance) []func()
}

func NewSessions(repo Repository) *Sessions {
	return &Sessions{
		repo:  repo,
		Farm:  NewFarm(repo),
		users: make(map[string]*session),
		now:   time.Now,
	}
}

func (s *Sessions) get(userID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.users[userID]
	if !ok {
		sess = &session{shop: NewShop(s.repo), finance: NewFinance(s.repo)}
		if s.OnOpen != nil {
			sess.stop = s.OnOpen(userID, sess.shop, sess.finance)
		}
		s.users[userID] = sess
	}
	sess.lastSeen = s.now()
	return sess
}

func (s *Sessions) Shop(userID string) *Shop { return s.get(userID).shop }

func (s *Sessions) Finance(userID string) *Finance { return s.get(userID).finance }

// Sweep drops sessions idle for longer than maxIdle. Carts in them are lost.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	var idle []*session
	for uid, sess := range s.users {
		if s.now().Sub(sess.lastSeen) > maxIdle {
			idle = append(idle, sess)
			delete(s.users, uid)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		for _, stop := range sess.stop {
			stop()
		}
	}
	if len(idle) > 0 {
		log.Printf("[sessions] swept %d idle sessions", len(idle))
	}
	return len(idle)
}
