// Package state provides observable values for controller state.
package state

import "sync"

// Value holds the latest T and fans changes out to subscribers. Slow
// subscribers only ever see the most recent value.
type Value[T any] struct {
	mu   sync.RWMutex
	v    T
	subs map[int]chan T
	next int
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]chan T)}
}

func (s *Value[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

func (s *Value[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
	s.notifyLocked()
}

// Update replaces the value with fn(current) atomically.
func (s *Value[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = fn(s.v)
	s.notifyLocked()
}

// Subscribe returns a channel that first receives the current value and then
// every change. cancel closes the channel.
func (s *Value[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan T, 1)
	ch <- s.v
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Value[T]) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.v
	}
}
