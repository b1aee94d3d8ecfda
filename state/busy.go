package state

import "sync"

// Busy counts in-flight operations and mirrors "any running" into Loading.
type Busy struct {
	mu      sync.Mutex
	n       int
	Loading *Value[bool]
}

func NewBusy() *Busy {
	return &Busy{Loading: NewValue(false)}
}

// Begin marks one operation as started; call the returned func when it ends.
func (b *Busy) Begin() func() {
	b.mu.Lock()
	b.n++
	b.Loading.Set(true)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.n--
			b.Loading.Set(b.n > 0)
			b.mu.Unlock()
		})
	}
}
