// Package observable provides publish-subscribe value holders used to mirror
// remote state for UI binding.
package observable

import "sync"

// Readable is a value that can be read and watched.
type Readable[T any] interface {
	Get() T
	// Subscribe calls fn with the current value and again after every change.
	// The returned func removes the subscription.
	Subscribe(fn func(T)) func()
}

// Value is a mutable Readable. The zero value is not usable; call NewValue.
//
// Writes and their notifications are serialized, so subscribers see changes
// in write order and the last value a subscriber receives is the stored one.
// A subscriber must not Set the Value that is notifying it.
type Value[T any] struct {
	// notify is held across a write and its dispatch; mu guards the fields.
	notify sync.Mutex
	mu     sync.Mutex
	value  T
	nextID int
	subs   map[int]func(T)
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, subs: make(map[int]func(T))}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

func (v *Value[T]) Set(value T) {
	v.notify.Lock()
	defer v.notify.Unlock()

	v.mu.Lock()
	v.value = value
	subs := v.snapshot()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Update replaces the value with fn(current) under the lock.
func (v *Value[T]) Update(fn func(T) T) {
	v.notify.Lock()
	defer v.notify.Unlock()

	v.mu.Lock()
	v.value = fn(v.value)
	value := v.value
	subs := v.snapshot()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.notify.Lock()
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	value := v.value
	v.mu.Unlock()
	fn(value)
	v.notify.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

func (v *Value[T]) snapshot() []func(T) {
	subs := make([]func(T), 0, len(v.subs))
	for id := 0; id < v.nextID; id++ {
		if fn, ok := v.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

// Derived maps src through fn. It stays subscribed to src for its lifetime.
func Derived[A, R any](src Readable[A], fn func(A) R) Readable[R] {
	var zero R
	out := NewValue(zero)
	src.Subscribe(func(a A) {
		out.Set(fn(a))
	})
	return out
}

// Derived2 combines two sources. fn runs whenever either source changes and
// always reads both sources' current values, so once writes stop the result
// equals fn(a.Get(), b.Get()).
func Derived2[A, B, R any](a Readable[A], b Readable[B], fn func(A, B) R) Readable[R] {
	var zero R
	out := NewValue(zero)

	var mu sync.Mutex
	ready := false
	recompute := func() {
		mu.Lock()
		defer mu.Unlock()
		if ready {
			out.Set(fn(a.Get(), b.Get()))
		}
	}

	a.Subscribe(func(A) { recompute() })
	mu.Lock()
	ready = true
	mu.Unlock()
	b.Subscribe(func(B) { recompute() })
	return out
}
