package observable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSubscribeReceivesCurrentAndUpdates(t *testing.T) {
	v := NewValue(1)

	var seen []int
	unsubscribe := v.Subscribe(func(n int) { seen = append(seen, n) })

	v.Set(2)
	v.Update(func(n int) int { return n + 10 })
	unsubscribe()
	v.Set(99)

	assert.Equal(t, []int{1, 2, 12}, seen)
	assert.Equal(t, 99, v.Get())
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	v := NewValue("a")
	calls := 0
	unsubscribe := v.Subscribe(func(string) { calls++ })
	unsubscribe()
	unsubscribe()
	v.Set("b")
	assert.Equal(t, 1, calls)
}

func TestDerived(t *testing.T) {
	user := NewValue[*string](nil)
	isAuthenticated := Derived[*string](user, func(u *string) bool { return u != nil })

	assert.False(t, isAuthenticated.Get())

	id := "user-1"
	user.Set(&id)
	assert.True(t, isAuthenticated.Get())

	user.Set(nil)
	assert.False(t, isAuthenticated.Get())
}

func TestDerived2(t *testing.T) {
	items := NewValue([]string{"a", "b"})
	enabled := NewValue(false)

	visible := Derived2[[]string, bool](items, enabled, func(list []string, on bool) []string {
		if !on {
			return []string{}
		}
		return list
	})

	require.Empty(t, visible.Get())

	enabled.Set(true)
	assert.Equal(t, []string{"a", "b"}, visible.Get())

	items.Set([]string{"c"})
	assert.Equal(t, []string{"c"}, visible.Get())
}

func TestConcurrentSetIsSafe(t *testing.T) {
	v := NewValue(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, v.Get())
}

func TestConcurrentSetDeliversLastValue(t *testing.T) {
	for run := 0; run < 200; run++ {
		v := NewValue(0)
		var mu sync.Mutex
		last := 0
		v.Subscribe(func(n int) {
			mu.Lock()
			last = n
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 1; i <= 4; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				v.Set(n)
			}(i)
		}
		wg.Wait()

		mu.Lock()
		observed := last
		mu.Unlock()
		require.Equal(t, v.Get(), observed, "run %d", run)
	}
}

func TestDerived2SettlesAfterConcurrentSets(t *testing.T) {
	sum := func(a, b int) int { return a + b }
	for run := 0; run < 200; run++ {
		a := NewValue(0)
		b := NewValue(0)
		total := Derived2[int, int](a, b, sum)

		var wg sync.WaitGroup
		for i := 1; i <= 50; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				a.Set(n)
			}(i)
			go func(n int) {
				defer wg.Done()
				b.Set(n * 100)
			}(i)
		}
		wg.Wait()

		require.Equal(t, sum(a.Get(), b.Get()), total.Get(), "run %d", run)
	}
}
