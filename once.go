package nisar

import "sync"

// memo computes a value at most once and caches the outcome, failure
// included, so concurrent metadata queries never repeat expensive work.
type memo[T any] struct {
	mu   sync.Mutex
	done bool
	val  T
	err  error
}

func (m *memo[T]) get(compute func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.done {
		m.val, m.err = compute()
		m.done = true
	}
	return m.val, m.err
}
