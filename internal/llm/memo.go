package llm

import (
	"crypto/sha256"
	"sync"

	"github.com/golang/groupcache/lru"
)

type memoKey [sha256.Size]byte

func newMemoKey(system, user string) memoKey {
	h := sha256.New()
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	var k memoKey
	copy(k[:], h.Sum(nil))
	return k
}

// memo is a fixed-capacity LRU of completed responses, safe for concurrent use.
// A nil *memo caches nothing.
type memo struct {
	mu    sync.Mutex
	cache *lru.Cache
}

func newMemo(capacity int) *memo {
	if capacity <= 0 {
		return nil
	}
	return &memo{cache: lru.New(capacity)}
}

func (m *memo) get(k memoKey) (string, bool) {
	if m == nil {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cache.Get(k)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (m *memo) add(k memoKey, v string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Add(k, v)
}

func (m *memo) len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}
