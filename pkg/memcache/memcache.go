package memcache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Policy selects how the cache evicts once it reaches capacity.
type Policy string

const (
	// PolicyLRU evicts the least recently used entry. Get refreshes recency.
	PolicyLRU Policy = "lru"
	// PolicyFIFO evicts the oldest inserted entry regardless of reads.
	PolicyFIFO Policy = "fifo"
	// PolicyTTL evicts the entry closest to its expiry.
	PolicyTTL Policy = "ttl"
)

// ParsePolicy converts a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyLRU, PolicyFIFO, PolicyTTL:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown cache policy %q", s)
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Policy    Policy `json:"policy"`
	Capacity  int    `json:"capacity"`
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
}

type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Manager is an in-process key/value cache with per-entry TTL and a
// configurable eviction policy. It is scoped to a single process: no
// cross-process invalidation and no persistence. Safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	policy     Policy
	capacity   int
	defaultTTL time.Duration

	// order keeps front = most recent (LRU) or newest insert (FIFO).
	order *list.List
	items map[string]*list.Element

	hits      uint64
	misses    uint64
	evictions uint64
	expired   uint64

	now func() time.Time
}

// New creates a Manager. Capacity must be positive; defaultTTL applies to
// Set and can be overridden per entry with SetTTL.
func New(policy Policy, capacity int, defaultTTL time.Duration) *Manager {
	if capacity <= 0 {
		capacity = 1
	}
	return &Manager{
		policy:     policy,
		capacity:   capacity,
		defaultTTL: defaultTTL,
		order:      list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get returns the cached value for key. Expired entries count as misses
// and are removed on access.
func (m *Manager) Get(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		m.misses++
		return nil, false
	}

	ent := el.Value.(*entry)
	if m.now().After(ent.expiresAt) {
		m.removeElement(el)
		m.expired++
		m.misses++
		return nil, false
	}

	if m.policy == PolicyLRU {
		m.order.MoveToFront(el)
	}
	m.hits++
	return ent.value, true
}

// Set stores value under key with the default TTL.
func (m *Manager) Set(key string, value interface{}) {
	m.SetTTL(key, value, m.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL. A non-positive TTL
// stores nothing.
func (m *Manager) SetTTL(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := m.now().Add(ttl)

	if el, ok := m.items[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		if m.policy == PolicyLRU {
			m.order.MoveToFront(el)
		}
		return
	}

	if len(m.items) >= m.capacity {
		m.reapExpired()
	}
	for len(m.items) >= m.capacity {
		m.evictOne()
	}

	el := m.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	m.items[key] = el
}

// Delete removes key if present.
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		m.removeElement(el)
	}
}

// Flush drops every entry but keeps counters.
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order.Init()
	m.items = make(map[string]*list.Element)
}

// Len returns the number of live entries, counting not-yet-reaped expired
// ones.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Stats returns a snapshot of the cache counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Policy:    m.policy,
		Capacity:  m.capacity,
		Entries:   len(m.items),
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
		Expired:   m.expired,
	}
}

// reapExpired removes every expired entry. Caller holds the lock.
func (m *Manager) reapExpired() {
	now := m.now()
	for el := m.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry).expiresAt) {
			m.removeElement(el)
			m.expired++
		}
		el = prev
	}
}

// evictOne makes room for one insert according to the policy. Caller
// holds the lock.
func (m *Manager) evictOne() {
	var victim *list.Element

	switch m.policy {
	case PolicyTTL:
		// Soonest to expire goes first.
		for el := m.order.Front(); el != nil; el = el.Next() {
			if victim == nil || el.Value.(*entry).expiresAt.Before(victim.Value.(*entry).expiresAt) {
				victim = el
			}
		}
	default:
		// LRU keeps recency ordered by MoveToFront, FIFO by insert order;
		// in both the back is the victim.
		victim = m.order.Back()
	}

	if victim != nil {
		m.removeElement(victim)
		m.evictions++
	}
}

func (m *Manager) removeElement(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*entry).key)
}
