package lexspec

// OrderedMap preserves insertion order while still supporting O(1)
// lookup — spec.md §3/§6 repeatedly require "ordered map RuleId →..."
// shapes (Specification.Rules, CompiledSpecification.Rules) whose
// declaration order must survive parallel rule compilation (spec.md §5).
type OrderedMap[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{vals: make(map[K]V)}
}

// Set inserts or overwrites the value for key, appending key to the
// order only the first time it is seen.
func (m *OrderedMap[K, V]) Set(key K, val V) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion (declaration) order.
func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

// Each iterates entries in declaration order.
func (m *OrderedMap[K, V]) Each(f func(key K, val V)) {
	for _, k := range m.keys {
		f(k, m.vals[k])
	}
}
