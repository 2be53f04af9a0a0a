package collections

// Set is an unordered collection of distinct values
type Set[V comparable] map[V]struct{}

func NewSet[V comparable](values ...V) Set[V] {
	set := make(Set[V], len(values))
	for _, value := range values {
		set.Add(value)
	}
	return set
}

func (set Set[V]) Add(value V) {
	set[value] = struct{}{}
}

// Remove is a no-op when value is absent
func (set Set[V]) Remove(value V) {
	delete(set, value)
}

func (set Set[V]) Contains(value V) bool {
	_, found := set[value]
	return found
}

func (set Set[V]) Len() int {
	return len(set)
}

// Slice lists the values in no particular order
func (set Set[V]) Slice() []V {
	values := make([]V, 0, len(set))
	for value := range set {
		values = append(values, value)
	}
	return values
}

// IsSubsetOf reports whether every value of set is also in other. Equal sets
// are subsets of each other.
func (set Set[V]) IsSubsetOf(other Set[V]) bool {
	if len(set) > len(other) {
		return false
	}
	for value := range set {
		if !other.Contains(value) {
			return false
		}
	}
	return true
}

func (set Set[V]) Equal(other Set[V]) bool {
	return len(set) == len(other) && set.IsSubsetOf(other)
}

// Difference returns the values of set missing from other, as a new Set
func (set Set[V]) Difference(other Set[V]) Set[V] {
	difference := make(Set[V])
	for value := range set {
		if !other.Contains(value) {
			difference.Add(value)
		}
	}
	return difference
}
