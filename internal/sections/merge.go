package sections

// Combine concatenates the paragraphs of each section across maps, in the
// order the maps are given. Sections are created in first-seen order.
func Combine(maps ...*Map) *Map {
	out := New()
	for _, m := range maps {
		for _, k := range m.Keys() {
			out.Append(k, m.Get(k)...)
		}
	}
	return out
}

// Reorder returns a copy of m with the priority keys that exist in m first, in
// priority order, followed by the remaining keys in their original order.
func Reorder(m *Map, priority []Key) *Map {
	out := New()
	for _, k := range priority {
		if m.Has(k) && !out.Has(k) {
			out.Set(k, m.Get(k))
		}
	}
	for _, k := range m.Keys() {
		if !out.Has(k) {
			out.Set(k, m.Get(k))
		}
	}
	return out
}

// Merge combines maps and orders the result by priority.
func Merge(maps []*Map, priority []Key) *Map {
	return Reorder(Combine(maps...), priority)
}

// Priority builds the standard ordering: uncategorized first, then categories.
func Priority(categories []string) []Key {
	keys := make([]Key, 0, len(categories)+1)
	keys = append(keys, Uncategorized)
	for _, c := range categories {
		keys = append(keys, Title(c))
	}
	return keys
}
