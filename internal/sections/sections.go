// Package sections holds the ordered section maps produced by parsing changelog
// fragments and entries, and the operations that merge them.
package sections

// Key identifies a section: either a titled section or the uncategorized one.
// The zero value is not valid; use Title or Uncategorized.
type Key struct {
	title         string
	uncategorized bool
}

// Uncategorized is the key for text that appears before any heading.
var Uncategorized = Key{uncategorized: true}

// Title returns the key for a section with the given title.
func Title(title string) Key {
	return Key{title: title}
}

// IsUncategorized reports whether k is the uncategorized key.
func (k Key) IsUncategorized() bool {
	return k.uncategorized
}

// Title returns the section title. The uncategorized key has an empty title.
func (k Key) Title() string {
	return k.title
}

func (k Key) String() string {
	if k.uncategorized {
		return "<uncategorized>"
	}
	return k.title
}

// Map is an insertion-ordered mapping from section keys to paragraphs.
type Map struct {
	keys  []Key
	paras map[Key][]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{paras: make(map[Key][]string)}
}

// Len returns the number of sections.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the section keys in insertion order.
func (m *Map) Keys() []Key {
	if m == nil {
		return nil
	}
	out := make([]Key, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether the section exists.
func (m *Map) Has(k Key) bool {
	if m == nil {
		return false
	}
	_, ok := m.paras[k]
	return ok
}

// Get returns the paragraphs of a section, or nil.
func (m *Map) Get(k Key) []string {
	if m == nil {
		return nil
	}
	return m.paras[k]
}

// Set replaces the paragraphs of a section, appending the key if it is new.
func (m *Map) Set(k Key, paras []string) {
	if _, ok := m.paras[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.paras[k] = paras
}

// Append adds paragraphs to a section, creating it at the end if needed.
func (m *Map) Append(k Key, paras ...string) {
	existing, ok := m.paras[k]
	if !ok {
		m.keys = append(m.keys, k)
		existing = []string{}
	}
	m.paras[k] = append(existing, paras...)
}

// Delete removes a section.
func (m *Map) Delete(k Key) {
	if _, ok := m.paras[k]; !ok {
		return
	}
	delete(m.paras, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	out := New()
	for _, k := range m.Keys() {
		paras := make([]string, len(m.paras[k]))
		copy(paras, m.paras[k])
		out.Set(k, paras)
	}
	return out
}

// Paragraphs returns every paragraph in section order.
func (m *Map) Paragraphs() []string {
	var out []string
	for _, k := range m.Keys() {
		out = append(out, m.paras[k]...)
	}
	return out
}

// Empty reports whether the map has no sections.
func (m *Map) Empty() bool {
	return m.Len() == 0
}
