package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func build(pairs ...any) *Map {
	m := New()
	for i := 0; i < len(pairs); i += 2 {
		m.Append(pairs[i].(Key), pairs[i+1].([]string)...)
	}
	return m
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.True(t, Uncategorized.IsUncategorized())
	assert.False(t, Title("").IsUncategorized())
	assert.NotEqual(t, Uncategorized, Title(""))
	assert.Equal(t, Title("Added"), Title("Added"))
	assert.Equal(t, "Added", Title("Added").Title())
}

func TestMapOrderAndDelete(t *testing.T) {
	t.Parallel()

	m := New()
	m.Append(Title("Fixed"), "a")
	m.Append(Uncategorized, "b")
	m.Append(Title("Fixed"), "c")
	m.Set(Title("Added"), []string{"d"})

	assert.Equal(t, []Key{Title("Fixed"), Uncategorized, Title("Added")}, m.Keys())
	assert.Equal(t, []string{"a", "c"}, m.Get(Title("Fixed")))
	assert.Equal(t, []string{"a", "c", "b", "d"}, m.Paragraphs())

	m.Delete(Uncategorized)
	assert.Equal(t, []Key{Title("Fixed"), Title("Added")}, m.Keys())
	assert.False(t, m.Has(Uncategorized))

	clone := m.Clone()
	clone.Append(Title("Fixed"), "z")
	assert.Equal(t, []string{"a", "c"}, m.Get(Title("Fixed")))
}

func TestCombine(t *testing.T) {
	t.Parallel()

	a := build(Title("Added"), []string{"a1"}, Title("Fixed"), []string{"f1"})
	b := build(Title("Fixed"), []string{"f2"}, Uncategorized, []string{"u1"})

	got := Combine(a, b)
	assert.Equal(t, []Key{Title("Added"), Title("Fixed"), Uncategorized}, got.Keys())
	assert.Equal(t, []string{"f1", "f2"}, got.Get(Title("Fixed")))
	assert.True(t, Combine().Empty())
}

func TestReorder(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in       *Map
		priority []Key
		want     []Key
	}{
		"priority first then original order": {
			in: build(
				Title("Other"), []string{"o"},
				Title("Fixed"), []string{"f"},
				Title("Extra"), []string{"e"},
				Title("Added"), []string{"a"},
			),
			priority: Priority([]string{"Added", "Fixed"}),
			want:     []Key{Title("Added"), Title("Fixed"), Title("Other"), Title("Extra")},
		},
		"uncategorized leads": {
			in:       build(Title("Fixed"), []string{"f"}, Uncategorized, []string{"u"}),
			priority: Priority([]string{"Fixed"}),
			want:     []Key{Uncategorized, Title("Fixed")},
		},
		"missing priority keys ignored": {
			in:       build(Title("Fixed"), []string{"f"}),
			priority: Priority([]string{"Removed", "Added"}),
			want:     []Key{Title("Fixed")},
		},
		"case sensitive": {
			in:       build(Title("fixed"), []string{"f"}, Title("Added"), []string{"a"}),
			priority: Priority([]string{"Fixed", "Added"}),
			want:     []Key{Title("Added"), Title("fixed")},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Reorder(tt.in, tt.priority).Keys())
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := build(Title("Fixed"), []string{"one"})
	b := build(Title("Added"), []string{"two"}, Title("Fixed"), []string{"three"})

	got := Merge([]*Map{a, b}, Priority([]string{"Added", "Fixed"}))
	assert.Equal(t, []Key{Title("Added"), Title("Fixed")}, got.Keys())
	assert.Equal(t, []string{"one", "three"}, got.Get(Title("Fixed")))
}
