package sliceutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	type item struct{ Grid, Island string }

	tests := []struct {
		name  string
		items []item
		want  []item
	}{
		{
			name:  "no duplicates",
			items: []item{{"A1", "X"}, {"B2", "Y"}},
			want:  []item{{"A1", "X"}, {"B2", "Y"}},
		},
		{
			name:  "keeps first occurrence",
			items: []item{{"A1", "X"}, {"A1", "Y"}, {"B2", "Z"}},
			want:  []item{{"A1", "X"}, {"B2", "Z"}},
		},
		{
			name:  "empty",
			items: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Deduplicate(tt.items, func(i item) string { return i.Grid })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortedUnique(t *testing.T) {
	t.Parallel()

	got := SortedUnique([]string{"B2", "A1", "B2", "C3", "A1"})
	assert.Equal(t, []string{"A1", "B2", "C3"}, got)
}
