package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		maxToShow      int
		want           []int
	}{
		{"no pages", 1, 0, 5, []int{}},
		{"fewer than max", 2, 3, 5, []int{1, 2, 3}},
		{"exactly max", 5, 5, 5, []int{1, 2, 3, 4, 5}},
		{"start of range", 1, 12, 5, []int{1, 2, 3, 4, 5}},
		{"centered", 6, 12, 5, []int{4, 5, 6, 7, 8}},
		{"re-anchors near end", 10, 12, 5, []int{8, 9, 10, 11, 12}},
		{"last page", 12, 12, 5, []int{8, 9, 10, 11, 12}},
		{"even width", 6, 12, 4, []int{4, 5, 6, 7}},
		{"default width", 1, 9, 0, []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageNumbers(tt.current, tt.total, tt.maxToShow))
		})
	}
}

func TestPageNumbersAlwaysContiguous(t *testing.T) {
	for total := 0; total <= 20; total++ {
		for maxToShow := 1; maxToShow <= 8; maxToShow++ {
			for current := 1; current <= max(1, total); current++ {
				got := PageNumbers(current, total, maxToShow)
				assert.Len(t, got, min(total, maxToShow))
				for i, p := range got {
					assert.GreaterOrEqual(t, p, 1)
					assert.LessOrEqual(t, p, total)
					if i > 0 {
						assert.Equal(t, got[i-1]+1, p)
					}
				}
			}
		}
	}
}
