package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition_PeriodFourOffsetZero(t *testing.T) {
	items := make([]int, 28)
	for i := range items {
		items[i] = i
	}

	got := Partition(items, Pattern{Period: 4, Offset: 0})

	assert.Equal(t, []int{0, 4, 8, 12, 16, 20, 24}, got)
}

func TestPartition(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	tests := []struct {
		name string
		p    Pattern
		want []string
	}{
		{"every", Every, items},
		{"period 4 offset 2", Pattern{Period: 4, Offset: 2}, []string{"c", "g"}},
		{"period 7 offset 1", Pattern{Period: 7, Offset: 1}, []string{"b", "i"}},
		{"offset past end", Pattern{Period: 20, Offset: 15}, []string{}},
		{"zero period", Pattern{Period: 0}, nil},
		{"offset equals period", Pattern{Period: 3, Offset: 3}, nil},
		{"negative offset", Pattern{Period: 3, Offset: -1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Partition(items, tt.p))
		})
	}
}

func TestPattern_Check(t *testing.T) {
	p := Pattern{Period: 7, Offset: 1}
	assert.NoError(t, p.Check(0))
	assert.NoError(t, p.Check(14))
	assert.Error(t, p.Check(15))
	assert.NoError(t, Every.Check(5))
}
