package extract

import "fmt"

// Pattern selects one logical field out of a flat, cyclically interleaved
// element list: element i belongs to the field when i % Period == Offset.
type Pattern struct {
	Period int
	Offset int
}

// Every keeps all elements.
var Every = Pattern{Period: 1, Offset: 0}

// Validate rejects patterns that can never select anything meaningful.
func (p Pattern) Validate() error {
	if p.Period <= 0 {
		return fmt.Errorf("pattern period must be positive, got %d", p.Period)
	}
	if p.Offset < 0 || p.Offset >= p.Period {
		return fmt.Errorf("pattern offset %d out of range for period %d", p.Offset, p.Period)
	}
	return nil
}

// Check compares the observed flat-list length against the period. A
// remainder means the rendering order drifted or a block is truncated.
func (p Pattern) Check(n int) error {
	if p.Period > 1 && n%p.Period != 0 {
		return fmt.Errorf("%d elements is not a multiple of period %d", n, p.Period)
	}
	return nil
}

// Partition returns the items at indices i where i % p.Period == p.Offset,
// in original order. An invalid pattern yields nil.
func Partition[T any](items []T, p Pattern) []T {
	if p.Validate() != nil {
		return nil
	}
	out := make([]T, 0, len(items)/p.Period+1)
	for i := p.Offset; i < len(items); i += p.Period {
		out = append(out, items[i])
	}
	return out
}
