// Package align reconciles field sequences of unequal length by truncating
// every sequence to the shortest one.
package align

import "github.com/use-agent/dinescrape/models"

// Shortest returns the minimum sequence length, or 0 for an empty set.
func Shortest(seqs map[string]models.Sequence) int {
	first := true
	n := 0
	for _, s := range seqs {
		if first || len(s) < n {
			n = len(s)
			first = false
		}
	}
	return n
}

// Align returns a new map in which every sequence is cut to Shortest(seqs).
// Head order is preserved and excess tail values are dropped. The input is
// not modified and aligning aligned data changes nothing.
func Align(seqs map[string]models.Sequence) map[string]models.Sequence {
	n := Shortest(seqs)
	out := make(map[string]models.Sequence, len(seqs))
	for name, s := range seqs {
		cut := make(models.Sequence, n)
		copy(cut, s[:n])
		out[name] = cut
	}
	return out
}

// Dropped reports how many tail values Align discards per field. Fields
// that lose nothing are omitted.
func Dropped(seqs map[string]models.Sequence) map[string]int {
	n := Shortest(seqs)
	out := map[string]int{}
	for name, s := range seqs {
		if d := len(s) - n; d > 0 {
			out[name] = d
		}
	}
	return out
}
