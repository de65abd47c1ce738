package models

// Sentinel is the placeholder stored when a field cannot be resolved.
const Sentinel = "NA"

// Sequence is the ordered list of values collected for one field name,
// one entry per container (or per partitioned element) encountered.
type Sequence []string

// Record maps a field name to its value for one restaurant or review.
type Record map[string]string

// Values returns the record's values in column order. Missing columns
// come back as Sentinel so every row has the same width.
func (r Record) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		v, ok := r[c]
		if !ok {
			v = Sentinel
		}
		out[i] = v
	}
	return out
}

// Column collects one field across records, in record order.
func Column(records []Record, name string) Sequence {
	out := make(Sequence, len(records))
	for i, r := range records {
		v, ok := r[name]
		if !ok {
			v = Sentinel
		}
		out[i] = v
	}
	return out
}

// Filled counts the values in seq that are not the sentinel.
func Filled(seq Sequence) int {
	n := 0
	for _, v := range seq {
		if v != Sentinel {
			n++
		}
	}
	return n
}
