package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Values(t *testing.T) {
	r := Record{"name": "Truffles", "rating": "4.5"}

	assert.Equal(t, []string{"4.5", Sentinel, "Truffles"}, r.Values([]string{"rating", "url", "name"}))
}

func TestColumnAndFilled(t *testing.T) {
	records := []Record{
		{"name": "Truffles", "rating": "4.5"},
		{"name": "Empire", "rating": Sentinel},
		{"name": "Meghana"},
	}

	assert.Equal(t, Sequence{"4.5", Sentinel, Sentinel}, Column(records, "rating"))
	assert.Equal(t, 1, Filled(Column(records, "rating")))
	assert.Equal(t, 3, Filled(Column(records, "name")))
	assert.Empty(t, Column(nil, "name"))
}
