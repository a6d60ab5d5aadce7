package daterank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{name: "today", text: "امروز", expected: 0},
		{name: "yesterday", text: "دیروز", expected: 1},
		{name: "hours with persian digits", text: "۶ ساعت پیش", expected: 0.25},
		{name: "hours word magnitude", text: "چند ساعت پیش", expected: 0.1},
		{name: "days", text: "۲ روز پیش", expected: 2},
		{name: "days ascii digits", text: "12 روز پیش", expected: 12},
		{name: "days word magnitude", text: "چند روز پیش", expected: 2},
		{name: "weeks", text: "۱ هفته پیش", expected: 7},
		{name: "weeks word magnitude", text: "هفته پیش", expected: 7},
		{name: "months", text: "۳ ماه پیش", expected: 90},
		{name: "months word magnitude", text: "یک ماه پیش", expected: 30},
		{name: "empty", text: "", expected: SentinelRank},
		{name: "sentinel", text: "نامشخص", expected: SentinelRank},
		{name: "gibberish", text: "به زودی", expected: SentinelRank},
		{name: "surrounding whitespace", text: "  امروز  ", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rank(tt.text))
		})
	}
}

func TestRankOrdering(t *testing.T) {
	//ascending rank = newer first
	assert.Less(t, Rank("امروز"), Rank("۲ روز پیش"))
	assert.Less(t, Rank("۲ روز پیش"), Rank("۱ هفته پیش"))
	assert.Less(t, Rank("۱ هفته پیش"), Rank(""))
	assert.Less(t, Rank("۵ ساعت پیش"), Rank("دیروز"))
	assert.Equal(t, float64(SentinelRank), Rank(""))
}
