// Package daterank orders the free-text relative dates Persian job boards
// publish ("۲ روز پیش", "۱ هفته پیش", ...). Rank ascends with age, so
// sorting by ascending rank puts the newest postings first.
package daterank

import (
	"regexp"
	"strconv"
	"strings"
)

// SentinelRank is assigned to empty, unspecified, or unrecognized text so
// it always sorts last under the "newest" order.
const SentinelRank = 999

const unspecified = "نامشخص"

var (
	hoursRegex  = regexp.MustCompile(`(\d+)\s*ساعت`)
	daysRegex   = regexp.MustCompile(`(\d+)\s*روز`)
	weeksRegex  = regexp.MustCompile(`(\d+)\s*هفته`)
	monthsRegex = regexp.MustCompile(`(\d+)\s*ماه`)
)

// Persian and Arabic-Indic digits, folded to ASCII before magnitude parsing.
var digitFolder = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// Rank maps relative-date text to a sortable number of days. It is total:
// anything it cannot classify gets SentinelRank.
func Rank(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == unspecified {
		return SentinelRank
	}
	text = digitFolder.Replace(text)

	switch {
	case strings.Contains(text, "امروز"):
		return 0
	case strings.Contains(text, "دیروز"):
		return 1
	case strings.Contains(text, "ساعت"):
		if n, ok := magnitude(hoursRegex, text); ok {
			return float64(n) / 24
		}
		return 0.1
	case strings.Contains(text, "روز"):
		if n, ok := magnitude(daysRegex, text); ok {
			return float64(n)
		}
		return 2
	case strings.Contains(text, "هفته"):
		if n, ok := magnitude(weeksRegex, text); ok {
			return float64(n * 7)
		}
		return 7
	case strings.Contains(text, "ماه"):
		if n, ok := magnitude(monthsRegex, text); ok {
			return float64(n * 30)
		}
		return 30
	}
	return SentinelRank
}

func magnitude(re *regexp.Regexp, text string) (int, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
