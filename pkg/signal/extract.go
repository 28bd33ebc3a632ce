package signal

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// qualifierTokens are the common severity qualifiers recognized for
// string signals that declare no value set.
var qualifierTokens = []string{"critical", "high", "medium", "low"}

// trueMarkers and falseMarkers are the lexical markers recognized for
// boolean signals. The earliest occurrence in the text decides polarity.
var (
	trueMarkers = []string{
		"yes", "true", "allow", "allowed", "approve", "approved",
		"enable", "enabled", "confirm", "confirmed",
	}
	falseMarkers = []string{
		"no", "false", "deny", "denied", "block", "blocked",
		"disable", "disabled", "reject", "rejected",
	}
)

// wordPatterns caches compiled whole-word patterns; extraction runs per
// decision and tends to see the same signal names and marker words.
var wordPatterns sync.Map

// currencyNumeral matches a numeral carrying an explicit currency prefix.
var currencyNumeral = regexp.MustCompile(`[$€£]\s?(-?\d[\d,]*(?:\.\d+)?)`)

// wholeWordPattern returns a case-insensitive whole-word matcher for word.
func wholeWordPattern(word string) *regexp.Regexp {
	if cached, ok := wordPatterns.Load(word); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	wordPatterns.Store(word, re)
	return re
}

// wordIndex returns the byte offset of the first whole-word occurrence of
// word in text, or -1.
func wordIndex(text, word string) int {
	loc := wholeWordPattern(word).FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// extractNumber finds the first decimal or currency-prefixed numeral
// associated with the field name and returns it as a float64.
// "transfer amount of $12,500.00" populates a signal named
// "transfer_amount" with 12500.
func extractNumber(text, name string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	// Underscored signal names also match their spaced spelling.
	spelled := strings.ReplaceAll(regexp.QuoteMeta(name), "_", `[ _-]`)
	key := "num:" + name
	var re *regexp.Regexp
	if cached, ok := wordPatterns.Load(key); ok {
		re = cached.(*regexp.Regexp)
	} else {
		// Field name, a short gap of non-numeric filler (allows "of",
		// ":", a currency symbol), then the numeral.
		re = regexp.MustCompile(`(?i)\b` + spelled + `\b[^0-9\n]{0,40}?(-?\d[\d,]*(?:\.\d+)?)`)
		wordPatterns.Store(key, re)
	}

	m := re.FindStringSubmatch(text)
	if m == nil {
		// A currency-prefixed numeral still counts as associated when
		// the field name itself is absent from the text.
		m = currencyNumeral.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// extractEnum returns the declared value whose whole-word occurrence
// appears earliest in the text. Matching is case-insensitive and the
// declared spelling is returned, not the spelling found in the text.
func extractEnum(text string, values []string) (string, bool) {
	if text == "" {
		return "", false
	}

	best := -1
	var found string
	for _, v := range values {
		if v == "" {
			continue
		}
		if idx := wordIndex(text, v); idx >= 0 && (best < 0 || idx < best) {
			best = idx
			found = v
		}
	}
	if best < 0 {
		return "", false
	}
	return found, true
}

// extractBoolean scans for the earliest recognized true/false lexical
// marker and returns its polarity.
func extractBoolean(text string) (bool, bool) {
	if text == "" {
		return false, false
	}

	best := -1
	var polarity bool
	for _, marker := range trueMarkers {
		if idx := wordIndex(text, marker); idx >= 0 && (best < 0 || idx < best) {
			best = idx
			polarity = true
		}
	}
	for _, marker := range falseMarkers {
		if idx := wordIndex(text, marker); idx >= 0 && (best < 0 || idx < best) {
			best = idx
			polarity = false
		}
	}
	if best < 0 {
		return false, false
	}
	return polarity, true
}

// extractString fills a string signal from its declared value set when one
// exists, falling back to the common severity qualifiers.
func extractString(text string, values []string) (string, bool) {
	if len(values) > 0 {
		return extractEnum(text, values)
	}
	return extractEnum(text, qualifierTokens)
}
