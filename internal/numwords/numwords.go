// Package numwords converts between spoken number words and integers.
//
// Speech-to-text output is lossy: "set a timer for to minutes" is a real
// transcription. Parse therefore accepts the homophones a recognizer is
// likely to emit alongside the proper words.
package numwords

import (
	"strconv"
	"strings"
)

var ones = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = map[string]int{
	"twenty":  20,
	"thirty":  30,
	"forty":   40,
	"fourty":  40,
	"fifty":   50,
	"sixty":   60,
	"seventy": 70,
	"eighty":  80,
	"ninety":  90,
}

// tensNames is the canonical spelling per tens digit, for ToWords.
var tensNames = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}

// homophones are recognizer mistakes we accept as numbers.
var homophones = map[string]int{
	"won":         1,
	"want":        1,
	"juan":        1,
	"to":          2,
	"too":         2,
	"tree":        3,
	"free":        3,
	"for":         4,
	"fore":        4,
	"fur":         4,
	"fife":        5,
	"sicks":       6,
	"ate":         8,
	"nein":        9,
	"nain":        9,
	"tin":         10,
	"fitty":       50,
	"a couple":    2,
	"a couple of": 2,
	"couple":      2,
	"a dozen":     12,
	"dozen":       12,
}

// table maps every accepted word form for 0-60 to its value.
var table = buildTable()

func buildTable() map[string]int {
	t := make(map[string]int, 256)
	for n, w := range ones {
		t[w] = n
	}
	for w, n := range tens {
		if n > 60 {
			continue
		}
		t[w] = n
		for o := 1; o <= 9 && n+o <= 60; o++ {
			t[w+"-"+ones[o]] = n + o
			t[w+" "+ones[o]] = n + o
			t[w+ones[o]] = n + o
		}
	}
	for w, n := range homophones {
		t[w] = n
	}
	return t
}

// Parse interprets a spoken token as a non-negative integer. It accepts
// digit strings, the word table (including homophones), and two-word
// compounds of a tens word and a ones word ("seventy two"). The second
// result is false when no interpretation exists; that is a normal
// no-match, not an error.
func Parse(token string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(token))
	s = strings.Trim(s, ".,!?")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return 0, false
	}

	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	if n, ok := table[s]; ok {
		return n, true
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' })
	if len(parts) == 2 {
		t, okT := tens[parts[0]]
		o, okO := onesValue(parts[1])
		if okT && okO && o >= 1 && o <= 9 {
			return t + o, true
		}
	}
	return 0, false
}

// onesValue resolves a single ones word, homophones included.
func onesValue(w string) (int, bool) {
	for n := 1; n <= 9; n++ {
		if ones[n] == w {
			return n, true
		}
	}
	if n, ok := homophones[w]; ok && n <= 9 {
		return n, true
	}
	return 0, false
}

// ToWords spells out 0-99. Anything else comes back as the numeral.
func ToWords(n int) string {
	switch {
	case n < 0 || n > 99:
		return strconv.Itoa(n)
	case n < 20:
		return ones[n]
	case n%10 == 0:
		return tensNames[n/10]
	default:
		return tensNames[n/10] + "-" + ones[n%10]
	}
}

// DigitsToWords spells each digit: "25" -> "two five". Non-digits are dropped.
func DigitsToWords(digits string) string {
	words := make([]string, 0, len(digits))
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			words = append(words, ones[r-'0'])
		}
	}
	return strings.Join(words, " ")
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
