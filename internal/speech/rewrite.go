package speech

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/cookvoice/internal/numwords"
)

// ── Speech-friendly rewriting ────────────────────────────────────
//
// TTS engines read "1.5 hours" as "one point five hours" and "350°F" as
// whatever they like. Rewrite turns the notations recipes actually use
// into plain words. The rewrites run in a fixed order; hour halves go
// first so the generic decimal rule never sees them.

const (
	numberPattern = `\d+(?:\.\d+)?`
	hourUnit      = `(?:hours?|hrs?)`
	minuteUnit    = `(?:minutes?|mins?)`
)

var (
	hourHalf      = regexp.MustCompile(`(?i)\b(\d+)\.5\s*` + hourUnit + `\b`)
	hourDecimal   = regexp.MustCompile(`(?i)\b(\d+)\.(\d+)\s*` + hourUnit + `\b`)
	durationRange = regexp.MustCompile(`(?i)\b(` + numberPattern + `)\s*(?:-|–|to)\s*(` + numberPattern + `)\s*(` + hourUnit + `|` + minuteUnit + `)\b`)
	minuteHalf    = regexp.MustCompile(`(?i)\b(\d+)\.5\s*` + minuteUnit + `\b`)
	degrees       = regexp.MustCompile(`(\d+)\s*[°º]\s*([FfCc])\b`)
	mixedFraction = regexp.MustCompile(`\b(\d+)(?:\s+(1/2|1/4|3/4|1/3|2/3)\b|\s*([½¼¾⅓⅔]))`)
	fraction      = regexp.MustCompile(`\b(1/2|1/4|3/4|1/3|2/3)\b|[½¼¾⅓⅔]`)

	// rangeTail matches text ending in a range connector, so a half or
	// decimal that is the upper bound of a range is left to durationRange.
	rangeTail = regexp.MustCompile(`(?i)(?:\d\s*[-–]|\bto)\s*$`)
)

var fractionWords = map[string]string{
	"1/2": "one half",
	"1/4": "one quarter",
	"3/4": "three quarters",
	"1/3": "one third",
	"2/3": "two thirds",

	"½": "one half",
	"¼": "one quarter",
	"¾": "three quarters",
	"⅓": "one third",
	"⅔": "two thirds",
}

// mixedWords is what follows "<n> and" in a mixed number.
var mixedWords = map[string]string{
	"1/2": "a half",
	"1/4": "a quarter",
	"3/4": "three quarters",
	"1/3": "a third",
	"2/3": "two thirds",

	"½": "a half",
	"¼": "a quarter",
	"¾": "three quarters",
	"⅓": "a third",
	"⅔": "two thirds",
}

// Rewrite returns text with durations, ranges, temperatures and fractions
// spelled out for speech synthesis. Text it does not recognize passes
// through unchanged.
func Rewrite(text string) string {
	text = replaceOutsideRange(hourHalf, text, func(m []string) string {
		return halfPhrase(m[1], "hour")
	})
	text = replaceOutsideRange(hourDecimal, text, func(m []string) string {
		return decimalWords(m[1], m[2]) + " hours"
	})
	text = durationRange.ReplaceAllStringFunc(text, func(s string) string {
		m := durationRange.FindStringSubmatch(s)
		return spokenBound(m[1]) + " to " + spokenBound(m[2]) + " " + pluralUnit(m[3])
	})
	text = minuteHalf.ReplaceAllStringFunc(text, func(s string) string {
		return halfPhrase(minuteHalf.FindStringSubmatch(s)[1], "minute")
	})
	text = degrees.ReplaceAllStringFunc(text, func(s string) string {
		m := degrees.FindStringSubmatch(s)
		scale := "Fahrenheit"
		if strings.EqualFold(m[2], "c") {
			scale = "Celsius"
		}
		return m[1] + " degrees " + scale
	})
	text = mixedFraction.ReplaceAllStringFunc(text, func(s string) string {
		m := mixedFraction.FindStringSubmatch(s)
		frac := m[2]
		if frac == "" {
			frac = m[3]
		}
		return m[1] + " and " + mixedWords[frac]
	})
	return fraction.ReplaceAllStringFunc(text, func(s string) string {
		return fractionWords[s]
	})
}

// replaceOutsideRange is ReplaceAllStringSubmatchFunc that leaves matches
// preceded by a range connector alone.
func replaceOutsideRange(re *regexp.Regexp, text string, fn func([]string) string) string {
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if rangeTail.MatchString(text[:loc[0]]) {
			continue
		}
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// halfPhrase renders "<whole>.5 <unit>": "one and a half hours",
// "half an hour", "half a minute".
func halfPhrase(whole, unit string) string {
	n, _ := strconv.Atoi(whole)
	if n == 0 {
		if unit == "hour" {
			return "half an hour"
		}
		return "half a " + unit
	}
	return numwords.ToWords(n) + " and a half " + unit + "s"
}

// decimalWords reads a decimal digit by digit after the point:
// ("1", "25") -> "one point two five".
func decimalWords(whole, frac string) string {
	n, _ := strconv.Atoi(whole)
	return numwords.ToWords(n) + " point " + numwords.DigitsToWords(frac)
}

// spokenBound renders one end of a range. Whole numbers stay numerals.
func spokenBound(s string) string {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok {
		return s
	}
	n, _ := strconv.Atoi(whole)
	if frac == "5" {
		if n == 0 {
			return "a half"
		}
		return numwords.ToWords(n) + " and a half"
	}
	return decimalWords(whole, frac)
}

func pluralUnit(u string) string {
	if strings.HasPrefix(strings.ToLower(u), "h") {
		return "hours"
	}
	return "minutes"
}
