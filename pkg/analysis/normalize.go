package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The repair rules below keep strict-JSON parsing viable for output the model
// produces in practice: explicit '+' signs on positive numbers and ill-formed
// "minutes.seconds.hundredths" time strings such as "2.02.96". The multi-dot
// repair is restricted to known time-valued fields so unrelated numeric-looking
// strings are never touched.

var (
	plusSignRx = regexp.MustCompile(`:\s*\+(\d+)`)

	// e.g. "start_time": 2.02.96 or "start_time": "2.02.96"
	multiDotTimeRx = regexp.MustCompile(`"(video_duration|first_appearance_time|start_time|end_time)"\s*:\s*"?(\d+(?:\.\d+){2,})"?`)
)

// NormalizeNumericText repairs malformed numeric tokens in extracted JSON
// text before structural parsing. Values with at most one decimal point pass
// through untouched, so the function is idempotent.
func NormalizeNumericText(s string) string {
	s = plusSignRx.ReplaceAllString(s, ": $1")
	s = multiDotTimeRx.ReplaceAllStringFunc(s, func(m string) string {
		sub := multiDotTimeRx.FindStringSubmatch(m)
		return fmt.Sprintf(`"%s": %s`, sub[1], formatSeconds(ParseTimeSeconds(sub[2])))
	})
	return s
}

// ParseTimeSeconds converts a time value written as a clock string
// ("MM:SS.ms", "HH:MM:SS.ms"), a multi-dot artifact ("2.02.96" meaning
// 2m 2s .96), or a plain float into seconds. Unparseable input yields 0.
func ParseTimeSeconds(v string) float64 {
	v = strings.TrimSpace(v)

	if strings.Contains(v, ":") {
		parts := strings.Split(v, ":")
		switch len(parts) {
		case 2:
			return float64(atoiOrZero(parts[0]))*60 + parseFloatOrZero(parts[1])
		case 3:
			return float64(atoiOrZero(parts[0]))*3600 +
				float64(atoiOrZero(parts[1]))*60 +
				parseFloatOrZero(parts[2])
		}
		return 0
	}

	if strings.Count(v, ".") >= 2 {
		parts := strings.Split(v, ".")
		minutes := atoiOrZero(parts[0])
		seconds := atoiOrZero(parts[1])
		fraction := parseFloatOrZero("0." + strings.Join(parts[2:], ""))
		return float64(minutes)*60 + float64(seconds) + fraction
	}

	return parseFloatOrZero(v)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Round4 rounds to 4 decimal places by scaling to an integer first, keeping
// repeated runs on identical input byte-stable in the serialized result.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
