package analysis

import (
	"strings"

	"visage/pkg/utils"
)

// ExtractObject isolates the JSON object inside a raw model response. Models
// regularly wrap their answer in markdown fences or surround it with prose
// even when told not to; the payload is taken as the substring from the
// first '{' to the last '}' inclusive.
func ExtractObject(raw string) (string, error) {
	cleaned := utils.CleanJSON(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrMalformedResponse
	}

	return cleaned[start : end+1], nil
}
