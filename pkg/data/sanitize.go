package data

import (
	"errors"
	"strings"
)

// SanitizeAnswer extracts the JSON object from a model completion, tolerating
// prose or markdown fences around it. Planner answers nest objects, so this
// spans from the first opening brace to the last closing one.
func SanitizeAnswer(ans string) (string, error) {
	start := strings.IndexByte(ans, '{')
	end := strings.LastIndexByte(ans, '}')
	if start < 0 || end <= start {
		return "", errors.New("no json object found in answer")
	}
	return ans[start : end+1], nil
}
