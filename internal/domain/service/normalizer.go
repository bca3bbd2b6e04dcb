package service

import "strings"

// noiseMarkers are removed from messages, in this order
var noiseMarkers = []string{"/", "-", "=", "+", "fw:", "re:", "."}

// Normalize lowercases text and strips forwarding/reply markers and punctuation noise.
//
// Double spaces are replaced in a single pass, so a run of three or more
// spaces is shortened but not collapsed to one.
func Normalize(text string) string {
	text = strings.ToLower(text)

	for _, marker := range noiseMarkers {
		text = strings.ReplaceAll(text, marker, "")
	}

	text = strings.ReplaceAll(text, "  ", " ")
	return strings.TrimSpace(text)
}
