package chunker

import "strings"

// DefaultMaxChars is the soft character budget per chunk.
const DefaultMaxChars = 500

// Split packs consecutive lines of text into chunks of at most maxChars
// characters. Lines are never broken: a single line longer than the budget
// becomes its own oversized chunk. Joining the result with "\n" reproduces
// the input exactly.
func Split(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	lines := strings.Split(text, "\n")

	var chunks []string
	var current []string
	currentLen := 0

	for _, line := range lines {
		addLen := len(line)
		if len(current) > 0 {
			addLen++ // joining newline
		}
		if currentLen+addLen > maxChars && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = []string{line}
			currentLen = len(line)
		} else {
			current = append(current, line)
			currentLen += addLen
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}

	return chunks
}
