package synth

import (
	"regexp"
	"strings"
)

// placeholderPatterns match the stand-in comments models emit when they elide
// code. Matching is per line and case-insensitive; a single hit rejects the
// whole file.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bTODO\b`),
	regexp.MustCompile(`(?i)\bFIXME\b`),
	regexp.MustCompile(`(?i)rest of (the )?(code|file|implementation)`),
	regexp.MustCompile(`(?i)omitted for brevity`),
	regexp.MustCompile(`(?i)remains? (the )?same`),
	regexp.MustCompile(`(?i)your (code|implementation|logic) (goes )?here`),
	regexp.MustCompile(`(?i)implement (this|the rest)`),
	regexp.MustCompile(`(?i)\bplaceholder\b`),
	regexp.MustCompile(`(?i)add (the )?(remaining|missing) `),
	regexp.MustCompile(`^\s*\.\.\.\s*$`),
}

// CheckComplete validates a generated file body. It returns a non-empty
// reason when the content is empty or contains a placeholder marker.
func CheckComplete(content string) string {
	if strings.TrimSpace(content) == "" {
		return "content is empty"
	}
	for _, line := range strings.Split(content, "\n") {
		for _, pattern := range placeholderPatterns {
			if pattern.MatchString(line) {
				return "placeholder marker: " + strings.TrimSpace(line)
			}
		}
	}
	return ""
}

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z0-9+-]*\n(.*)\n```\\s*$")

// StripFence unwraps a response that is exactly one fenced code block.
// Fences inside the body are left alone.
func StripFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return content
}
