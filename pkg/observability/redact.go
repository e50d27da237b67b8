package observability

import "regexp"

// Credential-looking substrings are masked before logging. Patterns
// cover OpenAI-style keys, bearer headers, and key=value assignments.
var redactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{10,}`),
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret)\s*[=:]\s*[^\s,;"']{6,}`),
}

// Redact masks credential-looking substrings in s.
func Redact(s string) string {
	for _, re := range redactPatterns {
		s = re.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}
