package sanitize

import "regexp"

// piiPatterns masks Korean resident IDs, business registration numbers,
// phone numbers, emails, and bank account numbers. Used only for logging
// and other observability surfaces — never applied to text sent to the
// LLM, since user identity is trusted for answering and redacted only in
// observability (§4.1).
var piiPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"resident_id", regexp.MustCompile(`\b\d{6}-[1-4]\d{6}\b`)},
	{"business_reg_no", regexp.MustCompile(`\b\d{3}-\d{2}-\d{5}\b`)},
	{"phone", regexp.MustCompile(`\b01[0-9]-\d{3,4}-\d{4}\b`)},
	{"email", regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)},
	{"bank_account", regexp.MustCompile(`\b\d{2,6}-\d{2,6}-\d{2,8}\b`)},
}

// MaskPII redacts PII from text for log lines. It must never be applied
// to text forwarded to the LLM.
func MaskPII(text string) string {
	masked := text
	for _, p := range piiPatterns {
		masked = p.pattern.ReplaceAllString(masked, "[PII:"+p.name+"]")
	}
	return masked
}
