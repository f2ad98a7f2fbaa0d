// Package sanitize provides prompt-injection detection and PII masking.
// Determinism: the pattern list is static and evaluated in a fixed order,
// so masking is a pure function of the input text.
package sanitize

import "regexp"

// maskToken replaces a matched injection pattern in user-facing and
// LLM-facing text.
const maskToken = "[FILTERED]"

// injectionPatterns is the fixed set of ~24 Korean+English prompt-injection
// markers. Matches are replaced with maskToken, never removed, so masked
// text length is stable across repeated sanitize() calls (idempotence).
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all )?previous instructions`),
	regexp.MustCompile(`(?i)ignore (the )?(above|prior) (instructions|prompt)`),
	regexp.MustCompile(`(?i)disregard (all )?(previous|prior) (instructions|rules)`),
	regexp.MustCompile(`(?i)you are now`),
	regexp.MustCompile(`(?i)act as (if )?(you|a)`),
	regexp.MustCompile(`(?i)pretend (to be|you are)`),
	regexp.MustCompile(`(?i)system prompt`),
	regexp.MustCompile(`(?i)reveal (your|the) (system )?prompt`),
	regexp.MustCompile(`(?i)new instructions?:`),
	regexp.MustCompile(`(?i)\bdeveloper mode\b`),
	regexp.MustCompile(`(?i)\bjailbreak\b`),
	regexp.MustCompile(`(?i)\bDAN\b`),
	regexp.MustCompile(`(?i)</?(system|assistant|user)>`),
	regexp.MustCompile(`(?i)\[\[?system\]?\]`),
	regexp.MustCompile(`(?i)override (your|the) (rules|guidelines|instructions)`),
	regexp.MustCompile(`(?i)from now on,? you`),
	regexp.MustCompile(`시스템\s*프롬프트를?\s*(무시|알려)`),
	regexp.MustCompile(`이전\s*지시(사항)?[을를]?\s*무시`),
	regexp.MustCompile(`지금부터\s*너는`),
	regexp.MustCompile(`역할을?\s*무시하고`),
	regexp.MustCompile(`규칙을?\s*무시`),
	regexp.MustCompile(`너는\s*이제`),
	regexp.MustCompile(`개발자\s*모드`),
	regexp.MustCompile(`탈옥(모드)?`),
}

// Sanitize scans text against the fixed injection pattern set and
// replaces every match with maskToken. Returns the (possibly unchanged)
// masked text, whether any replacement happened, and the list of reasons
// (pattern indices as human-readable tags) that fired.
func Sanitize(text string) (masked string, wasModified bool, reasons []string) {
	masked = text
	for i, pattern := range injectionPatterns {
		if pattern.MatchString(masked) {
			masked = pattern.ReplaceAllString(masked, maskToken)
			wasModified = true
			reasons = append(reasons, patternReason(i))
		}
	}
	return masked, wasModified, reasons
}

func patternReason(i int) string {
	if i < len(patternNames) {
		return patternNames[i]
	}
	return "injection_pattern"
}

var patternNames = []string{
	"ignore_previous_instructions", "ignore_above_prompt", "disregard_prior_instructions",
	"role_override_you_are_now", "act_as", "pretend_to_be", "system_prompt_mention",
	"reveal_system_prompt", "new_instructions_marker", "developer_mode", "jailbreak",
	"dan_persona", "role_tag_injection", "system_bracket_injection", "override_rules",
	"from_now_on", "ko_ignore_system_prompt", "ko_ignore_previous_instructions",
	"ko_role_override", "ko_ignore_role", "ko_ignore_rules", "ko_you_are_now",
	"ko_developer_mode", "ko_jailbreak",
}
