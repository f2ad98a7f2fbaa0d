package classify

import "testing"

func TestExtractJSON_StripsSurroundingProse(t *testing.T) {
	text := "Here is my answer:\n{\"domains\": [\"finance_tax\"], \"is_rejection\": false}\nHope that helps."
	got := extractJSON(text)
	want := `{"domains": ["finance_tax"], "is_rejection": false}`
	if got != want {
		t.Errorf("extractJSON() = %q, want %q", got, want)
	}
}

func TestExtractJSON_NoBracesReturnsOriginal(t *testing.T) {
	text := "no json here"
	if got := extractJSON(text); got != text {
		t.Errorf("extractJSON() = %q, want unchanged %q", got, text)
	}
}
