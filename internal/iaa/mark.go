package iaa

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// MarkAnswer grades the record's student answer against the question's
// answer spec and returns the verdict: true, false, or nil when the
// question cannot be marked locally (empty spec, or a "_start_with"
// override of null). Practice attempts are never graded against the
// student's record; their verdict is stashed in the answer under
// "practice_correct" instead and nil is returned.
func MarkAnswer(a *lecture.AnswerRecord, spec lecture.AnswerSpec) *bool {
	verdict := markFields(a.StudentAnswer, spec)
	if a.Practice() {
		if verdict != nil {
			a.StudentAnswer.SetPracticeCorrect(*verdict)
		}
		return nil
	}
	return verdict
}

func markFields(answer lecture.StudentAnswer, spec lecture.AnswerSpec) *bool {
	gradable := false
	pass := true
	for field, want := range spec {
		if strings.HasPrefix(field, "_") {
			continue
		}
		gradable = true
		if !fieldMatches(answer[field], want) {
			pass = false
		}
	}
	if !gradable {
		return nil
	}

	if pass {
		// "_start_with" overrides a passing verdict: the authoring
		// side uses it to defer or veto local marking.
		if override, ok := spec["_start_with"]; ok {
			if override == nil {
				return nil
			}
			if b, isBool := override.(bool); isBool {
				return &b
			}
		}
	}
	return &pass
}

func fieldMatches(got, want any) bool {
	raw := stringValue(got)
	value := norm.NFC.String(strings.TrimSpace(raw))

	switch w := want.(type) {
	case []any:
		for _, alt := range w {
			if value == stringValue(alt) {
				return true
			}
		}
		return false
	case map[string]any:
		if _, ok := w["nonempty"]; ok {
			return raw != ""
		}
		return false
	default:
		return value == stringValue(want)
	}
}

// stringValue renders a spec or answer value the way the wire format
// does, so 42 and "42" compare equal.
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
