package scoring

import "strings"

// Normalize canonicalizes free text for keyword comparison: lower-case,
// everything outside [a-z0-9] and whitespace becomes a space, whitespace runs
// collapse to one space and the result is trimmed.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// punctuation and non-ascii letters separate words just like whitespace
		pendingSpace = true
	}
	return b.String()
}

// NormalizeAny is the total form of Normalize for loosely typed input such as
// decoded JSON. Anything that is not a string normalizes to "".
func NormalizeAny(v any) string {
	switch t := v.(type) {
	case string:
		return Normalize(t)
	case *string:
		if t == nil {
			return ""
		}
		return Normalize(*t)
	default:
		return ""
	}
}

// fold is the weaker comparison used for MCQ answers: trim and case-fold only.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
