package analyze

import "unicode"

// IsUpper reports whether s has at least one cased rune and every cased rune
// is upper case. Digits and punctuation are ignored, so "PART 1:" qualifies.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// IsTitle reports whether s is title cased: upper-case runes only start a run
// of cased runes and lower-case runes only continue one. At least one cased
// rune is required. "Annual Report 2024" qualifies, "Annual report" and
// "ANNUAL" do not.
func IsTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
