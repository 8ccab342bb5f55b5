package runeio

import "strings"

// ParseSet parses a whitespace separated list of rune literals, as accepted
// by UnquoteRune, into a string of those runes. Any field that is not a valid
// rune literal is taken verbatim.
func ParseSet(list string) string {
	var sb strings.Builder
	for _, field := range strings.Fields(list) {
		if r, err := UnquoteRune(field); err == nil {
			sb.WriteRune(r)
		} else {
			sb.WriteString(field)
		}
	}
	return sb.String()
}

// FormatSet renders a string of runes for display, replacing control runes
// and space with their mnemonics. The empty set renders as "ø".
func FormatSet(set string) string {
	if set == "" {
		return "ø"
	}
	var sb strings.Builder
	for _, r := range set {
		if m := Mnemonic(r); m != "" {
			sb.WriteString(m)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
