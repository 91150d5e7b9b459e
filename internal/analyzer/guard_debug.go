//go:build debugchecks

package analyzer

import "fmt"

// assertNormalized panics when the tokenizer input violates the Normalizer
// output contract. Compiled in only under the debugchecks build tag; release
// builds pay nothing for the check.
func assertNormalized(s string) {
	if len(s) == 0 {
		return
	}
	if s[0] == ' ' {
		panic("analyzer: tokenizer input has leading whitespace")
	}
	if s[len(s)-1] == ' ' {
		panic("analyzer: tokenizer input has trailing whitespace")
	}
	prevSpace := false
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f' {
			panic(fmt.Sprintf("analyzer: tokenizer input contains raw whitespace byte %#x", b))
		}
		if b >= 'A' && b <= 'Z' {
			panic("analyzer: tokenizer input is not lowercase")
		}
		if b == ' ' {
			if prevSpace {
				panic("analyzer: tokenizer input has consecutive spaces")
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
	}
}
